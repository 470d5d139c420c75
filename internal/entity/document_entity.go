package entity

import "time"

// Document is one revision. (Id, CreatedAt) identifies it; the latest revision is current.
type Document struct {
	Id        string
	CreatedAt time.Time
	Title     string
	Kind      string
	Content   string
	UserId    string
	ChatId    *string
}

type Suggestion struct {
	Id                string
	DocumentId        string
	DocumentCreatedAt time.Time
	OriginalText      string
	SuggestedText     string
	Description       string
	IsResolved        bool
	UserId            string
	CreatedAt         time.Time
}
