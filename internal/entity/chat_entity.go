package entity

import "time"

type Chat struct {
	Id         string
	UserId     string
	Title      string
	Visibility string
	CreatedAt  time.Time
}
