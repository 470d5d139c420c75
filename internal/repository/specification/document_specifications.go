package specification

import "gorm.io/gorm"

type ByDocumentID struct {
	DocumentID string
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}
