package database

import "yanjihub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Post{},
		&models.Comment{},
		&models.InquiryMessage{},
		&models.BlacklistItem{},
		&models.Report{},
		&models.Reaction{},
	}
}
