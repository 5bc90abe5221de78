package database

import "github.com/Thintalltom/Paperless-Audit/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Request{},
	}
}
