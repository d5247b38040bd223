package database

import "bookden/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Book{},
		&models.Review{},
		&models.Comment{},
	}
}
