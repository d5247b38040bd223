package seed

import (
	_ "embed"
	"errors"
	"fmt"

	"bookden/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed books.yml
var catalogYAML []byte

// CatalogBook is one entry of the built-in starter catalog.
type CatalogBook struct {
	Title         string `yaml:"title"`
	Author        string `yaml:"author"`
	ISBN          string `yaml:"isbn"`
	PublishedYear int    `yaml:"published_year"`
	Description   string `yaml:"description"`
}

type catalogFile struct {
	Books []CatalogBook `yaml:"books"`
}

// LoadCatalog parses the embedded starter catalog.
func LoadCatalog() ([]CatalogBook, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	if len(file.Books) == 0 {
		return nil, errors.New("embedded catalog is empty")
	}
	for i, b := range file.Books {
		if b.Title == "" || b.Author == "" || b.ISBN == "" {
			return nil, fmt.Errorf("catalog entry %d is missing title, author or isbn", i)
		}
	}
	return file.Books, nil
}

// Catalog upserts the built-in starter catalog, keyed by ISBN. Existing
// entries get their metadata refreshed; reviews and cover art are untouched.
func Catalog(db *gorm.DB) error {
	books, err := LoadCatalog()
	if err != nil {
		return err
	}

	for _, item := range books {
		item := item
		err := db.Transaction(func(tx *gorm.DB) error {
			var existing models.Book
			findErr := tx.Where("isbn = ?", item.ISBN).First(&existing).Error
			switch {
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				book := models.Book{
					Title:         item.Title,
					Author:        item.Author,
					ISBN:          &item.ISBN,
					Description:   item.Description,
					PublishedYear: item.PublishedYear,
				}
				return tx.Create(&book).Error
			case findErr != nil:
				return findErr
			}

			return tx.Model(&models.Book{}).Where("id = ?", existing.ID).Updates(map[string]any{
				"title":          item.Title,
				"author":         item.Author,
				"description":    item.Description,
				"published_year": item.PublishedYear,
			}).Error
		})
		if err != nil {
			return fmt.Errorf("seed catalog book %s: %w", item.ISBN, err)
		}
	}

	return nil
}
