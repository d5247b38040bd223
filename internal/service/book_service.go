package service

import (
	"context"
	"errors"
	"strings"

	"bookden/internal/models"
	"bookden/internal/repository"
	"bookden/internal/validation"

	"gorm.io/gorm"
)

// BookService owns the catalog. Books are managed by admins; anyone can
// browse them.
type BookService struct {
	bookRepo repository.BookRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreateBookInput struct {
	ActorID       uint
	Title         string
	Author        string
	ISBN          string
	Description   string
	PublishedYear int
}

type UpdateBookInput struct {
	ActorID       uint
	BookID        uint
	Title         string
	Author        string
	Description   string
	PublishedYear int
}

func NewBookService(bookRepo repository.BookRepository, isAdmin func(ctx context.Context, userID uint) (bool, error)) *BookService {
	return &BookService{bookRepo: bookRepo, isAdmin: isAdmin}
}

// ListBooks returns one page of the catalog, optionally filtered by a
// title/author substring match.
func (s *BookService) ListBooks(ctx context.Context, q validation.ListBooksQuery) (*models.BookPage, error) {
	books, total, err := s.bookRepo.List(ctx, repository.BookListFilter{
		Search: q.Search,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return &models.BookPage{
		Books:      books,
		Pagination: models.NewPagination(q.Page, q.Limit, total),
	}, nil
}

func (s *BookService) GetBook(ctx context.Context, bookID uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeBookNotFound, "Book", bookID)
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) CreateBook(ctx context.Context, in CreateBookInput) (*models.Book, error) {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	author := strings.TrimSpace(in.Author)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if author == "" {
		return nil, models.NewValidationError("Author is required")
	}

	if in.ISBN != "" {
		existing, err := s.bookRepo.GetByISBN(ctx, in.ISBN)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewDuplicateResourceError("A book with this ISBN already exists")
		}
	}

	book := &models.Book{
		Title:         title,
		Author:        author,
		Description:   in.Description,
		PublishedYear: in.PublishedYear,
		CreatedBy:     &in.ActorID,
	}
	if in.ISBN != "" {
		book.ISBN = &in.ISBN
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) UpdateBook(ctx context.Context, in UpdateBookInput) (*models.Book, error) {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, in.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeBookNotFound, "Book", in.BookID)
		}
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		book.Title = title
	}
	if author := strings.TrimSpace(in.Author); author != "" {
		book.Author = author
	}
	if in.Description != "" {
		book.Description = in.Description
	}
	if in.PublishedYear != 0 {
		book.PublishedYear = in.PublishedYear
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a catalog entry unless reviews still reference it.
func (s *BookService) DeleteBook(ctx context.Context, actorID, bookID uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	err := s.bookRepo.DeleteWithGuard(ctx, bookID)
	if errors.Is(err, repository.ErrHasReviews) {
		return models.NewRelatedDataExistsError("Book has reviews and cannot be deleted")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(models.CodeBookNotFound, "Book", bookID)
	}
	return err
}

func (s *BookService) requireAdmin(ctx context.Context, actorID uint) error {
	if actorID == 0 {
		return models.NewAuthenticationRequiredError()
	}
	if s.isAdmin == nil {
		return models.NewForbiddenError("Admin access required")
	}
	admin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}
