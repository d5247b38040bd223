package service

import (
	"context"
	"errors"
	"fmt"

	"bookden/internal/authz"
	"bookden/internal/models"
	"bookden/internal/observability"
	"bookden/internal/repository"
	"bookden/internal/validation"

	"gorm.io/gorm"
)

// ReviewService owns review lifecycle rules: who may write, change and
// remove a review, and what blocks removal. Mutations are strictly
// author-only; admin status grants no exemption here.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	bookRepo    repository.BookRepository
	commentRepo repository.CommentRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookRepo repository.BookRepository,
	commentRepo repository.CommentRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		bookRepo:    bookRepo,
		commentRepo: commentRepo,
	}
}

// ListReviews returns one page of reviews matching the query filters,
// newest first.
func (s *ReviewService) ListReviews(ctx context.Context, q validation.ListReviewsQuery) (*models.ReviewPage, error) {
	reviews, total, err := s.reviewRepo.List(ctx, repository.ReviewListFilter{
		BookID: q.BookID,
		UserID: q.UserID,
		Rating: q.Rating,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &models.ReviewPage{
		Reviews:    reviews,
		Pagination: models.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// GetReviewDetail returns one review with its denormalized book title and
// author username. Either stays empty when the related record is gone.
func (s *ReviewService) GetReviewDetail(ctx context.Context, reviewID uint) (*models.ReviewDetail, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeReviewNotFound, "Review", reviewID)
		}
		return nil, err
	}

	detail := &models.ReviewDetail{Review: *review}
	if review.Book != nil {
		detail.BookTitle = review.Book.Title
	}
	if review.User != nil {
		detail.Username = review.User.Username
	}
	// Best effort, like the title and username above: a failed count leaves
	// the field at zero rather than failing the read.
	if count, err := s.commentRepo.CountByReview(ctx, reviewID); err == nil {
		detail.CommentsCount = count
	}
	return detail, nil
}

func (s *ReviewService) CreateReview(ctx context.Context, actorID uint, cmd validation.CreateReviewCommand) (*models.Review, error) {
	if actorID == 0 {
		return nil, models.NewAuthenticationRequiredError()
	}

	if _, err := s.bookRepo.GetByID(ctx, cmd.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeBookNotFound, "Book", cmd.BookID)
		}
		return nil, err
	}

	review := &models.Review{
		BookID:  cmd.BookID,
		UserID:  &actorID,
		Content: cmd.Content,
		Rating:  cmd.Rating,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	observability.ReviewsCreated.WithLabelValues(fmt.Sprintf("%d", cmd.Rating)).Inc()
	return s.reviewRepo.GetByID(ctx, review.ID)
}

// UpdateReview changes a review's text. Rating is immutable after creation.
// Only the author may update; a review whose author account was deleted has
// no owner and nobody can edit it.
func (s *ReviewService) UpdateReview(ctx context.Context, actorID uint, cmd validation.UpdateReviewCommand) (*models.Review, error) {
	if actorID == 0 {
		return nil, models.NewAuthenticationRequiredError()
	}

	review, err := s.reviewRepo.GetByID(ctx, cmd.ReviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeReviewNotFound, "Review", cmd.ReviewID)
		}
		return nil, err
	}

	if err := authorizeOwner(actorID, review.UserID, "You can only update your own reviews"); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.UpdateContent(ctx, cmd.ReviewID, cmd.Content); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeReviewNotFound, "Review", cmd.ReviewID)
		}
		return nil, err
	}

	return s.reviewRepo.GetByID(ctx, cmd.ReviewID)
}

// DeleteReview removes a review unless comments still reference it. The
// existence check, the comment count and the delete run in one database
// transaction inside the repository, so a concurrently added comment cannot
// slip between the guard and the delete.
func (s *ReviewService) DeleteReview(ctx context.Context, actorID, reviewID uint) error {
	if actorID == 0 {
		return models.NewAuthenticationRequiredError()
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError(models.CodeReviewNotFound, "Review", reviewID)
		}
		return err
	}

	if err := authorizeOwner(actorID, review.UserID, "You can only delete your own reviews"); err != nil {
		return err
	}

	err = s.reviewRepo.DeleteWithGuard(ctx, reviewID)
	if errors.Is(err, repository.ErrHasComments) {
		observability.ReviewDeletesBlocked.Inc()
		return models.NewRelatedDataExistsError("Review has comments and cannot be deleted")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(models.CodeReviewNotFound, "Review", reviewID)
	}
	return err
}

// authorizeOwner admits the stored owner and nobody else. Ownership never
// matches when the review is orphaned or the actor is anonymous, so those
// checks fail closed.
func authorizeOwner(actorID uint, ownerID *uint, message string) error {
	if authz.IsOwner(actorID, ownerID) {
		return nil
	}
	return models.NewForbiddenError(message)
}
