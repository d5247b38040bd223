package service

import (
	"context"
	"errors"

	"bookden/internal/models"
	"bookden/internal/observability"
	"bookden/internal/repository"
	"bookden/internal/validation"

	"gorm.io/gorm"
)

// CommentService owns the comment rules: reply adjacency on create and the
// two-level thread shape on read.
type CommentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// ListCommentThreads returns the review's comments grouped into two levels:
// top-level comments newest first, each with its direct replies newest
// first. A reply whose parent is itself a reply does not surface here; the
// row exists but the listing only nests one level deep. An unknown review
// ID yields an empty list, not an error.
func (s *CommentService) ListCommentThreads(ctx context.Context, reviewID uint) ([]models.CommentThread, error) {
	comments, err := s.commentRepo.ListByReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return assembleThreads(comments), nil
}

func (s *CommentService) CreateComment(ctx context.Context, actorID uint, cmd validation.CreateCommentCommand) (*models.Comment, error) {
	if actorID == 0 {
		return nil, models.NewAuthenticationRequiredError()
	}

	if _, err := s.reviewRepo.GetByID(ctx, cmd.ReviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeReviewNotFound, "Review", cmd.ReviewID)
		}
		return nil, err
	}

	kind := "top_level"
	if cmd.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *cmd.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError(models.CodeParentCommentNotFound, "Parent comment", *cmd.ParentID)
			}
			return nil, err
		}
		if parent.ReviewID != cmd.ReviewID {
			return nil, models.NewParentCommentWrongReviewError()
		}
		kind = "reply"
	}

	comment := &models.Comment{
		ReviewID: cmd.ReviewID,
		UserID:   &actorID,
		ParentID: cmd.ParentID,
		Content:  cmd.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.CommentsCreated.WithLabelValues(kind).Inc()
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// assembleThreads groups a flat comment list into top-level threads in one
// pass over the input. Input order (newest first) carries through to both
// the threads and each thread's replies.
func assembleThreads(comments []models.Comment) []models.CommentThread {
	threads := make([]models.CommentThread, 0, len(comments))
	replies := make(map[uint][]models.Comment)

	for _, c := range comments {
		if c.ParentID == nil {
			threads = append(threads, models.CommentThread{Comment: c, Replies: []models.Comment{}})
			continue
		}
		replies[*c.ParentID] = append(replies[*c.ParentID], c)
	}

	for i := range threads {
		if r, ok := replies[threads[i].ID]; ok {
			threads[i].Replies = r
		}
	}
	return threads
}
