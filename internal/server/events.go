package server

import (
	"context"
	"log"

	"bookden/internal/featureflags"
	"bookden/internal/models"
	"bookden/internal/notifications"
)

// publishUserEvent delivers an event to one user's sockets, locally and via
// Redis for other instances. Fire-and-forget: failures are logged, never
// surfaced to the request.
func (s *Server) publishUserEvent(ctx context.Context, userID uint, eventType string, payload map[string]interface{}) {
	message, err := notifications.EncodeEvent(eventType, payload)
	if err != nil {
		log.Printf("failed to encode %s event: %v", eventType, err)
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(ctx, userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
}

func (s *Server) publishBroadcastEvent(ctx context.Context, eventType string, payload map[string]interface{}) {
	message, err := notifications.EncodeEvent(eventType, payload)
	if err != nil {
		log.Printf("failed to encode %s event: %v", eventType, err)
		return
	}
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(ctx, message); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
	}
}

// emitReviewCreated broadcasts a new review to every connected client.
func (s *Server) emitReviewCreated(ctx context.Context, actorID uint, review *models.Review) {
	if s.featureFlags == nil || !s.featureFlags.Enabled(featureflags.FlagRealtimeEvents, actorID) {
		return
	}
	s.publishBroadcastEvent(ctx, notifications.EventReviewCreated, map[string]interface{}{
		"review_id": review.ID,
		"book_id":   review.BookID,
		"rating":    review.Rating,
	})
}

// emitCommentCreated notifies the review's author about a new comment.
// Nothing is sent when the author commented on their own review or the
// review has been orphaned.
func (s *Server) emitCommentCreated(ctx context.Context, actorID uint, comment *models.Comment) {
	if s.featureFlags == nil || !s.featureFlags.Enabled(featureflags.FlagRealtimeEvents, actorID) {
		return
	}

	review, err := s.reviewRepo.GetByID(ctx, comment.ReviewID)
	if err != nil {
		log.Printf("failed to load review %d for comment event: %v", comment.ReviewID, err)
		return
	}
	if review.UserID == nil || *review.UserID == actorID {
		return
	}

	s.publishUserEvent(ctx, *review.UserID, notifications.EventCommentCreated, map[string]interface{}{
		"review_id":  comment.ReviewID,
		"comment_id": comment.ID,
		"author_id":  actorID,
		"parent_id":  comment.ParentID,
	})
}
