package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	BookKeyPrefix     = "book:%d"
	ReviewKeyPrefix   = "review:%d"
	UserKeyPrefix     = "user:%d"
	WSTicketKeyPrefix = "wsticket:%s"
)

// TTLs per entity. Book detail carries rating aggregates that change on
// every review write, so it still gets the longest window: writes
// invalidate it explicitly.
const (
	BookTTL     = 10 * time.Minute
	ReviewTTL   = 5 * time.Minute
	UserTTL     = 5 * time.Minute
	WSTicketTTL = 30 * time.Second
)

func BookKey(bookID uint) string {
	return fmt.Sprintf(BookKeyPrefix, bookID)
}

func ReviewKey(reviewID uint) string {
	return fmt.Sprintf(ReviewKeyPrefix, reviewID)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func WSTicketKey(ticket string) string {
	return fmt.Sprintf(WSTicketKeyPrefix, ticket)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateBook(ctx context.Context, bookID uint) {
	Invalidate(ctx, BookKey(bookID))
}

func InvalidateReview(ctx context.Context, reviewID uint) {
	Invalidate(ctx, ReviewKey(reviewID))
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
