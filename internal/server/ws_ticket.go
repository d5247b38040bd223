package server

import (
	"context"
	"strconv"
	"time"

	"bookden/internal/cache"
	"bookden/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// consumedTicketGrace is how long a ticket already consumed from Redis stays
// valid in-process. Fiber runs the middleware chain once per pass of the
// websocket upgrade handshake, so the same ticket must authenticate more
// than one pass.
const consumedTicketGrace = 30 * time.Second

type consumedTicketEntry struct {
	userID    uint
	consumeAt time.Time
}

// IssueWSTicket handles POST /api/events/ticket. It mints a short-lived
// single-use ticket the client passes as a query parameter when opening the
// event stream; browsers cannot set an Authorization header on a WebSocket.
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			&models.AppError{Code: models.CodeInternal, Message: "Realtime events are unavailable"})
	}

	ticket := uuid.New().String()
	key := cache.WSTicketKey(ticket)
	if err := s.redis.Set(c.Context(), key,
		strconv.FormatUint(uint64(userID), 10), cache.WSTicketTTL).Err(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(cache.WSTicketTTL.Seconds()),
	})
}

// lookupConsumedTicket checks the in-process cache for a ticket already
// pulled out of Redis, expiring stale entries as it goes.
func (s *Server) lookupConsumedTicket(ticket string) (uint, bool) {
	s.consumedTicketsMu.Lock()
	defer s.consumedTicketsMu.Unlock()
	if s.consumedTickets == nil {
		return 0, false
	}
	entry, ok := s.consumedTickets[ticket]
	if !ok {
		return 0, false
	}
	if time.Since(entry.consumeAt) > consumedTicketGrace {
		delete(s.consumedTickets, ticket)
		return 0, false
	}
	return entry.userID, true
}

func (s *Server) rememberConsumedTicket(ticket string, userID uint) {
	s.consumedTicketsMu.Lock()
	defer s.consumedTicketsMu.Unlock()
	if s.consumedTickets == nil {
		s.consumedTickets = make(map[string]consumedTicketEntry)
	}
	s.consumedTickets[ticket] = consumedTicketEntry{userID: userID, consumeAt: time.Now()}
}

// consumeWSTicket retires a ticket for good once the websocket connection is
// established. Safe to call with a nil or non-string local.
func (s *Server) consumeWSTicket(ctx context.Context, ticket any) {
	str, ok := ticket.(string)
	if !ok || str == "" {
		return
	}
	s.consumedTicketsMu.Lock()
	delete(s.consumedTickets, str)
	s.consumedTicketsMu.Unlock()
	if s.redis != nil {
		s.redis.Del(ctx, cache.WSTicketKey(str))
	}
}
