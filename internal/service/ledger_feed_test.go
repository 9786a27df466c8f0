package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain"
)

func TestLedgerFeedDeliversToAllSubscribers(t *testing.T) {
	feed := NewLedgerFeed()
	userID := uuid.New()

	var first, second int
	feed.Subscribe(userID, func(*domain.User) { first++ })
	feed.Subscribe(userID, func(*domain.User) { second++ })

	feed.Publish(&domain.User{ID: userID})
	require.Equal(t, 1, first)
	require.Equal(t, 1, second)
}

func TestLedgerFeedIsolatesUsers(t *testing.T) {
	feed := NewLedgerFeed()
	watched, other := uuid.New(), uuid.New()

	var calls int
	feed.Subscribe(watched, func(*domain.User) { calls++ })

	feed.Publish(&domain.User{ID: other})
	require.Zero(t, calls)
}

func TestLedgerFeedUnsubscribeStopsDelivery(t *testing.T) {
	feed := NewLedgerFeed()
	userID := uuid.New()

	var calls int
	handle := feed.Subscribe(userID, func(*domain.User) { calls++ })

	feed.Publish(&domain.User{ID: userID})
	feed.Unsubscribe(userID, handle)
	feed.Publish(&domain.User{ID: userID})

	require.Equal(t, 1, calls)

	// Unknown handle is a no-op
	feed.Unsubscribe(userID, handle)
}
