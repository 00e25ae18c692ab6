package services_test

import (
	"testing"
	"time"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/domain/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func entry(s order.Status, offset time.Duration) order.StatusLogEntry {
	return order.StatusLogEntry{ID: uuid.New(), Status: s, Timestamp: t0.Add(offset)}
}

func statuses(entries []order.StatusLogEntry) []order.Status {
	out := make([]order.Status, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Status)
	}
	return out
}

func TestSanitizeLog(t *testing.T) {
	t.Run("removes rebounds", func(t *testing.T) {
		kept, removed := services.SanitizeLog([]order.StatusLogEntry{
			entry(order.Pending, 0),
			entry(order.Processing, 5*time.Minute),
			entry(order.Pending, 6*time.Minute),
			entry(order.Processing, 7*time.Minute),
			entry(order.OnTheWay, 20*time.Minute),
		})

		assert.Equal(t, []order.Status{order.Pending, order.Processing, order.OnTheWay}, statuses(kept))
		assert.Len(t, removed, 2)
	})

	t.Run("drops everything after the first terminal entry", func(t *testing.T) {
		kept, removed := services.SanitizeLog([]order.StatusLogEntry{
			entry(order.Pending, 0),
			entry(order.Delivered, 30*time.Minute),
			entry(order.OnTheWay, 31*time.Minute),
			entry(order.Canceled, 32*time.Minute),
		})

		assert.Equal(t, []order.Status{order.Pending, order.Delivered}, statuses(kept))
		assert.Equal(t, []order.Status{order.OnTheWay, order.Canceled}, statuses(removed))
	})

	t.Run("orders by timestamp before walking", func(t *testing.T) {
		kept, _ := services.SanitizeLog([]order.StatusLogEntry{
			entry(order.Confirmed, 10*time.Minute),
			entry(order.Pending, 0),
		})

		assert.Equal(t, []order.Status{order.Pending, order.Confirmed}, statuses(kept))
	})

	t.Run("same instant entries keep the first", func(t *testing.T) {
		kept, removed := services.SanitizeLog([]order.StatusLogEntry{
			entry(order.Pending, 0),
			entry(order.Confirmed, 0),
		})

		assert.Equal(t, []order.Status{order.Pending}, statuses(kept))
		assert.Len(t, removed, 1)
	})

	t.Run("duplicate observation scenario keeps three entries", func(t *testing.T) {
		kept, removed := services.SanitizeLog([]order.StatusLogEntry{
			entry(order.Pending, 0),
			entry(order.Processing, 5*time.Minute),
			entry(order.Processing, 5*time.Minute),
			entry(order.Delivered, 40*time.Minute),
		})

		require.Len(t, kept, 3)
		assert.Len(t, removed, 1)
	})

	t.Run("is idempotent and keeps the invariants", func(t *testing.T) {
		log := []order.StatusLogEntry{
			entry(order.Pending, 0),
			entry(order.Confirmed, time.Minute),
			entry(order.Pending, 2*time.Minute),
			entry(order.DriverAssigned, 3*time.Minute),
			entry(order.DriverAssigned, 4*time.Minute),
			entry(order.Canceled, 5*time.Minute),
			entry(order.Delivered, 6*time.Minute),
		}

		kept, _ := services.SanitizeLog(log)
		again, removed := services.SanitizeLog(kept)

		assert.Equal(t, kept, again)
		assert.Empty(t, removed)
		for i := 1; i < len(kept); i++ {
			assert.True(t, kept[i].Timestamp.After(kept[i-1].Timestamp))
			assert.NotEqual(t, kept[i].Status, kept[i-1].Status)
			assert.False(t, kept[i-1].Status.IsTerminal())
		}
	})

	t.Run("empty log", func(t *testing.T) {
		kept, removed := services.SanitizeLog(nil)

		assert.Empty(t, kept)
		assert.Empty(t, removed)
	})
}
