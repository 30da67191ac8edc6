package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonboard/internal/board"
	"udonboard/internal/cooking"
	"udonboard/internal/models"
)

func TestCollectorTracksBoardActivity(t *testing.T) {
	c := NewCollector()
	b := board.New(board.Config{
		PotCount: 2,
		Policy:   cooking.DemoPolicy(),
		Notifier: c,
	})

	item := &models.OrderItem{
		ID: "I-1", Name: "kake udon",
		Category: models.CategoryMainDish,
		Firmness: models.FirmnessSoft,
		Mode:     models.ModeFullBoil,
		Quantity: 2,
	}
	require.NoError(t, b.Ingest(&models.Order{ID: "O-1", Items: []*models.OrderItem{item}}))
	require.NoError(t, b.StartCooking("O-1", "I-1", models.FirmnessSoft, models.ModeFullBoil))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.potsOccupied))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.oversubscriptions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ordersActive.WithLabelValues("cooking")))

	for i := 0; i < 20; i++ {
		b.Tick()
	}
	require.NoError(t, b.MarkReady("O-1"))
	require.NoError(t, b.Complete("O-1"))

	assert.Equal(t, 0.0, testutil.ToFloat64(c.potsOccupied))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ordersClosed.WithLabelValues("completed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.ordersActive.WithLabelValues("cooking")))
}

func TestCollectorCountsOversubscription(t *testing.T) {
	c := NewCollector()
	b := board.New(board.Config{
		PotCount: 1,
		Policy:   cooking.DemoPolicy(),
		Notifier: c,
	})

	for _, id := range []string{"O-1", "O-2"} {
		item := &models.OrderItem{
			ID: "I-" + id, Name: "kake udon",
			Category: models.CategoryMainDish,
			Firmness: models.FirmnessSoft,
			Mode:     models.ModeFullBoil,
			Quantity: 1,
		}
		require.NoError(t, b.Ingest(&models.Order{ID: id, Items: []*models.OrderItem{item}}))
		require.NoError(t, b.StartCooking(id, "I-"+id, models.FirmnessSoft, models.ModeFullBoil))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(c.oversubscriptions))
}
