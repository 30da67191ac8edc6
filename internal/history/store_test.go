package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonboard/internal/board"
	"udonboard/internal/cooking"
	"udonboard/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite3", filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func closedOrder(id string, status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:        id,
		Status:    status,
		CreatedAt: time.Now().Add(-10 * time.Minute),
		Items: []*models.OrderItem{{
			ID:        "I-1",
			Name:      "kake udon",
			Category:  models.CategoryMainDish,
			Firmness:  models.FirmnessNormal,
			Mode:      models.ModeFullBoil,
			Quantity:  2,
			State:      models.CookStateCooked,
			TotalSecs:  420,
			LeasedPots: []int{1, 2},
		}},
	}
}

func TestArchiveAndRecent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Archive(closedOrder("O-1", models.OrderStatusCompleted)))
	require.NoError(t, s.Archive(closedOrder("O-2", models.OrderStatusCancelled)))

	recs, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byID := map[string]OrderRecord{}
	for _, r := range recs {
		byID[r.OrderID] = r
	}
	assert.Equal(t, "completed", byID["O-1"].Status)
	assert.Equal(t, "cancelled", byID["O-2"].Status)

	require.Len(t, byID["O-1"].Items, 1)
	item := byID["O-1"].Items[0]
	assert.Equal(t, "kake udon", item.Name)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "cooked", item.CookState)
	assert.Equal(t, 420, item.CookSecs)
	assert.Equal(t, "1,2", item.Pots, "vessel numbers held at close time are recorded")
}

func TestBoardCloseFlowsIntoStore(t *testing.T) {
	s := openTestStore(t)
	b := board.New(board.Config{
		PotCount: 6,
		Policy:   cooking.DemoPolicy(),
		Archiver: s,
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
	for i := 0; i < 20; i++ {
		b.Tick()
	}
	require.NoError(t, b.MarkReady("O-1"))
	require.NoError(t, b.Complete("O-1"))

	recs, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "completed", recs[0].Status)
	require.Len(t, recs[0].Items, 1)
	assert.Equal(t, "1,2", recs[0].Items[0].Pots)
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	for _, id := range []string{"O-1", "O-2", "O-3"} {
		require.NoError(t, s.Archive(closedOrder(id, models.OrderStatusCompleted)))
	}

	recs, err := s.Recent(2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestJoinPots(t *testing.T) {
	assert.Equal(t, "", joinPots(nil))
	assert.Equal(t, "3", joinPots([]int{3}))
	assert.Equal(t, "1,4,6", joinPots([]int{1, 4, 6}))
}
