package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonboard/internal/cooking"
	"udonboard/internal/models"
)

// capturingArchiver keeps every archived order for assertions.
type capturingArchiver struct {
	orders []*models.Order
}

func (a *capturingArchiver) Archive(o *models.Order) error {
	a.orders = append(a.orders, o)
	return nil
}

func newArchivedBoard(potCount int) (*Board, *capturingArchiver) {
	arch := &capturingArchiver{}
	b := New(Config{
		PotCount: potCount,
		Policy:   cooking.DemoPolicy(),
		Archiver: arch,
	})
	return b, arch
}

func TestArchiveRecordsLeasedPots(t *testing.T) {
	b, arch := newArchivedBoard(6)
	require.NoError(t, b.Ingest(testOrder("O-1", mainDish("I-1", 2))))
	require.NoError(t, b.StartCooking("O-1", "I-1", models.FirmnessSoft, models.ModeFullBoil))
	tick(b, 20)
	require.NoError(t, b.MarkReady("O-1"))

	require.NoError(t, b.Complete("O-1"))

	require.Len(t, arch.orders, 1)
	archived := arch.orders[0]
	assert.Equal(t, models.OrderStatusCompleted, archived.Status)
	assert.Equal(t, []int{1, 2}, archived.Items[0].LeasedPots,
		"history must see the vessels held at close time")

	// The pool itself was still released.
	assert.Equal(t, 0, countOccupied(b.PotSnapshot()))
}

func TestArchiveOnCancelRecordsLeasedPots(t *testing.T) {
	b, arch := newArchivedBoard(6)
	require.NoError(t, b.Ingest(testOrder("O-1", mainDish("I-1", 1))))
	require.NoError(t, b.StartCooking("O-1", "I-1", models.FirmnessSoft, models.ModeFullBoil))

	require.NoError(t, b.Cancel("O-1"))

	require.Len(t, arch.orders, 1)
	archived := arch.orders[0]
	assert.Equal(t, models.OrderStatusCancelled, archived.Status)
	assert.Equal(t, []int{1}, archived.Items[0].LeasedPots)
	assert.Equal(t, 0, countOccupied(b.PotSnapshot()))
}

func TestArchiveReceivesAPrivateCopy(t *testing.T) {
	b, arch := newArchivedBoard(6)
	require.NoError(t, b.Ingest(testOrder("O-1", mainDish("I-1", 1))))
	require.NoError(t, b.StartCooking("O-1", "I-1", models.FirmnessSoft, models.ModeFullBoil))
	require.NoError(t, b.Cancel("O-1"))

	// Mutating the archived order must not reach any live state.
	arch.orders[0].Items[0].LeasedPots[0] = 99
	assert.Equal(t, 0, countOccupied(b.PotSnapshot()))
}
