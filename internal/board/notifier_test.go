package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonboard/internal/cooking"
	"udonboard/internal/models"
)

// recorder counts board events for assertions.
type recorder struct {
	started      int
	cooked       int
	oversubs     int
	snapshots    int
	transitions  []models.OrderStatus
	lastSnapshot Snapshot
}

func (r *recorder) ItemStarted(_ string, _ *models.OrderItem, oversub bool) {
	r.started++
	if oversub {
		r.oversubs++
	}
}

func (r *recorder) ItemCooked(string, *models.OrderItem) { r.cooked++ }

func (r *recorder) OrderStatusChanged(o *models.Order, _ models.OrderStatus) {
	r.transitions = append(r.transitions, o.Status)
}

func (r *recorder) BoardChanged(snap Snapshot) {
	r.snapshots++
	r.lastSnapshot = snap
}

func newRecordedBoard(potCount int) (*Board, *recorder) {
	rec := &recorder{}
	b := New(Config{
		PotCount: potCount,
		Policy:   cooking.DemoPolicy(),
		Notifier: rec,
	})
	return b, rec
}

func TestCompletionSignalFiresExactlyOnce(t *testing.T) {
	b, rec := newRecordedBoard(6)
	require.NoError(t, b.Ingest(testOrder("O-1", mainDish("I-1", 1))))
	require.NoError(t, b.StartCooking("O-1", "I-1", models.FirmnessSoft, models.ModeFullBoil))

	tick(b, 25) // 5 heartbeats past expiry

	assert.Equal(t, 1, rec.cooked)
}

func TestNoCompletionSignalAfterCancel(t *testing.T) {
	b, rec := newRecordedBoard(6)
	require.NoError(t, b.Ingest(testOrder("O-1", mainDish("I-1", 1))))
	require.NoError(t, b.StartCooking("O-1", "I-1", models.FirmnessSoft, models.ModeFullBoil))
	tick(b, 10)

	require.NoError(t, b.Cancel("O-1"))
	tick(b, 20)

	assert.Equal(t, 0, rec.cooked)
}

func TestOversubscriptionReportedToNotifier(t *testing.T) {
	b, rec := newRecordedBoard(1)
	require.NoError(t, b.Ingest(testOrder("O-1", mainDish("I-1", 1))))
	require.NoError(t, b.Ingest(testOrder("O-2", mainDish("I-2", 1))))

	require.NoError(t, b.StartCooking("O-1", "I-1", models.FirmnessSoft, models.ModeFullBoil))
	require.NoError(t, b.StartCooking("O-2", "I-2", models.FirmnessSoft, models.ModeFullBoil))

	assert.Equal(t, 2, rec.started)
	assert.Equal(t, 1, rec.oversubs)
}

func TestStatusTransitionsReported(t *testing.T) {
	b, rec := newRecordedBoard(6)
	require.NoError(t, b.Ingest(testOrder("O-1", mainDish("I-1", 1))))
	require.NoError(t, b.StartCooking("O-1", "I-1", models.FirmnessSoft, models.ModeFullBoil))
	tick(b, 20)
	require.NoError(t, b.MarkReady("O-1"))
	require.NoError(t, b.Complete("O-1"))

	assert.Equal(t, []models.OrderStatus{
		models.OrderStatusCooking,
		models.OrderStatusReady,
		models.OrderStatusCompleted,
	}, rec.transitions)
}

func TestSnapshotPushedOnQuietHeartbeat(t *testing.T) {
	b, rec := newRecordedBoard(6)

	// Nothing is cooking, but displays still need a frame per beat.
	tick(b, 3)

	assert.Equal(t, 3, rec.snapshots)
	assert.Len(t, rec.lastSnapshot.Pots, 6)
}

func TestSnapshotPushedOnMutation(t *testing.T) {
	b, rec := newRecordedBoard(6)
	require.NoError(t, b.Ingest(testOrder("O-1", mainDish("I-1", 1))))

	require.Len(t, rec.lastSnapshot.Orders, 1)
	assert.Equal(t, "O-1", rec.lastSnapshot.Orders[0].ID)
	assert.Len(t, rec.lastSnapshot.Pots, 6)
}
