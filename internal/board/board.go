// Package board owns the order/item lifecycle for the noodle counter:
// it leases pots to cooking items, drives their countdown timers from
// a shared heartbeat, and derives order readiness from item state.
package board

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"udonboard/internal/cooking"
	"udonboard/internal/models"
	"udonboard/internal/pots"
)

// Snapshot is the read-only view handed to displays: the visible
// orders in FIFO arrival order plus the pot occupancy vector.
type Snapshot struct {
	Orders []*models.Order `json:"orders"`
	Pots   []bool          `json:"pots"`
}

// Notifier receives board lifecycle events. Implementations must not
// block: callbacks run inside the board's command lock.
type Notifier interface {
	ItemStarted(orderID string, item *models.OrderItem, oversubscribed bool)
	ItemCooked(orderID string, item *models.OrderItem)
	OrderStatusChanged(o *models.Order, previous models.OrderStatus)
	BoardChanged(snap Snapshot)
}

// Archiver records closed orders. The board calls it once per order,
// after the terminal transition.
type Archiver interface {
	Archive(o *models.Order) error
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) ItemStarted(string, *models.OrderItem, bool)          {}
func (NopNotifier) ItemCooked(string, *models.OrderItem)                 {}
func (NopNotifier) OrderStatusChanged(*models.Order, models.OrderStatus) {}
func (NopNotifier) BoardChanged(Snapshot)                                {}

// Config collects the board's collaborators. Zero fields get sane
// defaults from New.
type Config struct {
	PotCount int
	Policy   cooking.DurationPolicy
	Notifier Notifier
	Archiver Archiver
	Logger   *zap.Logger
	Now      func() time.Time
}

// Board is the serialized control thread of the counter. Every
// mutation -- operator commands, heartbeat ticks, simulated arrivals --
// goes through its lock, so no two mutations race on order, item or
// pool state.
type Board struct {
	mu     sync.Mutex
	pool   *pots.Pool
	policy cooking.DurationPolicy
	orders map[string]*models.Order
	timers map[timerKey]*cooking.Timer

	notifier Notifier
	archiver Archiver
	log      *zap.Logger
	now      func() time.Time
}

// New creates an empty board.
func New(cfg Config) *Board {
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Policy == (cooking.DurationPolicy{}) {
		cfg.Policy = cooking.ProductionPolicy()
	}
	return &Board{
		pool:     pots.NewPool(cfg.PotCount),
		policy:   cfg.Policy,
		orders:   make(map[string]*models.Order),
		timers:   make(map[timerKey]*cooking.Timer),
		notifier: cfg.Notifier,
		archiver: cfg.Archiver,
		log:      cfg.Logger,
		now:      cfg.Now,
	}
}

// Ingest adds a new order to the active set. Orders arrive from the
// external feed already shaped; the board validates and normalizes
// them but never invents ids.
func (b *Board) Ingest(o *models.Order) error {
	if err := models.ValidateOrder(o); err != nil {
		return precondition("ingest", "%v", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.orders[o.ID]; exists {
		return precondition("ingest", "order %s already on the board", o.ID)
	}

	o.Status = models.OrderStatusNew
	if o.CreatedAt.IsZero() {
		o.CreatedAt = b.now()
	}
	for _, it := range o.Items {
		it.State = models.CookStateNotStarted
		it.RemainingSecs = 0
		it.TotalSecs = 0
		it.LeasedPots = nil
		it.StartedAt = nil
	}

	// Store a private copy: the caller keeps its pointer and may read
	// it after Ingest returns, outside the board's lock.
	b.orders[o.ID] = cloneOrder(o)
	b.log.Info("order ingested",
		zap.String("order_id", o.ID),
		zap.Int("items", len(o.Items)))
	b.notifier.BoardChanged(b.snapshotLocked())
	return nil
}

// StartCooking computes the cook duration for the requested firmness
// and mode, leases one pot per unit of quantity, and starts the item's
// countdown. The order moves to cooking on its first started item.
func (b *Board) StartCooking(orderID, itemID string, firmness models.Firmness, mode models.CookingMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return fmt.Errorf("start cooking: %w", ErrUnknownOrder)
	}
	it := o.Item(itemID)
	if it == nil {
		return fmt.Errorf("start cooking: %w", ErrUnknownItem)
	}
	if o.Status.IsTerminal() {
		return precondition("start cooking", "order %s is %s", orderID, o.Status)
	}
	if !it.RequiresCooking() {
		return precondition("start cooking", "item %s (%s) does not cook", itemID, it.Category)
	}
	if it.State != models.CookStateNotStarted {
		return precondition("start cooking", "item %s is already %s", itemID, it.State)
	}

	secs := b.policy.Duration(firmness, mode)
	vessels, oversub := b.pool.Lease(it.Quantity)

	it.Firmness = firmness
	it.Mode = mode
	it.State = models.CookStateRunning
	it.TotalSecs = secs
	it.RemainingSecs = secs
	it.LeasedPots = vessels
	started := b.now()
	it.StartedAt = &started

	tm := &cooking.Timer{}
	tm.Start(secs)
	b.timers[timerKey{orderID, itemID}] = tm

	prev := o.Status
	if o.Status == models.OrderStatusNew {
		o.Status = models.OrderStatusCooking
	}

	b.log.Info("cooking started",
		zap.String("order_id", orderID),
		zap.String("item_id", itemID),
		zap.String("firmness", string(firmness)),
		zap.String("mode", string(mode)),
		zap.Int("duration_secs", secs),
		zap.Ints("pots", vessels),
		zap.Bool("oversubscribed", oversub))
	if oversub {
		b.log.Warn("pot pool oversubscribed",
			zap.String("order_id", orderID),
			zap.Int("requested", it.Quantity))
	}

	b.notifier.ItemStarted(orderID, it, oversub)
	if o.Status != prev {
		b.notifier.OrderStatusChanged(o, prev)
	}
	b.notifier.BoardChanged(b.snapshotLocked())
	return nil
}

// Tick applies one second of countdown to every running item across
// all orders as a single atomic batch. Items whose timers reach zero
// become cooked; their pots stay leased until the order is completed
// or cancelled, because a finished batch still occupies the vessel
// until it is retrieved.
func (b *Board) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, o := range b.orders {
		for _, it := range o.Items {
			if it.State != models.CookStateRunning {
				continue
			}
			tm, ok := b.timers[timerKey{o.ID, it.ID}]
			if !ok {
				continue
			}
			fired := tm.Tick()
			it.RemainingSecs = tm.Remaining()
			if fired {
				it.State = models.CookStateCooked
				b.log.Info("item cooked",
					zap.String("order_id", o.ID),
					zap.String("item_id", it.ID),
					zap.Int("duration_secs", it.TotalSecs))
				b.notifier.ItemCooked(o.ID, it)
			}
		}
	}

	// Push a frame on every heartbeat, busy or not, so displays that
	// connected between mutations still receive a current snapshot.
	b.notifier.BoardChanged(b.snapshotLocked())
}

// MarkReady advances an order to ready. It is accepted only when the
// order holds at least one cooking-category item and every such item
// has been started and finished; the gate exists so an order cannot be
// flagged ready with raw noodles still in a pot.
func (b *Board) MarkReady(orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return fmt.Errorf("mark ready: %w", ErrUnknownOrder)
	}
	if o.Status != models.OrderStatusNew && o.Status != models.OrderStatusCooking {
		return precondition("mark ready", "order %s is %s", orderID, o.Status)
	}

	cookingItems := 0
	for _, it := range o.Items {
		if !it.RequiresCooking() {
			continue
		}
		cookingItems++
		if it.StartedAt == nil {
			return precondition("mark ready", "item %s has not been started", it.ID)
		}
		if it.State != models.CookStateCooked {
			return precondition("mark ready", "item %s is still %s", it.ID, it.State)
		}
	}
	if cookingItems == 0 {
		return precondition("mark ready", "order %s has no cooking items", orderID)
	}

	prev := o.Status
	o.Status = models.OrderStatusReady
	b.log.Info("order ready", zap.String("order_id", orderID))
	b.notifier.OrderStatusChanged(o, prev)
	b.notifier.BoardChanged(b.snapshotLocked())
	return nil
}

// Complete hands an order off and releases every pot its items hold.
// Only ready orders may be completed; force-completing a cooking order
// would bypass the readiness gate.
func (b *Board) Complete(orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return fmt.Errorf("complete: %w", ErrUnknownOrder)
	}
	if o.Status != models.OrderStatusReady {
		return precondition("complete", "order %s is %s, not ready", orderID, o.Status)
	}

	b.closeLocked(o, models.OrderStatusCompleted)
	return nil
}

// Cancel withdraws an order from any non-terminal status, stopping its
// timers and releasing its pots. No completion signal fires for a
// cancelled item after Cancel returns.
func (b *Board) Cancel(orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return fmt.Errorf("cancel: %w", ErrUnknownOrder)
	}
	if o.Status.IsTerminal() {
		return precondition("cancel", "order %s is already %s", orderID, o.Status)
	}

	b.closeLocked(o, models.OrderStatusCancelled)
	return nil
}

// closeLocked performs the shared terminal transition: stop timers,
// archive, release vessels, and drop the order from the active set.
// Archiving happens before release so the history log records which
// vessels each item held at close time.
func (b *Board) closeLocked(o *models.Order, status models.OrderStatus) {
	for _, it := range o.Items {
		key := timerKey{o.ID, it.ID}
		if tm, ok := b.timers[key]; ok {
			tm.Stop()
			delete(b.timers, key)
		}
	}

	prev := o.Status
	o.Status = status
	delete(b.orders, o.ID)

	b.log.Info("order closed",
		zap.String("order_id", o.ID),
		zap.String("status", string(status)))

	if b.archiver != nil {
		if err := b.archiver.Archive(cloneOrder(o)); err != nil {
			b.log.Error("archive failed",
				zap.String("order_id", o.ID),
				zap.Error(err))
		}
	}

	for _, it := range o.Items {
		if len(it.LeasedPots) > 0 {
			b.pool.Release(it.LeasedPots)
			it.LeasedPots = nil
		}
	}

	b.notifier.OrderStatusChanged(o, prev)
	b.notifier.BoardChanged(b.snapshotLocked())
}

// VisibleOrders returns the orders a display should show: new,
// cooking and ready orders, oldest first. The result is a deep copy
// and safe to hold across later mutations.
func (b *Board) VisibleOrders() []*models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visibleLocked()
}

// Get returns a copy of a single active order.
func (b *Board) Get(orderID string) (*models.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[orderID]
	if !ok {
		return nil, ErrUnknownOrder
	}
	return cloneOrder(o), nil
}

// PotSnapshot returns the pot occupancy vector for display.
func (b *Board) PotSnapshot() []bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pool.Snapshot()
}

// Snapshot returns the full display view in one locked read.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) visibleLocked() []*models.Order {
	var out []*models.Order
	for _, o := range b.orders {
		if o.Status.IsVisible() {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (b *Board) snapshotLocked() Snapshot {
	return Snapshot{
		Orders: b.visibleLocked(),
		Pots:   b.pool.Snapshot(),
	}
}

// timerKey addresses one item's timer. A struct key keeps ids with
// arbitrary characters unambiguous.
type timerKey struct {
	orderID string
	itemID  string
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = make([]*models.OrderItem, len(o.Items))
	for i, it := range o.Items {
		ci := *it
		if it.LeasedPots != nil {
			ci.LeasedPots = append([]int(nil), it.LeasedPots...)
		}
		if it.Toppings != nil {
			ci.Toppings = append([]string(nil), it.Toppings...)
		}
		if it.StartedAt != nil {
			t := *it.StartedAt
			ci.StartedAt = &t
		}
		c.Items[i] = &ci
	}
	return &c
}
