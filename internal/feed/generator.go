// Package feed simulates the counter's inbound order stream. A real
// deployment would replace this with a network feed delivering the
// same records into Board.Ingest.
package feed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"udonboard/internal/board"
	"udonboard/internal/models"
)

var firmnesses = []models.Firmness{
	models.FirmnessSoft,
	models.FirmnessNormal,
	models.FirmnessFirm,
}

// Generator produces random orders on a cron schedule and feeds them
// through the board's serialized command path.
type Generator struct {
	board       *board.Board
	menu        []models.MenuItem
	probability float64
	rng         *rand.Rand
	cron        *cron.Cron
	log         *zap.Logger
}

// NewGenerator creates a generator drawing from menu. probability is
// the chance an arrival fires on each schedule tick, matching the
// counter's irregular walk-in traffic.
func NewGenerator(b *board.Board, menu []models.MenuItem, probability float64, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		board:       b,
		menu:        menu,
		probability: probability,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         logger,
	}
}

// Start schedules arrivals with the given cron spec, e.g. "@every 15s".
func (g *Generator) Start(schedule string) error {
	g.cron = cron.New()
	if _, err := g.cron.AddFunc(schedule, g.maybeArrive); err != nil {
		return fmt.Errorf("schedule feed: %w", err)
	}
	g.cron.Start()
	g.log.Info("order feed started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the schedule, waiting for an in-flight arrival to finish.
func (g *Generator) Stop() {
	if g.cron != nil {
		<-g.cron.Stop().Done()
	}
}

func (g *Generator) maybeArrive() {
	if g.rng.Float64() >= g.probability {
		return
	}
	o := g.Generate()
	if err := g.board.Ingest(o); err != nil {
		g.log.Warn("simulated order rejected", zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	g.log.Info("simulated order arrived",
		zap.String("order_id", o.ID),
		zap.Int("items", len(o.Items)))
}

// Generate builds one random order: always a main dish, sometimes a
// side or beverage alongside.
func (g *Generator) Generate() *models.Order {
	id := fmt.Sprintf("O-%s", shortID())

	mains := models.MainDishes(g.menu)
	dish := mains[g.rng.Intn(len(mains))]

	items := []*models.OrderItem{{
		ID:       fmt.Sprintf("%s-1", id),
		Name:     dish.Name,
		Category: dish.Category,
		Firmness: firmnesses[g.rng.Intn(len(firmnesses))],
		Mode:     models.ModeFullBoil,
		Quantity: g.rng.Intn(2) + 1,
		Toppings: dish.Toppings,
	}}

	// Every third order or so picks up an extra non-cooking line.
	if g.rng.Float64() < 0.33 {
		if extra, ok := g.randomExtra(); ok {
			items = append(items, &models.OrderItem{
				ID:       fmt.Sprintf("%s-2", id),
				Name:     extra.Name,
				Category: extra.Category,
				Quantity: 1,
			})
		}
	}

	return &models.Order{
		ID:        id,
		Items:     items,
		CreatedAt: time.Now(),
	}
}

func (g *Generator) randomExtra() (models.MenuItem, bool) {
	var extras []models.MenuItem
	for _, m := range g.menu {
		if m.Category == models.CategorySideDish || m.Category == models.CategoryBeverage {
			extras = append(extras, m)
		}
	}
	if len(extras) == 0 {
		return models.MenuItem{}, false
	}
	return extras[g.rng.Intn(len(extras))], true
}

func shortID() string {
	return uuid.New().String()[:8]
}
