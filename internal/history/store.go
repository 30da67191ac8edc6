// Package history keeps a log of orders that left the board. Live
// board state is memory-only; only completed and cancelled orders are
// written here.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // SQLite dialect

	"udonboard/internal/models"
)

// OrderRecord represents a closed order in the history log
type OrderRecord struct {
	gorm.Model
	OrderID  string `gorm:"index"`
	Status   string
	Items    []ItemRecord `gorm:"foreignkey:OrderRecordID"`
	PlacedAt time.Time
	ClosedAt time.Time
}

// ItemRecord represents one line of a closed order
type ItemRecord struct {
	gorm.Model
	OrderRecordID uint
	ItemID        string
	Name          string
	Category      string
	Firmness      string
	Mode          string
	Quantity      int
	CookState     string
	CookSecs      int
	Pots          string // comma-joined vessel numbers at close time
}

// Store persists closed orders with gorm.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to the history database and migrates the schema.
// driver is "sqlite3" or "postgres".
func Open(driver, dsn string) (*Store, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.AutoMigrate(&OrderRecord{}, &ItemRecord{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Archive implements board.Archiver.
func (s *Store) Archive(o *models.Order) error {
	rec := OrderRecord{
		OrderID:  o.ID,
		Status:   string(o.Status),
		PlacedAt: o.CreatedAt,
		ClosedAt: s.now(),
	}
	for _, it := range o.Items {
		rec.Items = append(rec.Items, ItemRecord{
			ItemID:    it.ID,
			Name:      it.Name,
			Category:  string(it.Category),
			Firmness:  string(it.Firmness),
			Mode:      string(it.Mode),
			Quantity:  it.Quantity,
			CookState: string(it.State),
			CookSecs:  it.TotalSecs,
			Pots:      joinPots(it.LeasedPots),
		})
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("archive order %s: %w", o.ID, err)
	}
	return nil
}

// Recent returns the most recently closed orders, newest first.
func (s *Store) Recent(limit int) ([]OrderRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []OrderRecord
	err := s.db.Preload("Items").
		Order("closed_at desc").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return recs, nil
}

func joinPots(pots []int) string {
	if len(pots) == 0 {
		return ""
	}
	parts := make([]string, len(pots))
	for i, n := range pots {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}
