package models

import (
	"fmt"
	"time"
)

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusCooking   OrderStatus = "cooking"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsVisible reports whether orders in this status appear on the board.
func (s OrderStatus) IsVisible() bool {
	switch s {
	case OrderStatusNew, OrderStatusCooking, OrderStatusReady:
		return true
	}
	return false
}

// CookState represents the cooking progress of a single item
type CookState string

const (
	CookStateNotStarted CookState = "not_started"
	CookStateRunning    CookState = "running"
	CookStateCooked     CookState = "cooked"
)

// Firmness represents the requested noodle firmness, which governs the
// base cook duration
type Firmness string

const (
	FirmnessSoft   Firmness = "soft"
	FirmnessNormal Firmness = "normal"
	FirmnessFirm   Firmness = "firm"
)

// CookingMode selects the duration-reduction policy for an item
type CookingMode string

const (
	ModeFullBoil  CookingMode = "full_boil"
	ModePreBoiled CookingMode = "pre_boiled"
)

// Order represents a customer order on the board
type Order struct {
	ID        string       `json:"id"`
	Items     []*OrderItem `json:"items"`
	Status    OrderStatus  `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// OrderItem represents a single line of an order
type OrderItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category MenuCategory `json:"category"`
	Firmness Firmness     `json:"firmness,omitempty"`
	Mode     CookingMode  `json:"mode,omitempty"`
	Quantity int          `json:"quantity"`
	Toppings []string     `json:"toppings,omitempty"`

	// Cooking state. LeasedPots holds exactly Quantity vessel numbers
	// while State is running and stays populated through cooked until
	// the order is completed or cancelled.
	State         CookState  `json:"state"`
	RemainingSecs int        `json:"remaining_secs"`
	TotalSecs     int        `json:"total_secs"`
	LeasedPots    []int      `json:"leased_pots,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
}

// RequiresCooking reports whether the item participates in the cooking
// state machine. Toppings, sides and beverages are ready from creation.
func (i *OrderItem) RequiresCooking() bool {
	return i.Category == CategoryMainDish
}

// Cooked reports whether the item no longer needs kitchen work. Items
// outside the cooking category are vacuously cooked.
func (i *OrderItem) Cooked() bool {
	if !i.RequiresCooking() {
		return true
	}
	return i.State == CookStateCooked
}

// Progress returns cooking progress in [0, 1] for display. Zero when
// the item is not running.
func (i *OrderItem) Progress() float64 {
	if i.State != CookStateRunning || i.TotalSecs <= 0 {
		return 0
	}
	p := float64(i.TotalSecs-i.RemainingSecs) / float64(i.TotalSecs)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Item returns the item with the given id, or nil if absent.
func (o *Order) Item(itemID string) *OrderItem {
	for _, it := range o.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}

// ValidateOrder validates an inbound order before it joins the board
func ValidateOrder(o *Order) error {
	if o.ID == "" {
		return fmt.Errorf("order id is required")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	for _, it := range o.Items {
		if it.ID == "" {
			return fmt.Errorf("item id is required")
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("item %s: quantity must be greater than 0", it.ID)
		}
		switch it.Category {
		case CategoryMainDish, CategoryTopping, CategorySideDish, CategoryBeverage:
		default:
			return fmt.Errorf("item %s: unknown category %q", it.ID, it.Category)
		}
		if it.RequiresCooking() {
			switch it.Firmness {
			case FirmnessSoft, FirmnessNormal, FirmnessFirm:
			default:
				return fmt.Errorf("item %s: unknown firmness %q", it.ID, it.Firmness)
			}
			switch it.Mode {
			case ModeFullBoil, ModePreBoiled:
			default:
				return fmt.Errorf("item %s: unknown cooking mode %q", it.ID, it.Mode)
			}
		}
	}
	return nil
}
