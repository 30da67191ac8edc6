package board

import "udonboard/internal/models"

// MultiNotifier fans events out to several notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) ItemStarted(orderID string, item *models.OrderItem, oversub bool) {
	for _, n := range m {
		n.ItemStarted(orderID, item, oversub)
	}
}

func (m MultiNotifier) ItemCooked(orderID string, item *models.OrderItem) {
	for _, n := range m {
		n.ItemCooked(orderID, item)
	}
}

func (m MultiNotifier) OrderStatusChanged(o *models.Order, prev models.OrderStatus) {
	for _, n := range m {
		n.OrderStatusChanged(o, prev)
	}
}

func (m MultiNotifier) BoardChanged(snap Snapshot) {
	for _, n := range m {
		n.BoardChanged(snap)
	}
}
