// Package api exposes the board over HTTP and websockets.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"udonboard/internal/board"
	"udonboard/internal/history"
	"udonboard/internal/models"
)

// Server represents the HTTP surface of the order board
type Server struct {
	Router  *gin.Engine
	board   *board.Board
	history *history.Store
	hub     *Hub
	log     *zap.Logger
}

// NewServer creates the API server. history may be nil when no
// history database is configured.
func NewServer(b *board.Board, hist *history.Store, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		Router:  gin.Default(),
		board:   b,
		history: hist,
		hub:     hub,
		log:     logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.hub != nil {
		s.Router.GET("/ws", s.hub.HandleConnection)
	}

	v1 := s.Router.Group("/api/v1")
	{
		// Order feed and display
		v1.POST("/orders", s.IngestOrder)
		v1.GET("/orders", s.ListOrders)
		v1.GET("/orders/:id", s.GetOrder)

		// Operator commands
		v1.POST("/orders/:id/items/:itemID/start", s.StartCooking)
		v1.POST("/orders/:id/ready", s.MarkReady)
		v1.POST("/orders/:id/complete", s.CompleteOrder)
		v1.POST("/orders/:id/cancel", s.CancelOrder)

		// Pot occupancy and history
		v1.GET("/pots", s.GetPots)
		v1.GET("/history", s.GetHistory)
	}
}

// IngestOrder accepts a new order from the feed.
func (s *Server) IngestOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.board.Ingest(&order); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders returns the visible board, oldest order first.
func (s *Server) ListOrders(c *gin.Context) {
	orders := s.board.VisibleOrders()
	if orders == nil {
		orders = []*models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns a single active order.
func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.board.Get(c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type startCookingRequest struct {
	Firmness models.Firmness    `json:"firmness" binding:"required"`
	Mode     models.CookingMode `json:"mode" binding:"required"`
}

// StartCooking starts an item's cook timer and leases its pots.
func (s *Server) StartCooking(c *gin.Context) {
	var req startCookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.board.StartCooking(c.Param("id"), c.Param("itemID"), req.Firmness, req.Mode); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cooking started"})
}

// MarkReady flags an order as ready for handoff.
func (s *Server) MarkReady(c *gin.Context) {
	if err := s.board.MarkReady(c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order ready"})
}

// CompleteOrder hands an order off and releases its pots.
func (s *Server) CompleteOrder(c *gin.Context) {
	if err := s.board.Complete(c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order completed"})
}

// CancelOrder withdraws an order and releases its pots.
func (s *Server) CancelOrder(c *gin.Context) {
	if err := s.board.Cancel(c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}

// GetPots returns the pot occupancy vector.
func (s *Server) GetPots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pots": s.board.PotSnapshot()})
}

// GetHistory returns recently closed orders.
func (s *Server) GetHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusOK, []history.OrderRecord{})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	recs, err := s.history.Recent(limit)
	if err != nil {
		s.log.Error("history query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

// renderError maps board failures onto HTTP outcomes. Precondition
// violations and unknown references are expected, reportable results,
// never server faults.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, board.ErrUnknownOrder), errors.Is(err, board.ErrUnknownItem):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case board.IsPrecondition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.Error("command failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
