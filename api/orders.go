package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vprokhorov/airbook/internal/auth"
	"github.com/vprokhorov/airbook/internal/domain"
	"github.com/vprokhorov/airbook/internal/service/orders"
)

type OrderHandler struct {
	service orders.OrderUseCase
}

// no binding tags on row/seat: range checks belong to the seat validator
// so that zero values surface as out-of-range, not as a bind failure
type ticketRequest struct {
	FlightID int64 `json:"flight_id"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
}

type createOrderRequest struct {
	Tickets []ticketRequest `json:"tickets"`
}

type ticketResponse struct {
	ID       int64 `json:"id"`
	FlightID int64 `json:"flight_id"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
}

type orderResponse struct {
	ID        string           `json:"id"`
	CreatedAt string           `json:"created_at"`
	Tickets   []ticketResponse `json:"tickets"`
}

func NewOrderHandler(service orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
}

func (h *OrderHandler) create(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tickets := make([]domain.TicketRequest, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		tickets = append(tickets, domain.TicketRequest{FlightID: t.FlightID, Row: t.Row, Seat: t.Seat})
	}

	order, err := h.service.CreateOrder(c.Request.Context(), userID, tickets)
	if err != nil {
		status := orderErrorStatus(err)
		body := gin.H{"error": err.Error()}
		var ticketErr *domain.TicketError
		if errors.As(err, &ticketErr) {
			body["ticket_index"] = ticketErr.Index
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) list(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	list, err := h.service.ListOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]orderResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toOrderResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrRowOutOfRange),
		errors.Is(err, domain.ErrSeatOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFlightNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSeatAlreadyTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func toOrderResponse(order *domain.Order) orderResponse {
	resp := orderResponse{
		ID:        order.PublicID,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
		Tickets:   make([]ticketResponse, 0, len(order.Tickets)),
	}
	for _, t := range order.Tickets {
		resp.Tickets = append(resp.Tickets, ticketResponse{ID: t.ID, FlightID: t.FlightID, Row: t.Row, Seat: t.Seat})
	}
	return resp
}
