package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vprokhorov/airbook/internal/domain"
	"github.com/vprokhorov/airbook/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type airportResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

type flightResponse struct {
	ID               int64           `json:"id"`
	Source           airportResponse `json:"source"`
	Destination      airportResponse `json:"destination"`
	Airplane         string          `json:"airplane"`
	Rows             int             `json:"rows"`
	SeatsInRow       int             `json:"seats_in_row"`
	Capacity         int             `json:"capacity"`
	DepartureTime    string          `json:"departure_time"`
	ArrivalTime      string          `json:"arrival_time"`
	TicketsAvailable int             `json:"tickets_available"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/availability", h.availability)
}

// list supports ?route=, ?airplane= and ?date=YYYY-MM-DD, combined with AND.
func (h *FlightHandler) list(c *gin.Context) {
	var filter domain.FlightFilter

	if v := c.Query("route"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid route id"})
			return
		}
		filter.RouteID = &id
	}
	if v := c.Query("airplane"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid airplane id"})
			return
		}
		filter.AirplaneID = &id
	}
	if v := c.Query("date"); v != "" {
		date, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		filter.DepartureDate = &date
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]flightResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toFlightResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) availability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	av, err := h.service.Availability(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, av)
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID: f.ID,
		Source: airportResponse{
			ID:             f.Route.Source.ID,
			Name:           f.Route.Source.Name,
			ClosestBigCity: f.Route.Source.ClosestBigCity,
		},
		Destination: airportResponse{
			ID:             f.Route.Destination.ID,
			Name:           f.Route.Destination.Name,
			ClosestBigCity: f.Route.Destination.ClosestBigCity,
		},
		Airplane:         f.Airplane.Name,
		Rows:             f.Airplane.Rows,
		SeatsInRow:       f.Airplane.SeatsInRow,
		Capacity:         f.Airplane.Capacity(),
		DepartureTime:    f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:      f.ArrivalTime.Format(time.RFC3339),
		TicketsAvailable: f.TicketsAvailable,
	}
}
