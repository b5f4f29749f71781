package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vprokhorov/airbook/internal/domain"
)

type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) CreateOrder(ctx context.Context, userID int64, tickets []domain.TicketRequest) (*domain.Order, error) {
	args := m.Called(ctx, userID, tickets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func newOrderContext(body string, userID *int64) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/orders", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != nil {
		c.Set("user_id", *userID)
	}
	return c, w
}

func TestOrderHandler_create(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	userID := int64(42)
	c, w := newOrderContext(`{"tickets":[{"flight_id":1,"row":1,"seat":1}]}`, &userID)

	created := &domain.Order{
		ID:        7,
		PublicID:  "3f1e9b1a-0000-0000-0000-000000000000",
		UserID:    42,
		CreatedAt: time.Date(2024, 10, 23, 12, 0, 0, 0, time.UTC),
		Tickets:   []domain.Ticket{{ID: 1, Row: 1, Seat: 1, FlightID: 1, OrderID: 7}},
	}
	mockService.On("CreateOrder", c.Request.Context(), int64(42),
		[]domain.TicketRequest{{FlightID: 1, Row: 1, Seat: 1}}).Return(created, nil).Once()

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp orderResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.PublicID, resp.ID)
	assert.Len(t, resp.Tickets, 1)

	mockService.AssertExpectations(t)
}

func TestOrderHandler_create_Unauthenticated(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	c, w := newOrderContext(`{"tickets":[{"flight_id":1,"row":1,"seat":1}]}`, nil)

	handler.create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_create_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "empty order", err: domain.ErrEmptyOrder, expectedStatus: http.StatusBadRequest},
		{name: "row out of range", err: domain.NewTicketError(1, domain.ErrRowOutOfRange), expectedStatus: http.StatusBadRequest},
		{name: "seat out of range", err: domain.NewTicketError(0, domain.ErrSeatOutOfRange), expectedStatus: http.StatusBadRequest},
		{name: "flight not found", err: domain.NewTicketError(0, domain.ErrFlightNotFound), expectedStatus: http.StatusNotFound},
		{name: "seat taken", err: domain.NewTicketError(0, domain.ErrSeatAlreadyTaken), expectedStatus: http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockOrderUseCase{}
			handler := NewOrderHandler(mockService)

			userID := int64(42)
			c, w := newOrderContext(`{"tickets":[{"flight_id":1,"row":1,"seat":1}]}`, &userID)

			mockService.On("CreateOrder", c.Request.Context(), int64(42), mock.Anything).
				Return(nil, tc.err).Once()

			handler.create(c)

			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestOrderHandler_create_ReportsTicketIndex(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	userID := int64(42)
	c, w := newOrderContext(`{"tickets":[{"flight_id":1,"row":1,"seat":1},{"flight_id":1,"row":31,"seat":1}]}`, &userID)

	mockService.On("CreateOrder", c.Request.Context(), int64(42), mock.Anything).
		Return(nil, domain.NewTicketError(1, domain.ErrRowOutOfRange)).Once()

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["ticket_index"])
}

func TestOrderHandler_create_BadJSON(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	userID := int64(42)
	c, w := newOrderContext(`{"tickets":`, &userID)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_list(t *testing.T) {
	mockService := &MockOrderUseCase{}
	handler := NewOrderHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/orders", nil)
	c.Set("user_id", int64(42))

	list := []domain.Order{
		{ID: 2, PublicID: "b", UserID: 42, CreatedAt: time.Now(), Tickets: []domain.Ticket{{ID: 3, Row: 2, Seat: 2, FlightID: 1, OrderID: 2}}},
		{ID: 1, PublicID: "a", UserID: 42, CreatedAt: time.Now().Add(-time.Hour), Tickets: []domain.Ticket{{ID: 1, Row: 1, Seat: 1, FlightID: 1, OrderID: 1}}},
	}
	mockService.On("ListOrders", c.Request.Context(), int64(42)).Return(list, nil).Once()

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []orderResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "b", resp[0].ID)

	mockService.AssertExpectations(t)
}
