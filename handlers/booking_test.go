package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healthcart/database"
	"healthcart/database/repository/memory"
	"healthcart/middleware"
	"healthcart/models"
	"healthcart/services/booking"
	"healthcart/services/collector"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	Count     *int            `json:"count"`
	Retryable bool            `json:"retryable"`
}

// asUser stands in for the auth middleware.
func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func setupBookingRouter(t *testing.T, maxPerHour int) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	tx := database.NewTransactor(nil, false)
	folders := collector.NewCollectorService(store.Folders(), store.Slots(), tx, time.Minute)
	folders.Now = func() time.Time { return fixedNow }
	folders.Loc = time.UTC

	capacity := maxPerHour
	_, err := folders.Create(t.Context(), models.CollectorFolderRequest{
		Name:             "Indiranagar",
		Pincodes:         []string{"560038"},
		MaxOrdersPerHour: &capacity,
		WorkingHours:     &models.WorkingHours{Start: 9, End: 17},
	})
	require.NoError(t, err)

	svc := &booking.DefaultBookingService{
		Folders: folders,
		Slots:   store.Slots(),
		Orders:  store.Orders(),
		Users:   store.Users(),
		Tx:      tx,
		Now:     func() time.Time { return fixedNow },
		Loc:     time.UTC,
		Logger:  zap.NewNop(),
	}
	h := NewBookingHandler(svc)

	r := gin.New()
	r.GET("/api/bookings/available-slots", h.AvailableSlots)
	r.GET("/api/bookings/next-available-slot", h.NextAvailableSlot)
	authed := r.Group("/api/bookings", asUser("user-1", models.RoleUser))
	authed.POST("/book-slot", h.BookSlot)
	authed.DELETE("/cancel/:orderId", h.CancelBooking)
	return r, store
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAvailableSlotsHandler(t *testing.T) {
	r, _ := setupBookingRouter(t, 2)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/available-slots?pincode=560038&date=2026-03-11", nil))
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.True(t, env.Success)
	var day models.DaySlots
	require.NoError(t, json.Unmarshal(env.Data, &day))
	assert.Equal(t, "Indiranagar", day.FolderName)
	assert.Len(t, day.Slots, 8)
}

func TestAvailableSlotsHandler_Errors(t *testing.T) {
	r, _ := setupBookingRouter(t, 2)

	cases := []struct {
		url    string
		status int
	}{
		{"/api/bookings/available-slots?pincode=560038&date=2026-03-01", http.StatusBadRequest},
		{"/api/bookings/available-slots?pincode=110001&date=2026-03-11", http.StatusNotFound},
		{"/api/bookings/available-slots?date=2026-03-11", http.StatusBadRequest},
		{"/api/bookings/next-available-slot?pincode=560038&date=2026-03-11&currentHour=ten", http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.url, nil))
		assert.Equal(t, tc.status, w.Code, tc.url)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	}
}

func TestBookSlotHandler_FullSlotReturnsConflictWithSuggestion(t *testing.T) {
	r, store := setupBookingRouter(t, 1)
	store.PutOrder(models.Order{ID: "order-1", UserID: "user-1", OrderStatus: models.OrderPending})
	store.PutOrder(models.Order{ID: "order-2", UserID: "user-1", OrderStatus: models.OrderPending})

	body := gin.H{"orderId": "order-1", "pincode": "560038", "date": "2026-03-11", "hour": 10}
	w := postJSON(r, "/api/bookings/book-slot", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Slot booked successfully", env.Message)

	body["orderId"] = "order-2"
	w = postJSON(r, "/api/bookings/book-slot", body)
	require.Equal(t, http.StatusConflict, w.Code)
	env = decode(t, w)
	assert.False(t, env.Success)
	assert.False(t, env.Retryable)

	var next models.NextAvailable
	require.NoError(t, json.Unmarshal(env.Data, &next))
	assert.True(t, next.Available)
	require.NotNil(t, next.Hour)
	assert.Equal(t, 11, *next.Hour)
}

func TestBookSlotHandler_BadPayload(t *testing.T) {
	r, _ := setupBookingRouter(t, 1)

	w := postJSON(r, "/api/bookings/book-slot", gin.H{"orderId": "order-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelBookingHandler(t *testing.T) {
	r, store := setupBookingRouter(t, 1)
	store.PutOrder(models.Order{ID: "order-1", UserID: "user-1", OrderStatus: models.OrderPending})

	w := postJSON(r, "/api/bookings/book-slot", gin.H{"orderId": "order-1", "pincode": "560038", "date": "2026-03-11", "hour": 10})
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/bookings/cancel/order-1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/bookings/cancel/order-1", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
