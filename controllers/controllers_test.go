package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/tuber-treats/database"
	"github.com/yeremiapane/tuber-treats/dispatch"
	"github.com/yeremiapane/tuber-treats/router"
	"github.com/yeremiapane/tuber-treats/services"
	"github.com/yeremiapane/tuber-treats/store"
)

type envelope struct {
	Status    bool            `json:"status"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

type orderJSON struct {
	ID          uint       `json:"id"`
	CustomerID  uint       `json:"customer_id"`
	DriverID    *uint      `json:"driver_id"`
	DeliveredAt *time.Time `json:"delivered_at"`
	Customer    *struct {
		Name string `json:"name"`
	} `json:"customer"`
	Toppings []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"toppings"`
}

// setupRouter menyiapkan router lengkap di atas MemoryStore berisi data demo.
func setupRouter(t *testing.T) (*gin.Engine, *dispatch.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	_, err := database.Seed(context.Background(), st, time.Now())
	require.NoError(t, err)

	hub := dispatch.NewHub()
	svc := services.New(st, services.Options{Notifier: hub})
	return router.SetupRouter(svc, hub, nil), hub
}

func perform(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decodeOrder(t *testing.T, env envelope) orderJSON {
	t.Helper()
	var o orderJSON
	require.NoError(t, json.Unmarshal(env.Data, &o))
	return o
}

func TestPing(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestEnvelope_EchoesRequestID(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/tuberorders/999", nil)
	req.Header.Set("X-Request-ID", "trace-77")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "trace-77", env.RequestID)

	_, env = perform(t, r, http.MethodGet, "/tuberdrivers", nil)
	assert.NotEmpty(t, env.RequestID)
}

func TestOrderEndpoints_Lifecycle(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := perform(t, r, http.MethodPost, "/tuberorders", gin.H{"customer_id": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Status)
	assert.Equal(t, "Order created", env.Message)
	created := decodeOrder(t, env)
	assert.Nil(t, created.DriverID)
	assert.Nil(t, created.DeliveredAt)
	assert.NotNil(t, created.Toppings)
	assert.Empty(t, created.Toppings)
	require.NotNil(t, created.Customer)
	assert.Equal(t, "Alice Johnson", created.Customer.Name)
	assert.Contains(t, w.Body.String(), `"delivered_at":null`)

	path := "/tuberorders/" + jsonID(created.ID)

	w, env = perform(t, r, http.MethodPost, path+"/complete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Status)
	assert.Contains(t, env.Message, "must assign driver before completing")

	w, _ = perform(t, r, http.MethodPut, path, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = perform(t, r, http.MethodPut, path, gin.H{"driver_id": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assigned := decodeOrder(t, env)
	require.NotNil(t, assigned.DriverID)
	assert.Equal(t, uint(2), *assigned.DriverID)

	w, env = perform(t, r, http.MethodPost, path+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Order completed successfully", env.Message)
	done := decodeOrder(t, env)
	require.NotNil(t, done.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *done.DeliveredAt, time.Hour)

	w, env = perform(t, r, http.MethodPost, path+"/complete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, env.Message, "already completed")
}

func TestOrderEndpoints_Errors(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"unknown customer", http.MethodPost, "/tuberorders", gin.H{"customer_id": 999}, http.StatusNotFound},
		{"unknown order", http.MethodGet, "/tuberorders/999", nil, http.StatusNotFound},
		{"bad id", http.MethodGet, "/tuberorders/abc", nil, http.StatusBadRequest},
		{"zero id", http.MethodGet, "/tuberorders/0", nil, http.StatusBadRequest},
		{"assign unknown order", http.MethodPut, "/tuberorders/999", gin.H{"driver_id": 1}, http.StatusNotFound},
		{"complete unknown order", http.MethodPost, "/tuberorders/999/complete", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := perform(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.False(t, env.Status)
		})
	}
}

func TestListOrders_OldestFirst(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := perform(t, r, http.MethodGet, "/tuberorders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []orderJSON
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 3)
	assert.Equal(t, []uint{1, 2, 3}, []uint{orders[0].ID, orders[1].ID, orders[2].ID})
	assert.Len(t, orders[0].Toppings, 2)
}

func TestToppingLinkEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := perform(t, r, http.MethodPost, "/tubertoppings", gin.H{"order_id": 3, "topping_id": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var link struct {
		ID      uint `json:"id"`
		OrderID uint `json:"order_id"`
		Order   *struct {
			ID uint `json:"id"`
		} `json:"order"`
		Topping *struct {
			Name string `json:"name"`
		} `json:"topping"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &link))
	require.NotNil(t, link.Topping)
	assert.Equal(t, "Butter", link.Topping.Name)
	require.NotNil(t, link.Order)
	assert.Equal(t, uint(3), link.Order.ID)

	_, env = perform(t, r, http.MethodGet, "/tuberorders/3", nil)
	order := decodeOrder(t, env)
	names := make([]string, 0)
	for _, tp := range order.Toppings {
		names = append(names, tp.Name)
	}
	assert.Equal(t, []string{"Cheese", "Butter"}, names)

	w, _ = perform(t, r, http.MethodGet, "/tubertoppings/"+jsonID(link.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodDelete, "/tubertoppings/"+jsonID(link.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodDelete, "/tubertoppings/"+jsonID(link.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, env = perform(t, r, http.MethodGet, "/tuberorders/3", nil)
	assert.Len(t, decodeOrder(t, env).Toppings, 1)
}

func TestCustomerEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	_, env := perform(t, r, http.MethodGet, "/customers", nil)
	var before []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &before))

	w, env := perform(t, r, http.MethodPost, "/customers", gin.H{"name": "Tony", "address": "101 Main Street"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tony struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tony))
	assert.NotZero(t, tony.ID)

	_, env = perform(t, r, http.MethodGet, "/customers", nil)
	var after []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &after))
	assert.Len(t, after, len(before)+1)

	w, _ = perform(t, r, http.MethodPost, "/customers", gin.H{"name": "TONY", "address": "elsewhere"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = perform(t, r, http.MethodPost, "/customers", gin.H{"name": "", "address": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(t, r, http.MethodDelete, "/customers/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = perform(t, r, http.MethodDelete, "/customers/"+jsonID(tony.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodGet, "/customers/"+jsonID(tony.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDriverAndToppingEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := perform(t, r, http.MethodGet, "/tuberdrivers/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var driver struct {
		Name       string      `json:"name"`
		Deliveries []orderJSON `json:"deliveries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &driver))
	assert.Equal(t, "Frank Miller", driver.Name)
	require.Len(t, driver.Deliveries, 1)
	assert.Len(t, driver.Deliveries[0].Toppings, 2)

	w, _ = perform(t, r, http.MethodPost, "/tuberdrivers", gin.H{"name": "Ivy"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = perform(t, r, http.MethodPost, "/toppings", gin.H{"name": strings.Repeat("x", 51)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(t, r, http.MethodGet, "/toppings/5", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodDelete, "/toppings/5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	_, env = perform(t, r, http.MethodGet, "/tuberorders/3", nil)
	assert.Empty(t, decodeOrder(t, env).Toppings)
}

func TestDispatchSocket_ReceivesEvents(t *testing.T) {
	r, hub := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/dispatch/ws?screen=test"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(srv.URL+"/tuberorders", "application/json", strings.NewReader(`{"customer_id":2}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string    `json:"event"`
		Data  orderJSON `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, dispatch.EventOrderCreated, msg.Event)
	assert.Equal(t, uint(2), msg.Data.CustomerID)
}

func jsonID(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
