package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"atelier/internal/auth"
	"atelier/internal/logs"
	"atelier/internal/models"
	"atelier/internal/notify"
	"atelier/internal/qr"
	"atelier/internal/repo"
)

func TestMain(m *testing.M) {
	logs.Init(logs.Options{Level: "error"})
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Client{},
		&models.User{},
		&models.Order{},
		&models.Device{},
		&models.OrderLog{},
		&models.OrderDocument{},
		&models.Notification{},
	))

	logStore := repo.NewLogStore(db)
	orders := repo.NewOrderStore(db, logStore)
	h := &Handler{
		Clients:       repo.NewClientStore(db),
		Orders:        orders,
		Devices:       repo.NewDeviceStore(db, orders, logStore),
		Users:         repo.NewUserStore(db),
		Logs:          logStore,
		Documents:     repo.NewDocumentStore(db),
		Notifications: repo.NewNotificationStore(db),
		Dashboard:     repo.NewDashboardStore(db),

		QR:       qr.New(t.TempDir(), "https://shop.example.com"),
		WhatsApp: notify.NewWhatsAppSender("", "", "", ""),
		Tokens:   auth.NewTokens("api-test-secret", time.Hour),
	}

	r := mux.NewRouter().StrictSlash(true)
	h.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, h
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func loginAs(t *testing.T, srv *httptest.Server, h *Handler, username, role string) string {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, h.Users.Register(context.Background(), &u, "parola123"))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/login", "",
		map[string]string{"username": username, "password": "parola123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	decodeBody(t, resp, &out)
	require.Equal(t, "Login successful", out["message"])
	return out["token"].(string)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv, h := newTestServer(t)
	u := models.User{Username: "mihai", Email: "mihai@example.com", Role: "TECHNICIAN"}
	require.NoError(t, h.Users.Register(context.Background(), &u, "parola123"))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/login", "",
		map[string]string{"username": "mihai", "password": "wrong"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/clients", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/clients", "not-a-token", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminTierRequiresRole(t *testing.T) {
	srv, h := newTestServer(t)
	tech := loginAs(t, srv, h, "tech", "TECHNICIAN")
	admin := loginAs(t, srv, h, "boss", models.RoleAdmin)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/dashboard/stats", tech, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/dashboard/stats", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats map[string]any
	decodeBody(t, resp, &stats)
	require.Contains(t, stats, "totalOrders")
}

func TestMeEchoesClaims(t *testing.T) {
	srv, h := newTestServer(t)
	token := loginAs(t, srv, h, "mihai", "TECHNICIAN")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]any
	decodeBody(t, resp, &me)
	require.Equal(t, "mihai", me["username"])
	require.Equal(t, "TECHNICIAN", me["role"])
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	srv, h := newTestServer(t)
	token := loginAs(t, srv, h, "tech", "TECHNICIAN")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/add", token, map[string]any{
		"name": "Ana", "surname": "Pop", "phone": "0712345678", "type": "persoana_fizica",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var client models.Client
	decodeBody(t, resp, &client)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/orders/add", token, map[string]any{
		"client_id": client.ID,
		"user_id":   1,
		"devices": []map[string]any{
			{"brand": "Lenovo", "model": "ThinkPad", "serial_number": "RO123"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	require.Equal(t, models.StatusPreluat, order.Status)
	require.Len(t, order.Devices, 1)

	// The deliver precondition fails until every device is finished.
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/orders/%d/deliver", srv.URL, order.ID), token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut,
		fmt.Sprintf("%s/api/devices/%d/status", srv.URL, order.Devices[0].ID), token,
		map[string]string{"status": models.StatusFinalizat})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/orders/%d/deliver", srv.URL, order.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var delivered models.Order
	decodeBody(t, resp, &delivered)
	require.Equal(t, models.StatusPredat, delivered.Status)

	// The public client view works without any token.
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/orders/client/%d", srv.URL, order.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view models.ClientOrderDetails
	decodeBody(t, resp, &view)
	require.Equal(t, "Ana Pop", view.ClientName)
	require.Equal(t, models.StatusPredat, view.Status)
}

// The frontend calls the action-style paths for every mutating
// operation; each one must resolve alongside its bare RESTful alias.
func TestActionStylePaths(t *testing.T) {
	srv, h := newTestServer(t)
	token := loginAs(t, srv, h, "tech", "TECHNICIAN")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/add", token, map[string]any{
		"name": "Ion", "surname": "Radu",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var client models.Client
	decodeBody(t, resp, &client)

	resp = doJSON(t, http.MethodPut,
		fmt.Sprintf("%s/api/clients/update/%d", srv.URL, client.ID), token,
		map[string]any{"phone": "0733000000"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &client)
	require.Equal(t, "0733000000", client.Phone)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/clients/all", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var clients []models.Client
	decodeBody(t, resp, &clients)
	require.Len(t, clients, 1)

	resp = doJSON(t, http.MethodDelete,
		fmt.Sprintf("%s/api/clients/delete/%d", srv.URL, client.ID), token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/clients/nrClients", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var n int64
	decodeBody(t, resp, &n)
	require.Zero(t, n)
}

func TestScanRedirectDependsOnAuth(t *testing.T) {
	srv, h := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/scan/7", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		IsAuthenticated bool   `json:"isAuthenticated"`
		RedirectURL     string `json:"redirectUrl"`
	}
	decodeBody(t, resp, &body)
	require.False(t, body.IsAuthenticated)
	require.Equal(t, "/public/order/7", body.RedirectURL)

	token := loginAs(t, srv, h, "tech", "TECHNICIAN")
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/scan/7", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	require.True(t, body.IsAuthenticated)
	require.Equal(t, "/orders?filter=7", body.RedirectURL)
}

func TestClientOrderQRServesPNG(t *testing.T) {
	srv, h := newTestServer(t)
	token := loginAs(t, srv, h, "tech", "TECHNICIAN")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients", token, map[string]any{
		"name": "Ana", "surname": "Pop",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var client models.Client
	decodeBody(t, resp, &client)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/orders", token, map[string]any{
		"client_id": client.ID, "user_id": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)

	resp = doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/qr/client-order/%d", srv.URL, order.ID), "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp2 := doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/qr/client-order/%d/link", srv.URL, order.ID), "", nil)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestUnknownOrderIs404(t *testing.T) {
	srv, h := newTestServer(t)
	token := loginAs(t, srv, h, "tech", "TECHNICIAN")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/orders/999", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
}
