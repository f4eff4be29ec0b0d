package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"atelier/internal/middleware"
	"atelier/internal/models"
)

// RegisterRoutes wires the REST surface. Three tiers: public endpoints,
// a JWT-protected subrouter, and an ADMIN-gated subrouter inside it.
//
// Mutating routes carry the action-style paths the shipped frontend calls
// (/add, /update/{id}, /delete/{id}); the bare RESTful forms are kept as
// aliases.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Public: login, token introspection and everything reachable from a
	// scanned QR code.
	r.HandleFunc("/api/users/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/users/me", h.Me).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/client/{id:[0-9]+}", h.ClientOrderView).Methods(http.MethodGet)
	r.HandleFunc("/api/scan/{id}", h.QrScan).Methods(http.MethodGet)

	qr := r.PathPrefix("/api/qr").Subrouter()
	qr.HandleFunc("/client-order/{orderId:[0-9]+}", h.ClientOrderQR).Methods(http.MethodGet)
	qr.HandleFunc("/client-order/{orderId:[0-9]+}/link", h.ClientOrderQRLink).Methods(http.MethodGet)
	qr.HandleFunc("/service-device/{deviceId:[0-9]+}", h.ServiceDeviceQR).Methods(http.MethodGet)
	qr.HandleFunc("/service-device/{deviceId:[0-9]+}/link", h.ServiceDeviceQRLink).Methods(http.MethodGet)
	qr.HandleFunc("/regenerate/order/{orderId:[0-9]+}", h.RegenerateOrderQRs).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.BearerAuth(h.Tokens))

	clients := api.PathPrefix("/clients").Subrouter()
	clients.HandleFunc("/add", h.AddClient).Methods(http.MethodPost)
	clients.HandleFunc("", h.AddClient).Methods(http.MethodPost)
	clients.HandleFunc("/all", h.AllClients).Methods(http.MethodGet)
	clients.HandleFunc("", h.AllClients).Methods(http.MethodGet)
	clients.HandleFunc("/nrClients", h.ClientCount).Methods(http.MethodGet)
	clients.HandleFunc("/filter", h.FilterClients).Methods(http.MethodGet)
	clients.HandleFunc("/type/{type}", h.ClientsByType).Methods(http.MethodGet)
	clients.HandleFunc("/email/{email}", h.ClientByEmail).Methods(http.MethodGet)
	clients.HandleFunc("/cui/{cui}", h.ClientByCUI).Methods(http.MethodGet)
	clients.HandleFunc("/{id:[0-9]+}", h.GetClient).Methods(http.MethodGet)
	clients.HandleFunc("/update/{id:[0-9]+}", h.UpdateClient).Methods(http.MethodPut)
	clients.HandleFunc("/{id:[0-9]+}", h.UpdateClient).Methods(http.MethodPut)
	clients.HandleFunc("/delete/{id:[0-9]+}", h.DeleteClient).Methods(http.MethodDelete)
	clients.HandleFunc("/{id:[0-9]+}", h.DeleteClient).Methods(http.MethodDelete)

	orders := api.PathPrefix("/orders").Subrouter()
	orders.HandleFunc("/add", h.AddOrder).Methods(http.MethodPost)
	orders.HandleFunc("", h.AddOrder).Methods(http.MethodPost)
	orders.HandleFunc("/all", h.AllOrders).Methods(http.MethodGet)
	orders.HandleFunc("", h.AllOrders).Methods(http.MethodGet)
	orders.HandleFunc("/filter", h.FilterOrders).Methods(http.MethodGet)
	orders.HandleFunc("/nrActiveOrders", h.ActiveOrderCount).Methods(http.MethodGet)
	orders.HandleFunc("/details/{id:[0-9]+}", h.OrderDetails).Methods(http.MethodGet)
	orders.HandleFunc("/{id:[0-9]+}/details", h.OrderDetails).Methods(http.MethodGet)
	orders.HandleFunc("/{id:[0-9]+}", h.GetOrder).Methods(http.MethodGet)
	orders.HandleFunc("/{id:[0-9]+}/can-deliver", h.CanDeliverOrder).Methods(http.MethodGet)
	orders.HandleFunc("/{id:[0-9]+}/deliver", h.DeliverOrder).Methods(http.MethodPut, http.MethodPost)
	orders.HandleFunc("/{id:[0-9]+}/status", h.UpdateOrderStatus).Methods(http.MethodPut)
	orders.HandleFunc("/update/{id:[0-9]+}", h.UpdateOrder).Methods(http.MethodPut)
	orders.HandleFunc("/{id:[0-9]+}", h.UpdateOrder).Methods(http.MethodPut)
	orders.HandleFunc("/delete/{id:[0-9]+}", h.DeleteOrder).Methods(http.MethodDelete)
	orders.HandleFunc("/{id:[0-9]+}", h.DeleteOrder).Methods(http.MethodDelete)

	devices := api.PathPrefix("/devices").Subrouter()
	devices.HandleFunc("/add", h.AddDevice).Methods(http.MethodPost)
	devices.HandleFunc("", h.AddDevice).Methods(http.MethodPost)
	devices.HandleFunc("/all", h.AllDevices).Methods(http.MethodGet)
	devices.HandleFunc("", h.AllDevices).Methods(http.MethodGet)
	devices.HandleFunc("/accessories/predefined", h.PredefinedAccessories).Methods(http.MethodGet)
	devices.HandleFunc("/order/{id:[0-9]+}", h.DevicesByOrder).Methods(http.MethodGet)
	devices.HandleFunc("/serial/{serial}", h.DeviceBySerial).Methods(http.MethodGet)
	devices.HandleFunc("/serial/{serial}/exists", h.DeviceSerialExists).Methods(http.MethodGet)
	devices.HandleFunc("/{id:[0-9]+}", h.GetDevice).Methods(http.MethodGet)
	devices.HandleFunc("/{id:[0-9]+}/status", h.UpdateDeviceStatus).Methods(http.MethodPut)
	devices.HandleFunc("/{id:[0-9]+}/accessories", h.UpdateDeviceAccessories).Methods(http.MethodPut)
	devices.HandleFunc("/update/{id:[0-9]+}", h.UpdateDevice).Methods(http.MethodPut)
	devices.HandleFunc("/{id:[0-9]+}", h.UpdateDevice).Methods(http.MethodPut)
	devices.HandleFunc("/delete/{id:[0-9]+}", h.DeleteDevice).Methods(http.MethodDelete)
	devices.HandleFunc("/{id:[0-9]+}", h.DeleteDevice).Methods(http.MethodDelete)

	logs := api.PathPrefix("/order-logs").Subrouter()
	logs.HandleFunc("/add", h.AddOrderLog).Methods(http.MethodPost)
	logs.HandleFunc("", h.AddOrderLog).Methods(http.MethodPost)
	logs.HandleFunc("/all", h.AllOrderLogs).Methods(http.MethodGet)
	logs.HandleFunc("", h.AllOrderLogs).Methods(http.MethodGet)
	logs.HandleFunc("/by-order/{id:[0-9]+}", h.OrderLogsByOrder).Methods(http.MethodGet)
	logs.HandleFunc("/order/{id:[0-9]+}", h.OrderLogsByOrder).Methods(http.MethodGet)
	logs.HandleFunc("/{id:[0-9]+}", h.GetOrderLog).Methods(http.MethodGet)

	for _, documents := range []*mux.Router{
		api.PathPrefix("/order-documents").Subrouter(),
		api.PathPrefix("/documents").Subrouter(),
	} {
		documents.HandleFunc("/add", h.AddDocument).Methods(http.MethodPost)
		documents.HandleFunc("", h.AddDocument).Methods(http.MethodPost)
		documents.HandleFunc("/all", h.AllDocuments).Methods(http.MethodGet)
		documents.HandleFunc("", h.AllDocuments).Methods(http.MethodGet)
		documents.HandleFunc("/order/{id:[0-9]+}", h.DocumentsByOrder).Methods(http.MethodGet)
		documents.HandleFunc("/{id:[0-9]+}", h.GetDocument).Methods(http.MethodGet)
		documents.HandleFunc("/update/{id:[0-9]+}", h.UpdateDocument).Methods(http.MethodPut)
		documents.HandleFunc("/{id:[0-9]+}", h.UpdateDocument).Methods(http.MethodPut)
		documents.HandleFunc("/delete/{id:[0-9]+}", h.DeleteDocument).Methods(http.MethodDelete)
		documents.HandleFunc("/{id:[0-9]+}", h.DeleteDocument).Methods(http.MethodDelete)
	}

	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.HandleFunc("/all", h.AllNotifications).Methods(http.MethodGet)
	notifications.HandleFunc("", h.AllNotifications).Methods(http.MethodGet)
	notifications.HandleFunc("/order/{id:[0-9]+}", h.NotificationsByOrder).Methods(http.MethodGet)
	notifications.HandleFunc("/{id:[0-9]+}", h.GetNotification).Methods(http.MethodGet)

	// Admin tier: user management, dashboard, log/notification removal.
	admin := api.NewRoute().Subrouter()
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.HandleFunc("/users/register", h.RegisterUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/all", h.AllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.AllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/username/{username}", h.UserByUsername).Methods(http.MethodGet)
	admin.HandleFunc("/users/email/{email}", h.UserByEmail).Methods(http.MethodGet)
	admin.HandleFunc("/users/role/{role}", h.UsersByRole).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}", h.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/update/{id:[0-9]+}", h.UpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id:[0-9]+}", h.UpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/delete/{id:[0-9]+}", h.DeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods(http.MethodDelete)

	admin.HandleFunc("/dashboard/stats", h.DashboardStats).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/recent-orders", h.DashboardRecentOrders).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/monthly-orders", h.DashboardMonthlyOrders).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/status-distribution", h.DashboardStatusDistribution).Methods(http.MethodGet)

	admin.HandleFunc("/order-logs/delete/{id:[0-9]+}", h.DeleteOrderLog).Methods(http.MethodDelete)
	admin.HandleFunc("/order-logs/{id:[0-9]+}", h.DeleteOrderLog).Methods(http.MethodDelete)
	admin.HandleFunc("/notifications/add", h.AddNotification).Methods(http.MethodPost)
	admin.HandleFunc("/notifications", h.AddNotification).Methods(http.MethodPost)
	admin.HandleFunc("/notifications/delete/{id:[0-9]+}", h.DeleteNotification).Methods(http.MethodDelete)
	admin.HandleFunc("/notifications/{id:[0-9]+}", h.DeleteNotification).Methods(http.MethodDelete)
}
