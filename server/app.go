package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier/config"
	"atelier/internal/api"
	"atelier/internal/auth"
	"atelier/internal/db"
	"atelier/internal/health"
	"atelier/internal/logs"
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/notify"
	"atelier/internal/qr"
	"atelier/internal/repo"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	d, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	a.db = d

	if err := a.db.AutoMigrate(
		&models.Client{},
		&models.User{},
		&models.Order{},
		&models.Device{},
		&models.OrderLog{},
		&models.OrderDocument{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	logStore := repo.NewLogStore(a.db)
	orders := repo.NewOrderStore(a.db, logStore)
	h := &api.Handler{
		Clients:       repo.NewClientStore(a.db),
		Orders:        orders,
		Devices:       repo.NewDeviceStore(a.db, orders, logStore),
		Users:         repo.NewUserStore(a.db),
		Logs:          logStore,
		Documents:     repo.NewDocumentStore(a.db),
		Notifications: repo.NewNotificationStore(a.db),
		Dashboard:     repo.NewDashboardStore(a.db),

		QR: qr.New(a.cfg.QR.BasePath, a.cfg.QR.FrontendURL),
		WhatsApp: notify.NewWhatsAppSender(
			a.cfg.WhatsApp.APIURL,
			a.cfg.WhatsApp.PhoneNumberID,
			a.cfg.WhatsApp.AccessToken,
			a.cfg.WhatsApp.TemplateName,
		),
		Tokens: auth.NewTokens(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL),
	}

	if a.cfg.Admin.Password != "" {
		if err := h.Users.EnsureAdmin(context.Background(),
			a.cfg.Admin.Username, a.cfg.Admin.Password, a.cfg.Admin.Email); err != nil {
			log.Fatalf("admin bootstrap failed: %v", err)
		}
	} else {
		logs.Logger.Warn("admin.password not set, skipping admin bootstrap")
	}

	rl := middleware.NewRateLimiter(
		a.cfg.RateLimit.PerMinute,
		a.cfg.RateLimit.CacheSize,
		a.cfg.RateLimit.CacheTTL,
	)

	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
		handlers.CORS(
			handlers.AllowedOrigins(a.cfg.CORS.AllowedOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		),
		rl.Middleware,
	)

	health.RegisterRoutesWithDB(a.Router, a.db)
	h.RegisterRoutes(a.Router)

	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
