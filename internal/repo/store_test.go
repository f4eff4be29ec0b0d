package repo

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"atelier/internal/logs"
	"atelier/internal/models"
)

func TestMain(m *testing.M) {
	logs.Init(logs.Options{Level: "error"})
	os.Exit(m.Run())
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	// sqlite in-memory databases live per connection.
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
	return db
}

type testStores struct {
	clients *ClientStore
	orders  *OrderStore
	devices *DeviceStore
	users   *UserStore
	logs    *LogStore
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()
	db := testDB(t)
	logStore := NewLogStore(db)
	orders := NewOrderStore(db, logStore)
	return &testStores{
		clients: NewClientStore(db),
		orders:  orders,
		devices: NewDeviceStore(db, orders, logStore),
		users:   NewUserStore(db),
		logs:    logStore,
	}
}

// seedOrder creates a user, a client and an order with the given devices,
// all starting out as PRELUAT.
func seedOrder(t *testing.T, s *testStores, serials ...string) *models.Order {
	t.Helper()
	ctx := context.Background()

	u := models.User{Username: "tech", Email: "tech@example.com", Role: "TECHNICIAN"}
	require.NoError(t, s.users.Register(ctx, &u, "secret-pass"))

	c := models.Client{
		Name:    "Ana",
		Surname: "Pop",
		Email:   "ana.pop@example.com",
		Phone:   "0712345678",
		Type:    "persoana_fizica",
	}
	require.NoError(t, s.clients.Add(ctx, &c))

	o := models.Order{ClientID: c.ID, UserID: u.ID}
	for _, serial := range serials {
		o.Devices = append(o.Devices, models.Device{
			Brand:        "Lenovo",
			Model:        "ThinkPad",
			SerialNumber: serial,
		})
	}
	require.NoError(t, s.orders.Add(ctx, &o))
	return &o
}
