package qr

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"atelier/internal/logs"
	"atelier/internal/models"
)

func TestMain(m *testing.M) {
	logs.Init(logs.Options{Level: "error"})
	os.Exit(m.Run())
}

func TestGenerateClientOrder(t *testing.T) {
	base := t.TempDir()
	svc := New(base, "https://shop.example.com")

	o := &models.Order{ID: 42}
	require.NoError(t, svc.GenerateClientOrder(o))

	require.Equal(t, "https://shop.example.com/client-order/42", o.ClientQrLink)
	want := filepath.Join(base, "client-orders", time.Now().Format("2006-01"), "client-order-42.png")
	require.Equal(t, want, o.ClientQrPath)

	info, err := os.Stat(o.ClientQrPath)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestGenerateServiceDevice(t *testing.T) {
	base := t.TempDir()
	svc := New(base, "https://shop.example.com")

	d := &models.Device{ID: 7}
	require.NoError(t, svc.GenerateServiceDevice(d))

	require.Equal(t, "https://shop.example.com/service-device/7", d.ServiceQrLink)
	_, err := os.Stat(d.ServiceQrPath)
	require.NoError(t, err)
}

func TestEnsureClientOrderLazyRegeneration(t *testing.T) {
	base := t.TempDir()
	svc := New(base, "https://shop.example.com")

	o := &models.Order{ID: 1}

	// Empty path generates from scratch.
	changed, err := svc.EnsureClientOrder(o)
	require.NoError(t, err)
	require.True(t, changed)

	// Intact artifact is left alone.
	changed, err = svc.EnsureClientOrder(o)
	require.NoError(t, err)
	require.False(t, changed)

	// A deleted file comes back on the next ensure.
	require.NoError(t, os.Remove(o.ClientQrPath))
	changed, err = svc.EnsureClientOrder(o)
	require.NoError(t, err)
	require.True(t, changed)
	_, err = os.Stat(o.ClientQrPath)
	require.NoError(t, err)
}

func TestRemoveOrderArtifacts(t *testing.T) {
	base := t.TempDir()
	svc := New(base, "https://shop.example.com")

	o := &models.Order{ID: 5, Devices: []models.Device{{ID: 6}}}
	require.NoError(t, svc.GenerateClientOrder(o))
	require.NoError(t, svc.GenerateServiceDevice(&o.Devices[0]))

	svc.RemoveOrderArtifacts(o)

	_, err := os.Stat(o.ClientQrPath)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(o.Devices[0].ServiceQrPath)
	require.True(t, os.IsNotExist(err))
}
