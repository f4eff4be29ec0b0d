package qr

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"atelier/internal/logs"
	"atelier/internal/models"
)

const (
	categoryClientOrders   = "client-orders"
	categoryServiceDevices = "service-devices"

	imageSize = 256
)

// Service derives tracking links from entity ids and manages the PNG
// artifacts on disk. Links are deterministic; images are a lazy cache that
// regenerates whenever the stored path is empty or the file is gone.
type Service struct {
	basePath    string
	frontendURL string
}

func New(basePath, frontendURL string) *Service {
	return &Service{basePath: basePath, frontendURL: frontendURL}
}

func (s *Service) ClientOrderLink(orderID uint) string {
	return fmt.Sprintf("%s/client-order/%d", s.frontendURL, orderID)
}

func (s *Service) ServiceDeviceLink(deviceID uint) string {
	return fmt.Sprintf("%s/service-device/%d", s.frontendURL, deviceID)
}

// artifactPath creates <base>/<category>/<YYYY-MM>/<file>, making the
// directories as needed.
func (s *Service) artifactPath(category, fileName string) (string, error) {
	dir := filepath.Join(s.basePath, category, time.Now().Format("2006-01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create qr dir %s: %w", dir, err)
	}
	return filepath.Join(dir, fileName), nil
}

// GenerateClientOrder writes the client-facing QR image and fills the
// order's link/path fields. Persisting the fields is the caller's job.
func (s *Service) GenerateClientOrder(o *models.Order) error {
	link := s.ClientOrderLink(o.ID)
	path, err := s.artifactPath(categoryClientOrders, fmt.Sprintf("client-order-%d.png", o.ID))
	if err != nil {
		return err
	}
	if err := qrcode.WriteFile(link, qrcode.Medium, imageSize, path); err != nil {
		return fmt.Errorf("encode client qr for order %d: %w", o.ID, err)
	}
	o.ClientQrLink = link
	o.ClientQrPath = path
	logs.Logger.Infof("generated client QR for order %d: %s", o.ID, path)
	return nil
}

// GenerateServiceDevice writes the technician-facing QR image and fills the
// device's link/path fields.
func (s *Service) GenerateServiceDevice(d *models.Device) error {
	link := s.ServiceDeviceLink(d.ID)
	path, err := s.artifactPath(categoryServiceDevices, fmt.Sprintf("service-device-%d.png", d.ID))
	if err != nil {
		return err
	}
	if err := qrcode.WriteFile(link, qrcode.Medium, imageSize, path); err != nil {
		return fmt.Errorf("encode service qr for device %d: %w", d.ID, err)
	}
	d.ServiceQrLink = link
	d.ServiceQrPath = path
	logs.Logger.Infof("generated service QR for device %d: %s", d.ID, path)
	return nil
}

// EnsureClientOrder regenerates the artifact when the stored path is empty
// or the file has disappeared. Reports whether the entity changed.
func (s *Service) EnsureClientOrder(o *models.Order) (bool, error) {
	if o.ClientQrPath != "" && fileExists(o.ClientQrPath) {
		return false, nil
	}
	if o.ClientQrPath != "" {
		logs.Logger.Warnf("client QR file missing for order %d, regenerating", o.ID)
	}
	if err := s.GenerateClientOrder(o); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) EnsureServiceDevice(d *models.Device) (bool, error) {
	if d.ServiceQrPath != "" && fileExists(d.ServiceQrPath) {
		return false, nil
	}
	if d.ServiceQrPath != "" {
		logs.Logger.Warnf("service QR file missing for device %d, regenerating", d.ID)
	}
	if err := s.GenerateServiceDevice(d); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// RemoveOrderArtifacts deletes the QR files belonging to an order and its
// devices. Best effort; failures are only logged.
func (s *Service) RemoveOrderArtifacts(o *models.Order) {
	if o.ClientQrPath != "" {
		removeFile(o.ClientQrPath)
	}
	for i := range o.Devices {
		if o.Devices[i].ServiceQrPath != "" {
			removeFile(o.Devices[i].ServiceQrPath)
		}
	}
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logs.Logger.Errorf("remove qr file %s: %v", path, err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
