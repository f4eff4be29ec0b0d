package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"atelier/internal/models"
)

// DashboardStore aggregates the counts behind the dashboard widgets. It
// reads across all entities, so it gets its own store rather than piggy-
// backing on one of them.
type DashboardStore struct{ db *gorm.DB }

func NewDashboardStore(db *gorm.DB) *DashboardStore { return &DashboardStore{db: db} }

type Stats struct {
	TotalOrders   int64 `json:"totalOrders"`
	TotalClients  int64 `json:"totalClients"`
	TotalDevices  int64 `json:"totalDevices"`
	TotalUsers    int64 `json:"totalUsers"`
	InProgress    int64 `json:"inProgress"`
	Completed     int64 `json:"completed"`
	AwaitingParts int64 `json:"awaitingParts"`
	Cancelled     int64 `json:"cancelled"`
}

type RecentOrder struct {
	ID             uint   `json:"id"`
	OrderNumber    string `json:"orderNumber"`
	Client         string `json:"client"`
	Device         string `json:"device"`
	Status         string `json:"status"`
	OriginalStatus string `json:"originalStatus"`
	Priority       string `json:"priority"`
}

type MonthlyOrders struct {
	Labels        []string `json:"labels"`
	CompletedData []int64  `json:"completedData"`
	NewOrdersData []int64  `json:"newOrdersData"`
}

type StatusDistribution struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

func (s *DashboardStore) countOrders(ctx context.Context, status string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ?", status).Count(&n).Error
	return n, err
}

func (s *DashboardStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Order{}).Count(&st.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Client{}).Count(&st.TotalClients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Device{}).Count(&st.TotalDevices).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&st.TotalUsers).Error; err != nil {
		return nil, err
	}

	var err error
	if st.Completed, err = s.countOrders(ctx, models.StatusPredat); err != nil {
		return nil, err
	}
	if st.Cancelled, err = s.countOrders(ctx, "CANCELLED"); err != nil {
		return nil, err
	}
	// In progress covers everything between intake and handover.
	for _, status := range []string{models.StatusPreluat, models.StatusInLucru, models.StatusFinalizat} {
		n, err := s.countOrders(ctx, status)
		if err != nil {
			return nil, err
		}
		st.InProgress += n
	}
	if err := db.Model(&models.Device{}).
		Where("status = ?", models.StatusInAsteptare).
		Count(&st.AwaitingParts).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *DashboardStore) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	if limit <= 0 {
		limit = 5
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Devices").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	out := make([]RecentOrder, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		client := ""
		if o.Client != nil {
			client = o.Client.Name + " " + o.Client.Surname
		}
		device := "No devices"
		switch {
		case len(o.Devices) == 1:
			device = o.Devices[0].Brand + " " + o.Devices[0].Model
		case len(o.Devices) > 1:
			device = fmt.Sprintf("Multiple devices (%d)", len(o.Devices))
		}
		display := models.DisplayStatus(o.Status)
		priority := "medium"
		switch display {
		case "cancelled", "completed":
			priority = "low"
		case "awaiting_parts":
			priority = "high"
		}
		out = append(out, RecentOrder{
			ID:             o.ID,
			OrderNumber:    fmt.Sprintf("ORD-%06d", o.ID),
			Client:         client,
			Device:         device,
			Status:         display,
			OriginalStatus: o.Status,
			Priority:       priority,
		})
	}
	return out, nil
}

// MonthlyOrders returns twelve month-buckets of new and completed order
// counts, oldest first.
func (s *DashboardStore) MonthlyOrders(ctx context.Context) (*MonthlyOrders, error) {
	out := &MonthlyOrders{}
	now := time.Now()
	db := s.db.WithContext(ctx)

	for i := 11; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
		end := start.AddDate(0, 1, 0)

		out.Labels = append(out.Labels, start.Format("Jan 2006"))

		var completed int64
		if err := db.Model(&models.Order{}).
			Where("status = ? AND created_at >= ? AND created_at < ?", models.StatusPredat, start, end).
			Count(&completed).Error; err != nil {
			return nil, err
		}
		out.CompletedData = append(out.CompletedData, completed)

		var created int64
		if err := db.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", start, end).
			Count(&created).Error; err != nil {
			return nil, err
		}
		out.NewOrdersData = append(out.NewOrdersData, created)
	}
	return out, nil
}

func (s *DashboardStore) StatusDistribution(ctx context.Context) (*StatusDistribution, error) {
	labels := []string{
		models.StatusPreluat,
		models.StatusInLucru,
		models.StatusFinalizat,
		models.StatusPredat,
	}
	out := &StatusDistribution{Labels: labels}
	for _, status := range labels {
		n, err := s.countOrders(ctx, status)
		if err != nil {
			return nil, err
		}
		out.Data = append(out.Data, n)
	}
	return out, nil
}
