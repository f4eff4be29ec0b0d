package repo

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"atelier/internal/models"
)

func TestOrderAddDefaultsAndCreationLog(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123", "RO124")
	require.Equal(t, models.StatusPreluat, o.Status)
	for _, d := range o.Devices {
		require.Equal(t, models.StatusPreluat, d.Status)
	}

	trail, err := s.logs.ByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	require.Equal(t, "Order created with 2 device(s) for client Ana Pop", trail[0].Message)
}

func TestOrderAddRejectsUnknownStatus(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123")
	bad := models.Order{ClientID: o.ClientID, UserID: o.UserID, Status: "REPARAT"}
	err := s.orders.Add(ctx, &bad)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeviceStatusSynchronizesOrder(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123", "RO124")
	devA, devB := o.Devices[0].ID, o.Devices[1].ID

	// One finished device is not enough to move the order.
	_, err := s.devices.UpdateStatus(ctx, devA, models.StatusFinalizat)
	require.NoError(t, err)
	got, err := s.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPreluat, got.Status)

	// The last finished device flips the order to FINALIZAT.
	_, err = s.devices.UpdateStatus(ctx, devB, models.StatusFinalizat)
	require.NoError(t, err)
	got, err = s.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusFinalizat, got.Status)
}

func TestDeviceInLucruPullsOrderInLucru(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123", "RO124")
	_, err := s.devices.UpdateStatus(ctx, o.Devices[0].ID, models.StatusInLucru)
	require.NoError(t, err)

	got, err := s.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusInLucru, got.Status)
}

func TestDeviceAwaitingPartsLeavesOrderUntouched(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123", "RO124")
	_, err := s.devices.UpdateStatus(ctx, o.Devices[0].ID, models.StatusInAsteptare)
	require.NoError(t, err)

	got, err := s.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPreluat, got.Status)
}

func TestDeliverRequiresFinalizat(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123")
	before, err := s.logs.CountByOrder(ctx, o.ID)
	require.NoError(t, err)

	_, err = s.orders.Deliver(ctx, o.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	got, err := s.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPreluat, got.Status)
	require.Equal(t, models.StatusPreluat, got.Devices[0].Status)

	after, err := s.logs.CountByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestDeliverCascadesAndLogsOnce(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123", "RO124")
	for _, d := range o.Devices {
		_, err := s.devices.UpdateStatus(ctx, d.ID, models.StatusFinalizat)
		require.NoError(t, err)
	}

	ok, err := s.orders.CanDeliver(ctx, o.ID)
	require.NoError(t, err)
	require.True(t, ok)

	before, err := s.logs.CountByOrder(ctx, o.ID)
	require.NoError(t, err)

	delivered, err := s.orders.Deliver(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPredat, delivered.Status)

	got, err := s.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPredat, got.Status)
	for _, d := range got.Devices {
		require.Equal(t, models.StatusPredat, d.Status)
	}

	after, err := s.logs.CountByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, before+1, after)

	trail, err := s.logs.ByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, "Order marked as delivered to client with 2 device(s)", trail[len(trail)-1].Message)

	ok, err = s.orders.CanDeliver(ctx, o.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanDeliverUnknownOrder(t *testing.T) {
	s := newTestStores(t)

	ok, err := s.orders.CanDeliver(context.Background(), 9999)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOrderFilterMatchAll(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	seedOrder(t, s, "RO123", "RO124")

	page, err := s.orders.Filter(ctx, "", "all", nil, PageQuery{Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.TotalElements)
	require.Len(t, page.Content, 1)
	require.Equal(t, "Ana Pop", page.Content[0].ClientName)
	require.EqualValues(t, 2, page.Content[0].DeviceCount)
}

func TestOrderFilterNoMatch(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	seedOrder(t, s, "RO123")

	page, err := s.orders.Filter(ctx, "nothing-like-this", "all", nil, PageQuery{Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 0, page.TotalElements)
	require.Empty(t, page.Content)
}

func TestOrderFilterByClientNameAndStatus(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123")

	page, err := s.orders.Filter(ctx, "ana", "", nil, PageQuery{Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.TotalElements)

	page, err = s.orders.Filter(ctx, "", models.StatusInLucru, nil, PageQuery{Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 0, page.TotalElements)

	deviceID := o.Devices[0].ID
	page, err = s.orders.Filter(ctx, "", "all", &deviceID, PageQuery{Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.TotalElements)

	missing := deviceID + 100
	page, err = s.orders.Filter(ctx, "", "all", &missing, PageQuery{Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 0, page.TotalElements)
}

func TestOrderFilterBySearchedID(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123")

	page, err := s.orders.Filter(ctx, strconv.FormatUint(uint64(o.ID), 10), "all", nil, PageQuery{Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.TotalElements)
	require.Equal(t, o.ID, page.Content[0].ID)
}

func TestIDCastFollowsDialect(t *testing.T) {
	require.Equal(t, "CAST(orders.id AS CHAR)", idAsText("mysql"))
	require.Equal(t, "CAST(orders.id AS TEXT)", idAsText("sqlite"))
	require.Equal(t, "CAST(orders.id AS TEXT)", idAsText("postgres"))
}

func TestOrderUpdateLogsStatusTransition(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123")
	status := models.StatusInLucru
	updated, err := s.orders.Update(ctx, o.ID, models.OrderPatch{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.StatusInLucru, updated.Status)

	trail, err := s.logs.ByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, "Status changed from 'PRELUAT' to 'IN_LUCRU'", trail[len(trail)-1].Message)
}

func TestOrderDeleteCascades(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123", "RO124")
	deleted, err := s.orders.Delete(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, deleted.Devices, 2)

	_, err = s.orders.GetByID(ctx, o.ID)
	require.ErrorIs(t, err, ErrNotFound)

	devices, err := s.devices.ByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Empty(t, devices)

	n, err := s.logs.CountByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestActiveCountExcludesDelivered(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	o := seedOrder(t, s, "RO123")
	n, err := s.orders.ActiveCount(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.devices.UpdateStatus(ctx, o.Devices[0].ID, models.StatusFinalizat)
	require.NoError(t, err)
	_, err = s.orders.Deliver(ctx, o.ID)
	require.NoError(t, err)

	n, err = s.orders.ActiveCount(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
