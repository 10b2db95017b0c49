package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/lock"
	bookingRepo "github.com/m04kA/salon-booking/internal/infra/storage/booking"
	"github.com/m04kA/salon-booking/internal/infra/storage/storagetest"
	"github.com/m04kA/salon-booking/internal/service/bookings/models"
	"github.com/m04kA/salon-booking/pkg/logger"
	"github.com/m04kA/salon-booking/pkg/ptr"
	"github.com/m04kA/salon-booking/pkg/txmanager"
	"github.com/m04kA/salon-booking/pkg/types"
)

var (
	march10 = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	march11 = time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
)

type env struct {
	repo *bookingRepo.Repository
	svc  *Service
}

func newEnv(t *testing.T, strict bool) *env {
	t.Helper()
	db, qb := storagetest.NewSQLite(t)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := db.Exec(`INSERT INTO services (id, name, duration_minutes, price, active, created_at, updated_at)
		VALUES (1, 'Haircut', 60, 1500, 1, ?, ?)`, now, now)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO staff (id, name, active, created_at, updated_at) VALUES (1, 'Anna', 1, ?, ?)`, now, now)
	require.NoError(t, err)

	repo := bookingRepo.NewRepository(db, qb)
	return &env{
		repo: repo,
		svc:  NewService(repo, txmanager.New(db, false), lock.NewLocalLocker(time.Second), strict, logger.Nop()),
	}
}

func (e *env) create(t *testing.T, date time.Time, start, end string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := e.repo.Create(context.Background(), &domain.Booking{
		StaffID:     ptr.Ptr[int64](1),
		ServiceIDs:  []int64{1},
		Date:        date,
		StartTime:   types.MustTimeString(start),
		EndTime:     types.MustTimeString(end),
		Status:      status,
		ClientName:  "Maria",
		ClientPhone: "+79990001122",
	})
	require.NoError(t, err)
	return b
}

func TestService_GetByID(t *testing.T) {
	e := newEnv(t, true)
	b := e.create(t, march10, "10:00", "11:00", domain.StatusPending)

	resp, err := e.svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, []int64{1}, resp.ServiceIDs)

	_, err = e.svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_List(t *testing.T) {
	e := newEnv(t, true)
	e.create(t, march10, "10:00", "11:00", domain.StatusPending)
	e.create(t, march10, "12:00", "13:00", domain.StatusCancelled)
	e.create(t, march11, "10:00", "11:00", domain.StatusConfirmed)
	ctx := context.Background()

	t.Run("single day without cancelled", func(t *testing.T) {
		resp, err := e.svc.List(ctx, &models.ListBookingsRequest{StartDate: &march10, EndDate: &march10})
		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, "10:00", resp.Bookings[0].StartTime)
	})

	t.Run("cancelled status filter", func(t *testing.T) {
		resp, err := e.svc.List(ctx, &models.ListBookingsRequest{Status: ptr.Ptr("cancelled")})
		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, "cancelled", resp.Bookings[0].Status)
	})

	t.Run("include cancelled", func(t *testing.T) {
		resp, err := e.svc.List(ctx, &models.ListBookingsRequest{IncludeCancelled: true})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 3)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		resp, err := e.svc.List(ctx, &models.ListBookingsRequest{StaffID: ptr.Ptr[int64](42)})
		require.NoError(t, err)
		assert.NotNil(t, resp.Bookings)
		assert.Empty(t, resp.Bookings)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := e.svc.List(ctx, &models.ListBookingsRequest{StartDate: &march11, EndDate: &march10})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := e.svc.List(ctx, &models.ListBookingsRequest{Status: ptr.Ptr("archived")})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestService_UpdateStatus_Strict(t *testing.T) {
	e := newEnv(t, true)
	b := e.create(t, march10, "10:00", "11:00", domain.StatusPending)
	ctx := context.Background()

	_, err := e.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resp, err := e.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = e.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: "no-show"})
	require.NoError(t, err)
	assert.Equal(t, "no-show", resp.Status)

	stored, err := e.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, stored.Status)

	_, err = e.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_UpdateStatus_Loose(t *testing.T) {
	e := newEnv(t, false)
	b := e.create(t, march10, "10:00", "11:00", domain.StatusCompleted)

	resp, err := e.svc.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestService_UpdateStatus_ReactivationChecksCollisions(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	cancelled := e.create(t, march10, "10:00", "11:00", domain.StatusCancelled)
	taken := e.create(t, march10, "10:30", "11:30", domain.StatusPending)

	_, err := e.svc.UpdateStatus(ctx, cancelled.ID, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrSlotOccupied)

	stored, err := e.repo.GetByID(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	occupying, err := e.repo.ListByDate(ctx, march10)
	require.NoError(t, err)
	require.Len(t, occupying, 1)
	assert.Equal(t, taken.ID, occupying[0].ID)

	require.NoError(t, e.svc.Delete(ctx, taken.ID))
	resp, err := e.svc.UpdateStatus(ctx, cancelled.ID, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestService_UpdateStatus_ReactivationAdjacentBooking(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	cancelled := e.create(t, march10, "10:00", "11:00", domain.StatusCancelled)
	e.create(t, march10, "11:00", "12:00", domain.StatusConfirmed)
	e.create(t, march11, "10:00", "11:00", domain.StatusConfirmed)

	resp, err := e.svc.UpdateStatus(ctx, cancelled.ID, &models.UpdateStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	_, err := e.svc.UpdateStatus(ctx, 999, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = e.svc.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_UpdateStatus_SameStatusIsNoop(t *testing.T) {
	e := newEnv(t, true)
	b := e.create(t, march10, "10:00", "11:00", domain.StatusCancelled)

	resp, err := e.svc.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestService_Delete(t *testing.T) {
	e := newEnv(t, true)
	b := e.create(t, march10, "10:00", "11:00", domain.StatusPending)
	ctx := context.Background()

	require.NoError(t, e.svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, e.svc.Delete(ctx, b.ID), ErrBookingNotFound)
}
