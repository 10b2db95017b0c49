package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/scheduling"
	"github.com/m04kA/salon-booking/internal/usecase/snapshot"
	"github.com/m04kA/salon-booking/pkg/logger"
	"github.com/m04kA/salon-booking/pkg/ptr"
	"github.com/m04kA/salon-booking/pkg/types"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) ListByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context, date time.Time) (*snapshot.Snapshot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*snapshot.Snapshot), args.Error(1)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) SlotQuery(open bool) { m.Called(open) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	monday  = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	sunday  = time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	weekAgo = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
)

func testSnapshot(settings domain.Settings) *snapshot.Snapshot {
	salon := domain.WorkingWindow{Start: types.MustTimeString("09:00"), End: types.MustTimeString("12:00")}
	staffWindow := domain.WorkingWindow{Start: types.MustTimeString("10:00"), End: types.MustTimeString("12:00")}

	return &snapshot.Snapshot{
		Schedule: scheduling.NewSchedule(
			domain.WeeklySchedule{time.Monday: salon},
			[]*domain.Staff{
				{ID: 1, Name: "Anna", Active: true, ServicesOffered: []int64{1}, WorkingHours: domain.WeeklySchedule{time.Monday: staffWindow}},
			},
			nil,
			[]*domain.Service{
				{ID: 1, Name: "Cut", DurationMinutes: 60, Active: true},
				{ID: 2, Name: "Old", DurationMinutes: 30, Active: false},
				{ID: 3, Name: "Nails", DurationMinutes: 30, Active: true},
			},
		),
		Settings: settings.WithDefaults(),
	}
}

func newUseCase(t *testing.T, now time.Time, settings domain.Settings, bookings []*domain.Booking) (*UseCase, *mockMetrics) {
	t.Helper()

	bookingRepo := &mockBookingRepo{}
	bookingRepo.On("ListByDate", mock.Anything, mock.Anything).Return(bookings, nil).Maybe()

	loader := &mockLoader{}
	loader.On("Load", mock.Anything, mock.Anything).Return(testSnapshot(settings), nil)

	metrics := &mockMetrics{}
	metrics.On("SlotQuery", mock.Anything).Maybe()

	uc := NewUseCase(bookingRepo, loader, metrics, logger.Nop()).WithTimeProvider(fixedTime{now: now})
	return uc, metrics
}

func slotTimes(slots []domain.Slot) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.Time.String()
	}
	return result
}

func TestExecute_SalonHours(t *testing.T) {
	booked := &domain.Booking{
		Date:      monday,
		StartTime: types.MustTimeString("10:00"),
		EndTime:   types.MustTimeString("10:30"),
		Status:    domain.StatusConfirmed,
	}
	uc, metrics := newUseCase(t, weekAgo, domain.Settings{}, []*domain.Booking{booked})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 30, resp.StepMinutes)
	require.NotNil(t, resp.Window)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, slotTimes(resp.Slots))
	assert.Equal(t, []bool{true, false, false, true, true}, []bool{
		resp.Slots[0].Available, resp.Slots[1].Available, resp.Slots[2].Available,
		resp.Slots[3].Available, resp.Slots[4].Available,
	})
	metrics.AssertCalled(t, "SlotQuery", true)
}

func TestExecute_OnlyAvailable(t *testing.T) {
	booked := &domain.Booking{
		Date:      monday,
		StartTime: types.MustTimeString("10:00"),
		EndTime:   types.MustTimeString("10:30"),
		Status:    domain.StatusPending,
	}
	uc, _ := newUseCase(t, weekAgo, domain.Settings{}, []*domain.Booking{booked})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}, OnlyAvailable: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:30", "11:00"}, slotTimes(resp.Slots))
}

func TestExecute_StaffHours(t *testing.T) {
	uc, _ := newUseCase(t, weekAgo, domain.Settings{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}, StaffID: ptr.Ptr[int64](1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, slotTimes(resp.Slots))
}

func TestExecute_StaffDoesNotOfferService(t *testing.T) {
	uc, _ := newUseCase(t, weekAgo, domain.Settings{}, nil)

	_, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{3}, StaffID: ptr.Ptr[int64](1)})
	assert.ErrorIs(t, err, ErrInvalidServiceSelection)
}

func TestExecute_ClosedDay(t *testing.T) {
	uc, metrics := newUseCase(t, weekAgo, domain.Settings{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: sunday, ServiceIDs: []int64{1}})
	require.NoError(t, err)
	assert.Nil(t, resp.Window)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
	metrics.AssertCalled(t, "SlotQuery", false)
}

func TestExecute_Today(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("past slots", func(t *testing.T) {
		uc, _ := newUseCase(t, now, domain.Settings{}, nil)
		resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}, OnlyAvailable: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"10:30", "11:00"}, slotTimes(resp.Slots))
	})

	t.Run("min notice", func(t *testing.T) {
		uc, _ := newUseCase(t, now, domain.Settings{MinNoticeMinutes: 60}, nil)
		resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}, OnlyAvailable: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"11:00"}, slotTimes(resp.Slots))
	})
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		settings domain.Settings
		req      *Request
		wantErr  error
	}{
		{
			name:    "no services",
			now:     weekAgo,
			req:     &Request{Date: monday},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero date",
			now:     weekAgo,
			req:     &Request{ServiceIDs: []int64{1}},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative staff",
			now:     weekAgo,
			req:     &Request{Date: monday, ServiceIDs: []int64{1}, StaffID: ptr.Ptr[int64](-1)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "date in past",
			now:     time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC),
			req:     &Request{Date: monday, ServiceIDs: []int64{1}},
			wantErr: ErrInvalidDate,
		},
		{
			name:     "too far ahead",
			now:      weekAgo,
			settings: domain.Settings{AdvanceBookingDays: 3},
			req:      &Request{Date: monday, ServiceIDs: []int64{1}},
			wantErr:  ErrDateTooFarInFuture,
		},
		{
			name:    "inactive service",
			now:     weekAgo,
			req:     &Request{Date: monday, ServiceIDs: []int64{2}},
			wantErr: ErrInvalidServiceSelection,
		},
		{
			name:    "duplicate service",
			now:     weekAgo,
			req:     &Request{Date: monday, ServiceIDs: []int64{1, 1}},
			wantErr: ErrInvalidServiceSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newUseCase(t, tt.now, tt.settings, nil)
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_StorageFailure(t *testing.T) {
	loader := &mockLoader{}
	loader.On("Load", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	uc := NewUseCase(&mockBookingRepo{}, loader, &mockMetrics{}, logger.Nop()).
		WithTimeProvider(fixedTime{now: weekAgo})

	_, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})
	assert.ErrorIs(t, err, ErrInternal)
}
