package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/lock"
	"github.com/m04kA/salon-booking/internal/integrations/whatsapp"
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

// Create по умолчанию возвращает переданное бронирование с id = 42
func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	created := *booking
	created.ID = 42
	return &created, nil
}

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) UpsertByPhone(ctx context.Context, name, phone string, now time.Time) (*domain.Client, error) {
	args := m.Called(ctx, name, phone, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
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

func (m *mockMetrics) BookingAttempt(outcome string) { m.Called(outcome) }

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type busyLocker struct{}

func (busyLocker) WithDayLock(context.Context, time.Time, func(context.Context) error) error {
	return fmt.Errorf("%w: %s", lock.ErrLockNotAcquired, "salon:lock:day:2025-03-10")
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	monday  = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	sunday  = time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	weekAgo = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
)

func testSnapshot(settings domain.Settings) *snapshot.Snapshot {
	salon := domain.WorkingWindow{Start: types.MustTimeString("09:00"), End: types.MustTimeString("12:00")}

	return &snapshot.Snapshot{
		Schedule: scheduling.NewSchedule(
			domain.WeeklySchedule{time.Monday: salon},
			[]*domain.Staff{
				{ID: 1, Name: "Anna", Active: true, ServicesOffered: []int64{1, 2}, WorkingHours: domain.WeeklySchedule{time.Monday: salon}},
			},
			nil,
			[]*domain.Service{
				{ID: 1, Name: "Cut", DurationMinutes: 60, Active: true},
				{ID: 2, Name: "Styling", DurationMinutes: 30, Active: true},
			},
		),
		Settings: settings.WithDefaults(),
	}
}

type fixture struct {
	bookingRepo *mockBookingRepo
	clientRepo  *mockClientRepo
	loader      *mockLoader
	metrics     *mockMetrics
	uc          *UseCase
}

func newFixture(t *testing.T, now time.Time, settings domain.Settings, existing []*domain.Booking) *fixture {
	t.Helper()

	f := &fixture{
		bookingRepo: &mockBookingRepo{},
		clientRepo:  &mockClientRepo{},
		loader:      &mockLoader{},
		metrics:     &mockMetrics{},
	}

	f.loader.On("Load", mock.Anything, mock.Anything).Return(testSnapshot(settings), nil).Maybe()
	f.bookingRepo.On("ListByDate", mock.Anything, mock.Anything).Return(existing, nil).Maybe()
	f.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	f.clientRepo.On("UpsertByPhone", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Client{ID: 7}, nil).Maybe()
	f.metrics.On("BookingAttempt", mock.Anything).Maybe()

	f.uc = NewUseCase(
		f.bookingRepo,
		f.clientRepo,
		f.loader,
		lock.NewLocalLocker(time.Second),
		passthroughTx{},
		whatsapp.NewLinkBuilder("https://wa.me"),
		f.metrics,
		logger.Nop(),
	).WithTimeProvider(fixedTime{now: now})

	return f
}

func validRequest() *Request {
	return &Request{
		Date:        monday,
		StartTime:   types.MustTimeString("10:00"),
		ServiceIDs:  []int64{1, 2},
		StaffID:     ptr.Ptr[int64](1),
		ClientName:  " Maria ",
		ClientPhone: "+7 (999) 000-11-22",
		Notes:       ptr.Ptr("first visit"),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, weekAgo, domain.Settings{SalonName: "Aurora", SalonPhone: "+7 (999) 123-45-67"}, nil)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, int64(42), b.ID)
	assert.Equal(t, "10:00", b.StartTime.String())
	assert.Equal(t, "11:30", b.EndTime.String())
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, []int64{1, 2}, b.ServiceIDs)
	assert.Equal(t, "Maria", b.ClientName)
	require.NotNil(t, b.ClientID)
	assert.Equal(t, int64(7), *b.ClientID)
	assert.Equal(t, weekAgo, b.CreatedAt)

	assert.Equal(t, []string{"Cut", "Styling"}, resp.ServiceNames)
	assert.Equal(t, "Anna", resp.StaffName)
	assert.Contains(t, resp.WhatsAppLink, "https://wa.me/79991234567?text=")

	f.clientRepo.AssertCalled(t, "UpsertByPhone", mock.Anything, "Maria", "+7 (999) 000-11-22", weekAgo)
	f.metrics.AssertCalled(t, "BookingAttempt", OutcomeCreated)
}

func TestExecute_NoSalonPhone(t *testing.T) {
	f := newFixture(t, weekAgo, domain.Settings{}, nil)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.WhatsAppLink)
}

func TestExecute_SlotTaken(t *testing.T) {
	existing := []*domain.Booking{{
		ID:        1,
		StaffID:   ptr.Ptr[int64](1),
		Date:      monday,
		StartTime: types.MustTimeString("11:00"),
		EndTime:   types.MustTimeString("11:30"),
		Status:    domain.StatusConfirmed,
	}}
	f := newFixture(t, weekAgo, domain.Settings{}, existing)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)

	f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.clientRepo.AssertNotCalled(t, "UpsertByPhone", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.metrics.AssertCalled(t, "BookingAttempt", OutcomeConflict)
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	existing := []*domain.Booking{{
		StaffID:   ptr.Ptr[int64](1),
		Date:      monday,
		StartTime: types.MustTimeString("10:00"),
		EndTime:   types.MustTimeString("11:30"),
		Status:    domain.StatusCancelled,
	}}
	f := newFixture(t, weekAgo, domain.Settings{}, existing)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		settings domain.Settings
		modify   func(r *Request)
		wantErr  error
	}{
		{
			name:    "start time already passed today",
			now:     time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
			modify:  func(r *Request) {},
			wantErr: ErrSlotInPast,
		},
		{
			name:     "min notice",
			now:      time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
			settings: domain.Settings{MinNoticeMinutes: 60},
			modify:   func(r *Request) {},
			wantErr:  ErrSlotInPast,
		},
		{
			name:    "date in past",
			now:     time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC),
			modify:  func(r *Request) {},
			wantErr: ErrInvalidDate,
		},
		{
			name:     "too far ahead",
			now:      weekAgo,
			settings: domain.Settings{AdvanceBookingDays: 3},
			modify:   func(r *Request) {},
			wantErr:  ErrDateTooFarInFuture,
		},
		{
			name:    "closed day",
			now:     weekAgo,
			modify:  func(r *Request) { r.Date = sunday },
			wantErr: ErrClosedOnDate,
		},
		{
			name:    "does not fit before closing",
			now:     weekAgo,
			modify:  func(r *Request) { r.StartTime = types.MustTimeString("11:00") },
			wantErr: ErrOutsideWorkingHours,
		},
		{
			name:    "unknown service",
			now:     weekAgo,
			modify:  func(r *Request) { r.ServiceIDs = []int64{1, 99} },
			wantErr: ErrInvalidServiceSelection,
		},
		{
			name:    "unknown staff",
			now:     weekAgo,
			modify:  func(r *Request) { r.StaffID = ptr.Ptr[int64](5) },
			wantErr: ErrClosedOnDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now, tt.settings, nil)
			req := validRequest()
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.metrics.AssertCalled(t, "BookingAttempt", OutcomeRejected)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{"no date", func(r *Request) { r.Date = time.Time{} }},
		{"no services", func(r *Request) { r.ServiceIDs = nil }},
		{"negative service", func(r *Request) { r.ServiceIDs = []int64{-1} }},
		{"zero staff", func(r *Request) { r.StaffID = ptr.Ptr[int64](0) }},
		{"blank name", func(r *Request) { r.ClientName = "   " }},
		{"short phone", func(r *Request) { r.ClientPhone = "12-34" }},
		{"long notes", func(r *Request) {
			notes := make([]rune, domain.MaxNotesLength+1)
			for i := range notes {
				notes[i] = 'я'
			}
			r.Notes = ptr.Ptr(string(notes))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, weekAgo, domain.Settings{}, nil)
			req := validRequest()
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			f.loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_DayLocked(t *testing.T) {
	f := newFixture(t, weekAgo, domain.Settings{}, nil)
	f.uc.locker = busyLocker{}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingBusy)
	f.metrics.AssertCalled(t, "BookingAttempt", OutcomeBusy)
}

func TestExecute_StorageFailure(t *testing.T) {
	f := newFixture(t, weekAgo, domain.Settings{}, nil)
	f.bookingRepo.ExpectedCalls = nil
	f.bookingRepo.On("ListByDate", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
	f.metrics.AssertCalled(t, "BookingAttempt", OutcomeError)
}

// fakeStore хранит бронирования в памяти, как репозиторий под общей блокировкой
type fakeStore struct {
	mu       sync.Mutex
	bookings []*domain.Booking
}

func (s *fakeStore) ListByDate(_ context.Context, date time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if b.DateString() == date.Format(domain.DateFormat) {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *fakeStore) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	// окно между чтением и записью, в которое без блокировки дня вклинился бы второй запрос
	time.Sleep(5 * time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()

	created := *booking
	created.ID = int64(len(s.bookings) + 1)
	s.bookings = append(s.bookings, &created)
	return &created, nil
}

func TestExecute_ConcurrentRequestsForSameSlot(t *testing.T) {
	loader := &mockLoader{}
	loader.On("Load", mock.Anything, mock.Anything).Return(testSnapshot(domain.Settings{}), nil)
	clients := &mockClientRepo{}
	clients.On("UpsertByPhone", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Client{ID: 1}, nil)
	metrics := &mockMetrics{}
	metrics.On("BookingAttempt", mock.Anything)

	store := &fakeStore{}
	uc := NewUseCase(
		store,
		clients,
		loader,
		lock.NewLocalLocker(5*time.Second),
		passthroughTx{},
		whatsapp.NewLinkBuilder("https://wa.me"),
		metrics,
		logger.Nop(),
	).WithTimeProvider(fixedTime{now: weekAgo})

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validRequest())

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotNoLongerAvailable):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, store.bookings, 1)
}
