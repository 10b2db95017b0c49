package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/sqlbuilder"
	"github.com/m04kA/salon-booking/pkg/txmanager"
)

var bookingColumns = []string{
	"id",
	"staff_id",
	"client_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"client_name",
	"client_phone",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// Create сохраняет бронирование вместе со списком услуг.
// Если в контексте передана активная транзакция, использует её.
// Вызывать внутри транзакции: запись идет в две таблицы.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	booking.UpdatedAt = booking.CreatedAt

	query, args, err := r.qb.Insert("bookings").
		Columns(
			"staff_id",
			"client_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"client_name",
			"client_phone",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			booking.StaffID,
			booking.ClientID,
			booking.DateString(),
			booking.StartTime,
			booking.EndTime,
			string(booking.Status),
			booking.ClientName,
			booking.ClientPhone,
			booking.Notes,
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.insertServices(ctx, executor, booking.ID, booking.ServiceIDs); err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *Repository) insertServices(ctx context.Context, executor DBExecutor, bookingID int64, serviceIDs []int64) error {
	if len(serviceIDs) == 0 {
		return nil
	}

	insert := r.qb.Insert("booking_services").Columns("booking_id", "service_id", "position")
	for i, id := range serviceIDs {
		insert = insert.Values(bookingID, id, i)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertServices - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertServices - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	bookings, err := r.queryBookings(ctx, executor, query, args)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	return bookings[0], nil
}

// List получает бронирования с фильтрацией.
// Без фильтра по статусу отменённые исключаются, если не указан IncludeCancelled.
// Запрос на один день внутри транзакции блокирует строки (FOR UPDATE), если драйвер это умеет.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select(bookingColumns...).From("bookings")

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	if filter.IsSingleDay() {
		selectBuilder = selectBuilder.OrderBy("start_time ASC", "id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "start_time DESC", "id DESC")
	}

	if txmanager.IsInTransaction(ctx) && filter.IsSingleDay() && r.qb.SupportsRowLocks() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, query, args)
}

// ListByDate возвращает все бронирования дня, занимающие календарь
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	return r.List(ctx, domain.BookingsFilter{StartDate: &date, EndDate: &date})
}

// UpdateStatus меняет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, updatedAt time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Update("bookings").
		Set("status", string(status)).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete удаляет бронирование (физическое удаление по явному запросу администратора)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Delete("booking_services").
		Where(squirrel.Eq{"booking_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete services query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete services: %v", ErrExecQuery, err)
	}

	query, args, err = r.qb.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CountByService количество бронирований, в которых есть услуга
func (r *Repository) CountByService(ctx context.Context, serviceID int64) (int, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("COUNT(*)").
		From("booking_services").
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByService - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByService - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

// queryBookings читает все строки и закрывает курсор до загрузки услуг:
// у sqlite одно соединение, и открытый курсор его держит
func (r *Repository) queryBookings(ctx context.Context, executor DBExecutor, query string, args []interface{}) ([]*domain.Booking, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: queryBookings - execute query: %v", ErrExecQuery, err)
	}

	bookings, err := r.scanBookings(rows)
	_ = rows.Close()
	if err != nil {
		return nil, err
	}

	if err := r.attachServices(ctx, executor, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// attachServices заполняет ServiceIDs в порядке, в котором услуги были выбраны
func (r *Repository) attachServices(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Booking, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		b.ServiceIDs = make([]int64, 0, 1)
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := r.qb.Select("booking_id", "service_id").
		From("booking_services").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("booking_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID, serviceID int64
		if err := rows.Scan(&bookingID, &serviceID); err != nil {
			return fmt.Errorf("%w: attachServices - scan row: %v", ErrScanRow, err)
		}
		if b, ok := byID[bookingID]; ok {
			b.ServiceIDs = append(b.ServiceIDs, serviceID)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServices - rows error: %v", ErrScanRow, err)
	}
	return nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var date, status string
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.StaffID,
			&booking.ClientID,
			&date,
			&booking.StartTime,
			&booking.EndTime,
			&status,
			&booking.ClientName,
			&booking.ClientPhone,
			&booking.Notes,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.Date, err = time.Parse(domain.DateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - parse date %q: %v", ErrScanRow, date, err)
		}
		booking.Status = domain.BookingStatus(status)
		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
