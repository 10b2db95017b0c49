package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/sqlbuilder"
	"github.com/m04kA/salon-booking/pkg/txmanager"
	"github.com/m04kA/salon-booking/pkg/types"
)

// settingsRowID настройки салона хранятся одной строкой
const settingsRowID = 1

// Repository репозиторий часов работы, выходных дней и настроек салона
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// GetBusinessHours возвращает часы работы салона. Отсутствующий день недели означает выходной.
func (r *Repository) GetBusinessHours(ctx context.Context) (domain.WeeklySchedule, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("weekday", "start_time", "end_time").
		From("business_hours").
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make(domain.WeeklySchedule)
	for rows.Next() {
		var weekday int
		var start, end types.TimeString
		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: GetBusinessHours - scan row: %v", ErrScanRow, err)
		}
		hours[time.Weekday(weekday)] = domain.WorkingWindow{Start: start, End: end}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// ReplaceBusinessHours полностью заменяет часы работы салона
func (r *Repository) ReplaceBusinessHours(ctx context.Context, hours domain.WeeklySchedule) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Delete("business_hours").ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute delete: %v", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insert := r.qb.Insert("business_hours").Columns("weekday", "start_time", "end_time")
	for day := time.Sunday; day <= time.Saturday; day++ {
		if w := hours.For(day); w != nil {
			insert = insert.Values(int(day), w.Start, w.End)
		}
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListBlockedDates возвращает выходные дни по возрастанию даты.
// from == nil возвращает все даты.
func (r *Repository) ListBlockedDates(ctx context.Context, from *time.Time) ([]domain.BlockedDate, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select("blocked_date", "reason", "created_at").
		From("blocked_dates").
		OrderBy("blocked_date ASC")

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"blocked_date": from.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make([]domain.BlockedDate, 0)
	for rows.Next() {
		var date string
		var item domain.BlockedDate
		var createdAt sql.NullTime
		if err := rows.Scan(&date, &item.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListBlockedDates - scan row: %v", ErrScanRow, err)
		}
		item.Date, err = time.Parse(domain.DateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBlockedDates - parse date %q: %v", ErrScanRow, date, err)
		}
		item.CreatedAt = createdAt.Time
		blocked = append(blocked, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - rows error: %v", ErrScanRow, err)
	}

	return blocked, nil
}

// AddBlockedDate добавляет выходной день. Для существующей даты обновляется причина.
func (r *Repository) AddBlockedDate(ctx context.Context, blocked domain.BlockedDate) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	if blocked.CreatedAt.IsZero() {
		blocked.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.qb.Insert("blocked_dates").
		Columns("blocked_date", "reason", "created_at").
		Values(blocked.Key(), blocked.Reason, blocked.CreatedAt).
		Suffix("ON CONFLICT (blocked_date) DO UPDATE SET reason = excluded.reason").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddBlockedDate - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddBlockedDate - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// DeleteBlockedDate удаляет выходной день
func (r *Repository) DeleteBlockedDate(ctx context.Context, date time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Delete("blocked_dates").
		Where(squirrel.Eq{"blocked_date": date.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedDate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlockedDateNotFound
	}
	return nil
}

// GetSettings возвращает настройки салона. Если они ещё не сохранены, возвращаются значения по умолчанию.
func (r *Repository) GetSettings(ctx context.Context) (domain.Settings, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(
		"salon_name",
		"salon_phone",
		"slot_step_minutes",
		"advance_booking_days",
		"min_notice_minutes",
		"updated_at",
	).
		From("settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.Settings
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.SalonName,
		&settings.SalonPhone,
		&settings.SlotStepMinutes,
		&settings.AdvanceBookingDays,
		&settings.MinNoticeMinutes,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Settings{
			SlotStepMinutes:    domain.DefaultSlotStepMinutes,
			AdvanceBookingDays: domain.DefaultAdvanceBookingDays,
			MinNoticeMinutes:   domain.DefaultMinNoticeMinutes,
		}, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	settings.UpdatedAt = updatedAt.Time
	return settings, nil
}

// SaveSettings создает или перезаписывает настройки салона
func (r *Repository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	if settings.UpdatedAt.IsZero() {
		settings.UpdatedAt = time.Now().UTC()
	}

	query, args, err := r.qb.Insert("settings").
		Columns(
			"id",
			"salon_name",
			"salon_phone",
			"slot_step_minutes",
			"advance_booking_days",
			"min_notice_minutes",
			"updated_at",
		).
		Values(
			settingsRowID,
			settings.SalonName,
			settings.SalonPhone,
			settings.SlotStepMinutes,
			settings.AdvanceBookingDays,
			settings.MinNoticeMinutes,
			settings.UpdatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			salon_name = excluded.salon_name,
			salon_phone = excluded.salon_phone,
			slot_step_minutes = excluded.slot_step_minutes,
			advance_booking_days = excluded.advance_booking_days,
			min_notice_minutes = excluded.min_notice_minutes,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveSettings - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveSettings - execute upsert: %v", ErrExecQuery, err)
	}
	return nil
}
