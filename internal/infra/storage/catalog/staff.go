package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/txmanager"
	"github.com/m04kA/salon-booking/pkg/types"
)

var staffColumns = []string{
	"id",
	"name",
	"role",
	"active",
	"created_at",
	"updated_at",
}

// CreateStaff создает мастера вместе с графиком и списком услуг.
// Вызывать внутри транзакции: запись идет в три таблицы.
func (r *Repository) CreateStaff(ctx context.Context, staff *domain.Staff) (*domain.Staff, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = time.Now().UTC()
	}
	staff.UpdatedAt = staff.CreatedAt

	query, args, err := r.qb.Insert("staff").
		Columns("name", "role", "active", "created_at", "updated_at").
		Values(staff.Name, staff.Role, staff.Active, staff.CreatedAt, staff.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateStaff - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&staff.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateStaff - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.replaceStaffLinks(ctx, executor, staff); err != nil {
		return nil, err
	}

	return staff, nil
}

// UpdateStaff перезаписывает мастера, его график и услуги
func (r *Repository) UpdateStaff(ctx context.Context, staff *domain.Staff) (*domain.Staff, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	if staff.UpdatedAt.IsZero() {
		staff.UpdatedAt = time.Now().UTC()
	}

	query, args, err := r.qb.Update("staff").
		Set("name", staff.Name).
		Set("role", staff.Role).
		Set("active", staff.Active).
		Set("updated_at", staff.UpdatedAt).
		Where(squirrel.Eq{"id": staff.ID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStaff - build update query: %v", ErrBuildQuery, err)
	}

	if err := execAffectingOne(ctx, executor, query, args, ErrStaffNotFound); err != nil {
		return nil, err
	}

	if err := r.replaceStaffLinks(ctx, executor, staff); err != nil {
		return nil, err
	}

	return r.GetStaff(ctx, staff.ID)
}

// replaceStaffLinks удаляет и заново записывает часы работы и услуги мастера
func (r *Repository) replaceStaffLinks(ctx context.Context, executor DBExecutor, staff *domain.Staff) error {
	for _, table := range []string{"staff_hours", "staff_services"} {
		query, args, err := r.qb.Delete(table).Where(squirrel.Eq{"staff_id": staff.ID}).ToSql()
		if err != nil {
			return fmt.Errorf("%w: replaceStaffLinks - build delete %s: %v", ErrBuildQuery, table, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: replaceStaffLinks - delete %s: %v", ErrExecQuery, table, err)
		}
	}

	if len(staff.WorkingHours) > 0 {
		insert := r.qb.Insert("staff_hours").Columns("staff_id", "weekday", "start_time", "end_time")
		for day := time.Sunday; day <= time.Saturday; day++ {
			if w := staff.WorkingHours.For(day); w != nil {
				insert = insert.Values(staff.ID, int(day), w.Start, w.End)
			}
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: replaceStaffLinks - build insert hours: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: replaceStaffLinks - insert hours: %v", ErrExecQuery, err)
		}
	}

	if len(staff.ServicesOffered) > 0 {
		insert := r.qb.Insert("staff_services").Columns("staff_id", "service_id")
		for _, id := range staff.ServicesOffered {
			insert = insert.Values(staff.ID, id)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: replaceStaffLinks - build insert services: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: replaceStaffLinks - insert services: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// GetStaff получает мастера по ID
func (r *Repository) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(staffColumns...).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	staff, err := r.queryStaff(ctx, executor, query, args)
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return nil, ErrStaffNotFound
	}
	return staff[0], nil
}

// ListStaff возвращает мастеров, отсортированных по ID
func (r *Repository) ListStaff(ctx context.Context, activeOnly bool) ([]*domain.Staff, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select(staffColumns...).
		From("staff").
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryStaff(ctx, executor, query, args)
}

// DeleteStaff удаляет мастера. Бронирования остаются без мастера.
func (r *Repository) DeleteStaff(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	if err := r.replaceStaffLinks(ctx, executor, &domain.Staff{ID: id}); err != nil {
		return err
	}

	query, args, err := r.qb.Update("bookings").
		Set("staff_id", nil).
		Where(squirrel.Eq{"staff_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteStaff - build detach query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteStaff - detach bookings: %v", ErrExecQuery, err)
	}

	query, args, err = r.qb.Delete("staff").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteStaff - build delete query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, query, args, ErrStaffNotFound)
}

func (r *Repository) queryStaff(ctx context.Context, executor DBExecutor, query string, args []interface{}) ([]*domain.Staff, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: queryStaff - execute query: %v", ErrExecQuery, err)
	}

	result := make([]*domain.Staff, 0)
	for rows.Next() {
		var staff domain.Staff
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&staff.ID, &staff.Name, &staff.Role, &staff.Active, &createdAt, &updatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%w: queryStaff - scan row: %v", ErrScanRow, err)
		}
		staff.CreatedAt = createdAt.Time
		staff.UpdatedAt = updatedAt.Time
		staff.WorkingHours = domain.WeeklySchedule{}
		staff.ServicesOffered = make([]int64, 0)
		result = append(result, &staff)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: queryStaff - rows error: %v", ErrScanRow, err)
	}

	if len(result) == 0 {
		return result, nil
	}
	if err := r.attachStaffLinks(ctx, executor, result); err != nil {
		return nil, err
	}
	return result, nil
}

// attachStaffLinks загружает часы и услуги одним запросом на таблицу
func (r *Repository) attachStaffLinks(ctx context.Context, executor DBExecutor, staff []*domain.Staff) error {
	byID := make(map[int64]*domain.Staff, len(staff))
	ids := make([]int64, 0, len(staff))
	for _, s := range staff {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	query, args, err := r.qb.Select("staff_id", "weekday", "start_time", "end_time").
		From("staff_hours").
		Where(squirrel.Eq{"staff_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachStaffLinks - build hours query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachStaffLinks - execute hours query: %v", ErrExecQuery, err)
	}
	for rows.Next() {
		var staffID int64
		var weekday int
		var start, end types.TimeString
		if err := rows.Scan(&staffID, &weekday, &start, &end); err != nil {
			_ = rows.Close()
			return fmt.Errorf("%w: attachStaffLinks - scan hours: %v", ErrScanRow, err)
		}
		if s, ok := byID[staffID]; ok {
			s.WorkingHours[time.Weekday(weekday)] = domain.WorkingWindow{Start: start, End: end}
		}
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return fmt.Errorf("%w: attachStaffLinks - hours rows error: %v", ErrScanRow, err)
	}

	query, args, err = r.qb.Select("staff_id", "service_id").
		From("staff_services").
		Where(squirrel.Eq{"staff_id": ids}).
		OrderBy("staff_id ASC", "service_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachStaffLinks - build services query: %v", ErrBuildQuery, err)
	}

	rows, err = executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachStaffLinks - execute services query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID, serviceID int64
		if err := rows.Scan(&staffID, &serviceID); err != nil {
			return fmt.Errorf("%w: attachStaffLinks - scan services: %v", ErrScanRow, err)
		}
		if s, ok := byID[staffID]; ok {
			s.ServicesOffered = append(s.ServicesOffered, serviceID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachStaffLinks - services rows error: %v", ErrScanRow, err)
	}

	return nil
}
