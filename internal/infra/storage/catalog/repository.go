package catalog

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

// Repository репозиторий услуг и мастеров салона
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

var serviceColumns = []string{
	"id",
	"name",
	"description",
	"duration_minutes",
	"price",
	"active",
	"created_at",
	"updated_at",
}

// CreateService создает услугу
func (r *Repository) CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	if service.CreatedAt.IsZero() {
		service.CreatedAt = time.Now().UTC()
	}
	service.UpdatedAt = service.CreatedAt

	query, args, err := r.qb.Insert("services").
		Columns("name", "description", "duration_minutes", "price", "active", "created_at", "updated_at").
		Values(
			service.Name,
			service.Description,
			service.DurationMinutes,
			service.Price,
			service.Active,
			service.CreatedAt,
			service.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&service.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateService - execute insert: %v", ErrExecQuery, err)
	}

	return service, nil
}

// UpdateService перезаписывает все поля услуги
func (r *Repository) UpdateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	if service.UpdatedAt.IsZero() {
		service.UpdatedAt = time.Now().UTC()
	}

	query, args, err := r.qb.Update("services").
		Set("name", service.Name).
		Set("description", service.Description).
		Set("duration_minutes", service.DurationMinutes).
		Set("price", service.Price).
		Set("active", service.Active).
		Set("updated_at", service.UpdatedAt).
		Where(squirrel.Eq{"id": service.ID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateService - build update query: %v", ErrBuildQuery, err)
	}

	if err := execAffectingOne(ctx, executor, query, args, ErrServiceNotFound); err != nil {
		return nil, err
	}

	return r.GetService(ctx, service.ID)
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return service, nil
}

// ListServices возвращает услуги, отсортированные по названию
func (r *Repository) ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select(serviceColumns...).
		From("services").
		OrderBy("name ASC", "id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// DeleteService удаляет услугу и её связи с мастерами
func (r *Repository) DeleteService(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Delete("staff_services").Where(squirrel.Eq{"service_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteService - build delete links query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteService - execute delete links: %v", ErrExecQuery, err)
	}

	query, args, err = r.qb.Delete("services").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteService - build delete query: %v", ErrBuildQuery, err)
	}

	if err := execAffectingOne(ctx, executor, query, args, ErrServiceNotFound); err != nil {
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.DurationMinutes,
		&service.Price,
		&service.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time
	return &service, nil
}

// execAffectingOne выполняет запрос и возвращает notFound, если ни одна строка не изменилась
func execAffectingOne(ctx context.Context, executor DBExecutor, query string, args []interface{}, notFound error) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: execute: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
