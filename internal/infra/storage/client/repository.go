package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/sqlbuilder"
	"github.com/m04kA/salon-booking/pkg/txmanager"
)

// bookings_count и last_visit считаются по таблице bookings, а не хранятся у клиента.
// last_visit учитывает только завершенные визиты.
var clientColumns = []string{
	"c.id",
	"c.name",
	"c.phone",
	"c.notes",
	"(SELECT COUNT(*) FROM bookings b WHERE b.client_id = c.id) AS bookings_count",
	fmt.Sprintf("(SELECT MAX(b.booking_date) FROM bookings b WHERE b.client_id = c.id AND b.status = '%s') AS last_visit",
		domain.StatusCompleted),
	"c.created_at",
	"c.updated_at",
}

// Repository репозиторий клиентов салона
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// UpsertByPhone находит клиента по телефону или создает нового, имя обновляется последним значением
func (r *Repository) UpsertByPhone(ctx context.Context, name, phone string, now time.Time) (*domain.Client, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Insert("clients").
		Columns("name", "phone", "created_at", "updated_at").
		Values(name, phone, now, now).
		Suffix(`ON CONFLICT (phone) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
		RETURNING id`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - build upsert query: %v", ErrBuildQuery, err)
	}

	var id int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - execute upsert: %v", ErrExecQuery, err)
	}

	return r.GetByID(ctx, id)
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(clientColumns...).
		From("clients c").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	client, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan client: %v", ErrScanRow, err)
	}
	return client, nil
}

// List ищет клиентов по подстроке имени или телефона. Пустой search возвращает всех.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Client, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select(clientColumns...).
		From("clients c").
		OrderBy("c.name ASC", "c.id ASC")

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Expr("LOWER(c.name) LIKE ?", pattern),
			squirrel.Like{"c.phone": pattern},
		})
	}
	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}
	if offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return clients, nil
}

// UpdateNotes сохраняет заметки администратора о клиенте
func (r *Repository) UpdateNotes(ctx context.Context, id int64, notes *string, now time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Update("clients").
		Set("notes", notes).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateNotes - build update query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, query, args)
}

// Delete удаляет клиента. Его бронирования остаются без ссылки на клиента.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Update("bookings").
		Set("client_id", nil).
		Where(squirrel.Eq{"client_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build detach query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - detach bookings: %v", ErrExecQuery, err)
	}

	query, args, err = r.qb.Delete("clients").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, query, args)
}

func execAffectingOne(ctx context.Context, executor DBExecutor, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: execute: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var client domain.Client
	var lastVisit sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&client.Notes,
		&client.BookingsCount,
		&lastVisit,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastVisit.Valid {
		visit, err := time.Parse(domain.DateFormat, lastVisit.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_visit %q: %v", lastVisit.String, err)
		}
		client.LastVisit = &visit
	}
	client.CreatedAt = createdAt.Time
	client.UpdatedAt = updatedAt.Time
	return &client, nil
}
