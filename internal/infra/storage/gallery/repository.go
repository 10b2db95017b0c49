package gallery

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

var itemColumns = []string{
	"id",
	"file_name",
	"thumb_name",
	"content_type",
	"caption",
	"width",
	"height",
	"created_at",
}

// Repository метаданные изображений галереи. Сами файлы лежат в filestore.
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

func (r *Repository) Create(ctx context.Context, item *domain.GalleryItem) (*domain.GalleryItem, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.qb.Insert("gallery_items").
		Columns("file_name", "thumb_name", "content_type", "caption", "width", "height", "created_at").
		Values(item.FileName, item.ThumbName, item.ContentType, item.Caption, item.Width, item.Height, item.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	return item, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.GalleryItem, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(itemColumns...).
		From("gallery_items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	item, err := scanItem(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan item: %v", ErrScanRow, err)
	}
	return item, nil
}

// List возвращает изображения, новые первыми
func (r *Repository) List(ctx context.Context) ([]*domain.GalleryItem, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(itemColumns...).
		From("gallery_items").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.GalleryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}
	return items, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Delete("gallery_items").Where(squirrel.Eq{"id": id}).ToSql()
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
		return ErrItemNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.GalleryItem, error) {
	var item domain.GalleryItem
	var createdAt sql.NullTime
	err := row.Scan(
		&item.ID,
		&item.FileName,
		&item.ThumbName,
		&item.ContentType,
		&item.Caption,
		&item.Width,
		&item.Height,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	item.CreatedAt = createdAt.Time
	return &item, nil
}
