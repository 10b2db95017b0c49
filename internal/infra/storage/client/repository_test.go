package client

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/infra/storage/storagetest"
	"github.com/m04kA/salon-booking/pkg/ptr"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	repo, _ := newRepoWithDB(t)
	return repo
}

func newRepoWithDB(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()
	db, qb := storagetest.NewSQLite(t)
	return NewRepository(db, qb), db
}

func insertBooking(t *testing.T, db *sql.DB, clientID int64, date, status string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO bookings
		(client_id, booking_date, start_time, end_time, status, client_name, client_phone, created_at, updated_at)
		VALUES (?, ?, '10:00', '11:00', ?, 'Maria', '+79990001122', ?, ?)`, clientID, date, status, now, now)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestRepository_UpsertByPhone(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first, err := repo.UpsertByPhone(ctx, "Maria", "+79990001122", now)
	require.NoError(t, err)
	assert.Equal(t, 0, first.BookingsCount)
	assert.Nil(t, first.LastVisit)

	second, err := repo.UpsertByPhone(ctx, "Maria K.", "+79990001122", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Maria K.", second.Name)

	other, err := repo.UpsertByPhone(ctx, "Olga", "+79995556677", now)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestRepository_StatsFollowBookings(t *testing.T) {
	repo, db := newRepoWithDB(t)
	ctx := context.Background()

	c, err := repo.UpsertByPhone(ctx, "Maria", "+79990001122", now)
	require.NoError(t, err)

	insertBooking(t, db, c.ID, "2025-03-05", "completed")
	insertBooking(t, db, c.ID, "2025-03-12", "completed")
	future := insertBooking(t, db, c.ID, "2025-04-01", "confirmed")
	insertBooking(t, db, c.ID, "2025-03-20", "cancelled")

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.BookingsCount)
	// будущая и отмененная записи визитом не считаются
	require.NotNil(t, got.LastVisit)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), *got.LastVisit)

	_, err = db.Exec(`DELETE FROM bookings WHERE id = ?`, future)
	require.NoError(t, err)

	listed, err := repo.List(ctx, "maria", 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 3, listed[0].BookingsCount)
}

func TestRepository_List(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for _, c := range []struct{ name, phone string }{
		{"Maria", "+79990001122"},
		{"Olga", "+79995556677"},
		{"Anna", "+79991112233"},
	} {
		_, err := repo.UpsertByPhone(ctx, c.name, c.phone, now)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Anna", all[0].Name)

	byName, err := repo.List(ctx, "olg", 0, 0)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Olga", byName[0].Name)

	byPhone, err := repo.List(ctx, "0001", 0, 0)
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Maria", byPhone[0].Name)

	page, err := repo.List(ctx, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Maria", page[0].Name)
}

func TestRepository_UpdateNotesAndDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	c, err := repo.UpsertByPhone(ctx, "Maria", "+79990001122", now)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateNotes(ctx, c.ID, ptr.Ptr("prefers Anna"), now))
	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "prefers Anna", *got.Notes)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrClientNotFound)
	assert.ErrorIs(t, repo.UpdateNotes(ctx, c.ID, nil, now), ErrClientNotFound)
}
