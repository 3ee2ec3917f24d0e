package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := NewUserRepository(store)
	tx := NewTransactor(store)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := users.Create(ctx, user.User{ID: "u1", IsActive: true})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = users.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestTransactor_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := NewUserRepository(store)
	tx := NewTransactor(store)

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := users.Create(ctx, user.User{ID: "u1", IsActive: true})
			return err
		})
	})
	require.NoError(t, err)

	u, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.IsActive)
}

func TestRequestRepository_ClaimsAndRelease(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewRequestRepository(store)

	first := request.Request{
		ID: "r1", UserID: "u1", Kind: request.KindRemoteWork, Status: request.StatusPending,
		StartDate: date("2024-03-04"), EndDate: date("2024-03-06"),
		RemoteWork: &request.RemoteWork{RemoteType: request.RemoteTypeRemote},
	}
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	overlapping := first
	overlapping.ID = "r2"
	overlapping.StartDate, overlapping.EndDate = date("2024-03-06"), date("2024-03-07")
	_, err = repo.Create(ctx, overlapping)
	var conflict *request.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "r1", conflict.ExistingID)
	assert.Equal(t, date("2024-03-06"), conflict.Date)

	claims, err := repo.FindClaims(ctx, "u1", []request.Kind{request.KindRemoteWork, request.KindDayOff}, date("2024-03-05"), date("2024-03-10"))
	require.NoError(t, err)
	assert.Len(t, claims, 2)

	require.NoError(t, repo.ReleaseDates(ctx, "r1"))
	_, err = repo.Create(ctx, overlapping)
	assert.NoError(t, err)
}

func TestRequestRepository_SoftDeleteHides(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository(NewStore())

	_, err := repo.Create(ctx, request.Request{
		ID: "r1", UserID: "u1", Kind: request.KindOvertime, Status: request.StatusPending,
		StartDate: date("2024-03-04"), EndDate: date("2024-03-04"),
	})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, "r1", time.Now()))
	_, err = repo.GetByID(ctx, "r1")
	assert.ErrorIs(t, err, request.ErrRequestNotFound)

	items, total, err := repo.List(ctx, request.Filter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestShiftRepository_GetActiveForDate_LatestStartWins(t *testing.T) {
	ctx := context.Background()
	repo := NewShiftRepository(NewStore())
	end := date("2024-06-30")

	_, err := repo.Create(ctx, shift.WorkShift{ID: "old", StartDate: date("2024-01-01")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, shift.WorkShift{ID: "new", StartDate: date("2024-03-01"), EndDate: &end})
	require.NoError(t, err)

	s, err := repo.GetActiveForDate(ctx, date("2024-02-15"))
	require.NoError(t, err)
	assert.Equal(t, "old", s.ID)

	s, err = repo.GetActiveForDate(ctx, date("2024-03-15"))
	require.NoError(t, err)
	assert.Equal(t, "new", s.ID)

	s, err = repo.GetActiveForDate(ctx, date("2024-07-01"))
	require.NoError(t, err)
	assert.Equal(t, "old", s.ID)

	_, err = repo.GetActiveForDate(ctx, date("2023-12-31"))
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}
