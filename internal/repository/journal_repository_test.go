package repository_test

import (
	"context"
	"math"
	"testing"
	"time"

	"event-organizer/internal/model"
	"event-organizer/internal/repository"
	apperrors "event-organizer/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func sampleEntries() []*model.Entry {
	return []*model.Entry{
		{Seq: 1, RequestID: "req-1", Kind: model.EntryKindCreated, EventID: 0, Account: "alice", Quantity: 10, Name: "Valid Event", Price: 1000, Date: at.Add(time.Hour), At: at},
		{Seq: 2, Kind: model.EntryKindPurchased, EventID: 0, Account: "bob", Quantity: 5, Amount: 5000, At: at},
		{Seq: 3, Kind: model.EntryKindTransferred, EventID: 0, Account: "bob", To: "carol", Quantity: 3, At: at},
		{Seq: 4, Kind: model.EntryKindCreated, EventID: 1, Account: "bob", Quantity: 1, Name: "Second", Date: at.Add(2 * time.Hour), At: at},
	}
}

func TestJournalRepository_AppendAndList(t *testing.T) {
	db := setupTestWithTruncate(t)
	ctx := context.Background()
	repo := repository.NewJournalRepository(db)

	// 亂序寫入，List 仍依 seq 排序
	entries := sampleEntries()
	for _, i := range []int{2, 0, 3, 1} {
		require.NoError(t, repo.Append(ctx, entries[i]))
	}

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 4)
	for i, e := range listed {
		assert.Equal(t, uint64(i+1), e.Seq)
	}

	assert.Equal(t, "req-1", listed[0].RequestID)
	assert.Equal(t, model.EntryKindCreated, listed[0].Kind)
	assert.Equal(t, "Valid Event", listed[0].Name)
	assert.Equal(t, uint64(1000), listed[0].Price)
	assert.True(t, at.Add(time.Hour).Equal(listed[0].Date))
	assert.Equal(t, uint64(5000), listed[1].Amount)
	assert.Equal(t, model.Account("carol"), listed[2].To)
	assert.True(t, listed[1].Date.IsZero())
}

func TestJournalRepository_AppendIsIdempotent(t *testing.T) {
	db := setupTestWithTruncate(t)
	ctx := context.Background()
	repo := repository.NewJournalRepository(db)

	entry := sampleEntries()[0]
	require.NoError(t, repo.Append(ctx, entry))
	require.NoError(t, repo.Append(ctx, entry))

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestJournalRepository_Append_InvalidInput(t *testing.T) {
	db := setupTestWithTruncate(t)
	ctx := context.Background()
	repo := repository.NewJournalRepository(db)

	t.Run("Failed - unknown kind", func(t *testing.T) {
		err := repo.Append(ctx, &model.Entry{Seq: 1, Kind: "refunded"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - zero seq", func(t *testing.T) {
		err := repo.Append(ctx, &model.Entry{Kind: model.EntryKindPurchased})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - price overflows bigint", func(t *testing.T) {
		err := repo.Append(ctx, &model.Entry{Seq: 1, Kind: model.EntryKindCreated, Quantity: 1, Price: math.MaxUint64})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - date beyond storable range", func(t *testing.T) {
		err := repo.Append(ctx, &model.Entry{
			Seq: 1, Kind: model.EntryKindCreated, Quantity: 1,
			Date: repository.MaxEventDate.Add(time.Second),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestJournalRepository_ListByEventIDAndLastSeq(t *testing.T) {
	db := setupTestWithTruncate(t)
	ctx := context.Background()
	repo := repository.NewJournalRepository(db)

	seq, err := repo.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), seq)

	for _, e := range sampleEntries() {
		require.NoError(t, repo.Append(ctx, e))
	}

	byEvent, err := repo.ListByEventID(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, byEvent, 3)

	seq, err = repo.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), seq)
}
