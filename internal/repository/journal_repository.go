package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"event-organizer/internal/model"
	apperrors "event-organizer/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// journal 欄位的可儲存範圍，帳本要用同樣的上限（ledger.WithMaxValue、ledger.WithLatestDate）
const MaxStoredValue = math.MaxInt64

var MaxEventDate = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

type JournalRepository interface {
	// Append 寫入一筆異動；相同 seq 重複寫入時忽略（worker 重試時保持冪等）
	Append(ctx context.Context, entry *model.Entry) error
	// List 依 seq 由小到大列出所有異動，供啟動時重播
	List(ctx context.Context) ([]*model.Entry, error)
	ListByEventID(ctx context.Context, eventID uint64) ([]*model.Entry, error)
	LastSeq(ctx context.Context) (uint64, error)
}

type JournalRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewJournalRepository(pool *pgxpool.Pool) JournalRepository {
	return &JournalRepositoryImpl{
		pool: pool,
	}
}

const journalColumns = `seq, request_id, kind, event_id, account, to_account,
		quantity, amount, name, price, event_date, applied_at`

func (r *JournalRepositoryImpl) Append(ctx context.Context, entry *model.Entry) error {
	if !entry.Kind.IsValid() || entry.Seq == 0 {
		return apperrors.ErrInvalidInput
	}
	for _, v := range []uint64{entry.Seq, entry.EventID, entry.Quantity, entry.Amount, entry.Price} {
		if v > MaxStoredValue {
			return fmt.Errorf("%w: value %d does not fit bigint", apperrors.ErrInvalidInput, v)
		}
	}

	if entry.Date.After(MaxEventDate) {
		return fmt.Errorf("%w: date %s out of range", apperrors.ErrInvalidInput, entry.Date.Format(time.RFC3339))
	}

	var eventDate *time.Time
	if !entry.Date.IsZero() {
		eventDate = &entry.Date
	}

	query := `
		INSERT INTO ledger_journal (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (seq) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		int64(entry.Seq), entry.RequestID, string(entry.Kind), int64(entry.EventID),
		string(entry.Account), string(entry.To),
		int64(entry.Quantity), int64(entry.Amount), entry.Name, int64(entry.Price),
		eventDate, entry.At,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry %d: %w", entry.Seq, err)
	}
	return nil
}

func (r *JournalRepositoryImpl) List(ctx context.Context) ([]*model.Entry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM ledger_journal
		ORDER BY seq ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *JournalRepositoryImpl) ListByEventID(ctx context.Context, eventID uint64) ([]*model.Entry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM ledger_journal
		WHERE event_id = $1
		ORDER BY seq ASC
	`
	rows, err := r.pool.Query(ctx, query, int64(eventID))
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *JournalRepositoryImpl) LastSeq(ctx context.Context) (uint64, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(seq), 0) FROM ledger_journal`).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return uint64(seq), nil
}

func scanEntries(rows pgx.Rows) ([]*model.Entry, error) {
	defer rows.Close()

	entries := make([]*model.Entry, 0)
	for rows.Next() {
		var entry model.Entry
		var seq, eventID, quantity, amount, price int64
		var kind, account, to string
		var eventDate *time.Time
		err := rows.Scan(
			&seq,
			&entry.RequestID,
			&kind,
			&eventID,
			&account,
			&to,
			&quantity,
			&amount,
			&entry.Name,
			&price,
			&eventDate,
			&entry.At,
		)
		if err != nil {
			return nil, err
		}
		entry.Seq = uint64(seq)
		entry.Kind = model.EntryKind(kind)
		entry.EventID = uint64(eventID)
		entry.Account = model.Account(account)
		entry.To = model.Account(to)
		entry.Quantity = uint64(quantity)
		entry.Amount = uint64(amount)
		entry.Price = uint64(price)
		if eventDate != nil {
			entry.Date = eventDate.UTC()
		}
		entry.At = entry.At.UTC()
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
