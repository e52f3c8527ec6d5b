package ledger

import (
	"cmp"
	"fmt"
	"slices"

	"event-organizer/internal/model"
	apperrors "event-organizer/pkg/app_errors"
)

// Restore rebuilds an empty ledger from journal entries sorted by seq.
// Event dates are not re-checked against the clock; everything else is.
// On any failure the ledger is left empty.
func (l *Ledger) Restore(entries []*model.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seq != 0 || len(l.events) != 0 {
		return fmt.Errorf("%w: restore into non-empty ledger", apperrors.ErrJournalCorrupted)
	}

	if err := l.replay(entries); err != nil {
		l.events = nil
		l.owned = make(map[ownerKey]uint64)
		l.seq = 0
		return err
	}
	return nil
}

func (l *Ledger) replay(entries []*model.Entry) error {
	for _, e := range entries {
		if e.Seq != l.seq+1 {
			return fmt.Errorf("%w: expected seq %d, got %d", apperrors.ErrJournalCorrupted, l.seq+1, e.Seq)
		}

		switch e.Kind {
		case model.EntryKindCreated:
			if e.EventID != uint64(len(l.events)) {
				return fmt.Errorf("%w: seq %d creates event %d, next id is %d", apperrors.ErrJournalCorrupted, e.Seq, e.EventID, len(l.events))
			}
			if err := l.checkCreate(*e); err != nil {
				return fmt.Errorf("%w: seq %d: %v", apperrors.ErrJournalCorrupted, e.Seq, err)
			}
			l.applyCreate(*e)
		case model.EntryKindPurchased:
			if err := l.checkBuy(*e); err != nil {
				return fmt.Errorf("%w: seq %d: %v", apperrors.ErrJournalCorrupted, e.Seq, err)
			}
			l.applyBuy(*e)
		case model.EntryKindTransferred:
			if err := l.checkTransfer(*e); err != nil {
				return fmt.Errorf("%w: seq %d: %v", apperrors.ErrJournalCorrupted, e.Seq, err)
			}
			l.applyTransfer(*e)
		default:
			return fmt.Errorf("%w: seq %d has unknown kind %q", apperrors.ErrJournalCorrupted, e.Seq, e.Kind)
		}
		l.seq = e.Seq
	}
	return nil
}

// ContiguousSeq returns the highest seq n such that entries hold every seq 1..n.
// Entries must be sorted by seq.
func ContiguousSeq(entries []*model.Entry) uint64 {
	var seq uint64
	for _, e := range entries {
		if e.Seq > seq+1 {
			break
		}
		if e.Seq == seq+1 {
			seq = e.Seq
		}
	}
	return seq
}

// MergeEntries merges entry lists into one list sorted by seq.
// A seq found in several sources keeps the entry from the earliest source.
func MergeEntries(sources ...[]*model.Entry) []*model.Entry {
	bySeq := make(map[uint64]*model.Entry)
	for _, src := range sources {
		for _, e := range src {
			if _, ok := bySeq[e.Seq]; !ok {
				bySeq[e.Seq] = e
			}
		}
	}
	merged := make([]*model.Entry, 0, len(bySeq))
	for _, e := range bySeq {
		merged = append(merged, e)
	}
	slices.SortFunc(merged, func(a, b *model.Entry) int { return cmp.Compare(a.Seq, b.Seq) })
	return merged
}
