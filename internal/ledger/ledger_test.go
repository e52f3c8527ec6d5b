package ledger_test

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"event-organizer/internal/clock"
	"event-organizer/internal/ledger"
	"event-organizer/internal/model"
	apperrors "event-organizer/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

const (
	alice model.Account = "0xA11CE"
	bob   model.Account = "0xB0B"
)

func newLedger() *ledger.Ledger {
	return ledger.New(clock.NewFixed(now))
}

func createEvent(t *testing.T, l *ledger.Ledger, count, price uint64) uint64 {
	t.Helper()
	entry, err := l.CreateEvent(alice, "Valid Event", count, price, now.Add(time.Hour))
	require.NoError(t, err)
	return entry.EventID
}

// 剩餘票數 + 所有持票數 == 總票數
func assertConservation(t *testing.T, l *ledger.Ledger, eventID uint64) {
	t.Helper()
	event, err := l.GetEvent(eventID)
	require.NoError(t, err)
	var held uint64
	for _, n := range l.Holders(eventID) {
		held += n
	}
	assert.Equal(t, event.TicketCount, event.TicketRemaining+held, "tickets must be conserved")
}

func TestLedger_Scenario(t *testing.T) {
	l := newLedger()
	x, y := model.Account("X"), model.Account("Y")

	entry, err := l.CreateEvent(alice, "Valid Event", 10, 1000, now.Add(3600*time.Second))
	require.NoError(t, err)
	id := entry.EventID

	event, err := l.GetEvent(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), event.TicketRemaining)

	_, err = l.BuyTicket(x, id, 5, 5000)
	require.NoError(t, err)
	event, _ = l.GetEvent(id)
	assert.Equal(t, uint64(5), event.TicketRemaining)
	assert.Equal(t, uint64(5), l.GetOwnedTickets(x, id))

	_, err = l.TransferTicket(x, id, 3, y)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), l.GetOwnedTickets(x, id))
	assert.Equal(t, uint64(3), l.GetOwnedTickets(y, id))
	assertConservation(t, l, id)
}

func TestLedger_CreateEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		l := newLedger()
		date := now.Add(time.Hour)

		before := l.GetNextID()
		entry, err := l.CreateEvent(alice, "Valid Event", 10, 1000, date)
		require.NoError(t, err)

		assert.Equal(t, before, entry.EventID)
		assert.Equal(t, before+1, l.GetNextID())
		assert.Equal(t, model.EntryKindCreated, entry.Kind)
		assert.Equal(t, uint64(1), entry.Seq)

		event, err := l.GetEvent(entry.EventID)
		require.NoError(t, err)
		assert.Equal(t, "Valid Event", event.Name)
		assert.Equal(t, uint64(10), event.TicketCount)
		assert.Equal(t, uint64(10), event.TicketRemaining)
		assert.Equal(t, uint64(1000), event.Price)
		assert.True(t, date.Equal(event.Date))
		assert.Equal(t, alice, event.Organizer)
	})

	t.Run("Ids are sequential from zero", func(t *testing.T) {
		l := newLedger()
		for i := uint64(0); i < 3; i++ {
			assert.Equal(t, i, createEvent(t, l, 1, 0))
		}
		assert.Equal(t, uint64(3), l.GetNextID())
	})

	t.Run("Failed - date in the past", func(t *testing.T) {
		l := newLedger()
		_, err := l.CreateEvent(alice, "Past Event", 10, 1000, time.Unix(10, 0))
		assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
		assert.Equal(t, uint64(0), l.GetNextID())
	})

	t.Run("Failed - date equals now", func(t *testing.T) {
		l := newLedger()
		_, err := l.CreateEvent(alice, "Now Event", 10, 1000, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
		assert.Equal(t, uint64(0), l.GetNextID())
	})

	t.Run("Failed - zero tickets", func(t *testing.T) {
		l := newLedger()
		_, err := l.CreateEvent(alice, "Invalid Event", 0, 1000, now.Add(time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrInvalidTicketCount)
		assert.Equal(t, uint64(0), l.GetNextID())
	})

	t.Run("Failed - date checked before ticket count", func(t *testing.T) {
		l := newLedger()
		_, err := l.CreateEvent(alice, "Invalid Event", 0, 1000, now.Add(-time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
	})

	t.Run("Failed - total ticket value overflows", func(t *testing.T) {
		l := newLedger()
		_, err := l.CreateEvent(alice, "Overflow Event", 2, 1<<63, now.Add(time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Equal(t, uint64(0), l.GetNextID())
		assert.Equal(t, uint64(0), l.LastSeq())
	})

	t.Run("Success - proceeds of a full sell-out fit", func(t *testing.T) {
		l := newLedger()
		price := uint64(math.MaxUint64 / 2)
		id := createEvent(t, l, 2, price)

		_, err := l.BuyTicket(bob, id, 1, price)
		require.NoError(t, err)
		_, err = l.BuyTicket(alice, id, 1, price)
		require.NoError(t, err)

		event, _ := l.GetEvent(id)
		assert.Equal(t, 2*price, event.Proceeds)
		assert.True(t, event.SoldOut())
	})

	t.Run("Date is checked against the current clock", func(t *testing.T) {
		clk := clock.NewManual(now)
		l := ledger.New(clk)
		date := now.Add(time.Hour)

		_, err := l.CreateEvent(alice, "Soon", 1, 0, date)
		require.NoError(t, err)

		clk.Advance(time.Hour)
		_, err = l.CreateEvent(alice, "Too Late", 1, 0, date)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
		assert.Equal(t, uint64(1), l.GetNextID())

		// 活動開始後仍可購票與轉讓
		_, err = l.BuyTicket(bob, 0, 1, 0)
		assert.NoError(t, err)
	})

	t.Run("Failed creation does not consume an id", func(t *testing.T) {
		l := newLedger()
		_, err := l.CreateEvent(alice, "Invalid Event", 0, 1000, now.Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, uint64(0), createEvent(t, l, 1, 0))
		assert.Equal(t, uint64(1), l.LastSeq())
	})
}

func TestLedger_BuyTicket(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 10, 1000)

		entry, err := l.BuyTicket(bob, id, 5, 5000)
		require.NoError(t, err)
		assert.Equal(t, model.EntryKindPurchased, entry.Kind)
		assert.Equal(t, uint64(5000), entry.Amount)

		event, _ := l.GetEvent(id)
		assert.Equal(t, uint64(5), event.TicketRemaining)
		assert.Equal(t, uint64(5000), event.Proceeds)
		assert.Equal(t, uint64(5), l.GetOwnedTickets(bob, id))
		assertConservation(t, l, id)
	})

	t.Run("Buys accumulate", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 10, 100)

		_, err := l.BuyTicket(bob, id, 3, 300)
		require.NoError(t, err)
		_, err = l.BuyTicket(bob, id, 7, 700)
		require.NoError(t, err)

		event, _ := l.GetEvent(id)
		assert.True(t, event.SoldOut())
		assert.Equal(t, uint64(10), l.GetOwnedTickets(bob, id))
	})

	t.Run("Free event", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 2, 0)
		_, err := l.BuyTicket(bob, id, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), l.GetOwnedTickets(bob, id))
	})

	t.Run("Zero quantity is a no-op", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 2, 100)
		_, err := l.BuyTicket(bob, id, 0, 0)
		require.NoError(t, err)
		event, _ := l.GetEvent(id)
		assert.Equal(t, uint64(2), event.TicketRemaining)
	})

	t.Run("Failed - unknown event", func(t *testing.T) {
		l := newLedger()
		_, err := l.BuyTicket(bob, 7, 1, 1000)
		assert.ErrorIs(t, err, apperrors.ErrUnknownEvent)
		assert.Equal(t, uint64(0), l.LastSeq())
	})

	for name, payment := range map[string]uint64{"underpayment": 5000, "overpayment": 10001} {
		t.Run("Failed - "+name, func(t *testing.T) {
			l := newLedger()
			id := createEvent(t, l, 10, 1000)

			_, err := l.BuyTicket(bob, id, 10, payment)
			assert.ErrorIs(t, err, apperrors.ErrIncorrectPayment)

			event, _ := l.GetEvent(id)
			assert.Equal(t, uint64(10), event.TicketRemaining)
			assert.Equal(t, uint64(0), event.Proceeds)
			assert.Equal(t, uint64(0), l.GetOwnedTickets(bob, id))
		})
	}

	t.Run("Failed - cost overflows", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 1, math.MaxUint64)
		_, err := l.BuyTicket(bob, id, 2, math.MaxUint64-1)
		assert.ErrorIs(t, err, apperrors.ErrIncorrectPayment)
	})

	t.Run("Failed - not enough remaining", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 10, 1000)

		_, err := l.BuyTicket(bob, id, 15, 15000)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientTickets)

		event, _ := l.GetEvent(id)
		assert.Equal(t, uint64(10), event.TicketRemaining)
		assert.Equal(t, uint64(0), l.GetOwnedTickets(bob, id))
		assertConservation(t, l, id)
	})

	t.Run("Failed - payment checked before supply", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 10, 1000)
		_, err := l.BuyTicket(bob, id, 15, 1)
		assert.ErrorIs(t, err, apperrors.ErrIncorrectPayment)
	})
}

func TestLedger_TransferTicket(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 10, 1000)
		_, err := l.BuyTicket(alice, id, 5, 5000)
		require.NoError(t, err)

		entry, err := l.TransferTicket(alice, id, 3, bob)
		require.NoError(t, err)
		assert.Equal(t, model.EntryKindTransferred, entry.Kind)
		assert.Equal(t, bob, entry.To)

		assert.Equal(t, uint64(2), l.GetOwnedTickets(alice, id))
		assert.Equal(t, uint64(3), l.GetOwnedTickets(bob, id))
		assertConservation(t, l, id)
	})

	t.Run("Self transfer keeps balance", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 10, 0)
		_, err := l.BuyTicket(alice, id, 4, 0)
		require.NoError(t, err)

		_, err = l.TransferTicket(alice, id, 4, alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), l.GetOwnedTickets(alice, id))
	})

	t.Run("Failed - unknown event", func(t *testing.T) {
		l := newLedger()
		_, err := l.TransferTicket(alice, 3, 1, bob)
		assert.ErrorIs(t, err, apperrors.ErrUnknownEvent)
	})

	t.Run("Failed - not enough owned", func(t *testing.T) {
		l := newLedger()
		id := createEvent(t, l, 10, 1000)

		_, err := l.TransferTicket(alice, id, 5, bob)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientOwnedTickets)
		assert.Equal(t, uint64(0), l.GetOwnedTickets(bob, id))
		assert.Equal(t, uint64(1), l.LastSeq())
	})

	t.Run("Failed - tickets of another event do not count", func(t *testing.T) {
		l := newLedger()
		first := createEvent(t, l, 10, 0)
		second := createEvent(t, l, 10, 0)
		_, err := l.BuyTicket(alice, first, 5, 0)
		require.NoError(t, err)

		_, err = l.TransferTicket(alice, second, 1, bob)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientOwnedTickets)
	})
}

func TestLedger_GetEvent_Unknown(t *testing.T) {
	l := newLedger()
	_, err := l.GetEvent(0)
	assert.ErrorIs(t, err, apperrors.ErrUnknownEvent)
	assert.Equal(t, uint64(0), l.GetOwnedTickets(alice, 0))
}

func TestLedger_GetEvent_ReturnsCopy(t *testing.T) {
	l := newLedger()
	id := createEvent(t, l, 10, 0)

	event, _ := l.GetEvent(id)
	event.TicketRemaining = 0

	stored, _ := l.GetEvent(id)
	assert.Equal(t, uint64(10), stored.TicketRemaining)
}

// 100 個使用者同時搶 10 張票，不可超賣
func TestLedger_ConcurrentBuy_NoOversell(t *testing.T) {
	l := newLedger()
	totalStock := uint64(10)
	id := createEvent(t, l, totalStock, 1000)

	concurrentUsers := 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount, failCount := 0, 0

	for i := 0; i < concurrentUsers; i++ {
		wg.Add(1)
		go func(userIndex int) {
			defer wg.Done()
			_, err := l.BuyTicket(model.Account(fmt.Sprintf("user-%d", userIndex)), id, 1, 1000)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successCount++
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrInsufficientTickets)
			failCount++
		}(i)
	}
	wg.Wait()

	event, _ := l.GetEvent(id)
	assert.Equal(t, int(totalStock), successCount)
	assert.Equal(t, concurrentUsers-int(totalStock), failCount)
	assert.Equal(t, uint64(0), event.TicketRemaining)
	assertConservation(t, l, id)
}

// 同時進行購買、轉讓與建立活動，序號必須連續且票數守恆
func TestLedger_ConcurrentMixed(t *testing.T) {
	l := newLedger()
	id := createEvent(t, l, 1000, 1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		buyer := model.Account(fmt.Sprintf("buyer-%d", i))
		go func() {
			defer wg.Done()
			if _, err := l.BuyTicket(buyer, id, 4, 4); err == nil {
				_, _ = l.TransferTicket(buyer, id, 2, bob)
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = l.TransferTicket(bob, id, 1, alice)
		}()
		go func() {
			defer wg.Done()
			_, _ = l.CreateEvent(alice, "side", 1, 0, now.Add(time.Minute))
		}()
	}
	wg.Wait()

	assertConservation(t, l, id)
	assert.Equal(t, uint64(51), l.GetNextID())
}

func TestLedger_ValueLimits(t *testing.T) {
	newLimited := func() *ledger.Ledger {
		return ledger.New(clock.NewFixed(now),
			ledger.WithMaxValue(math.MaxInt64),
			ledger.WithLatestDate(now.Add(24*time.Hour)),
		)
	}

	t.Run("Failed - price above limit", func(t *testing.T) {
		l := newLimited()
		_, err := l.CreateEvent(alice, "Expensive", 1, 1<<63, now.Add(time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Equal(t, uint64(0), l.LastSeq())
	})

	t.Run("Failed - ticket count above limit on a free event", func(t *testing.T) {
		l := newLimited()
		_, err := l.CreateEvent(alice, "Free", math.MaxUint64, 0, now.Add(time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - total value above limit", func(t *testing.T) {
		l := newLimited()
		_, err := l.CreateEvent(alice, "Big", 4, math.MaxInt64/2, now.Add(time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - date after latest", func(t *testing.T) {
		l := newLimited()
		_, err := l.CreateEvent(alice, "Far", 1, 0, now.Add(48*time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
	})

	t.Run("Failed - past date still reported first", func(t *testing.T) {
		l := newLimited()
		_, err := l.CreateEvent(alice, "Past", 0, 1<<63, now.Add(-time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
	})

	t.Run("Success - exactly at limit", func(t *testing.T) {
		l := newLimited()
		id := createEvent(t, l, 1, math.MaxInt64)
		_, err := l.BuyTicket(bob, id, 1, math.MaxInt64)
		require.NoError(t, err)
		event, _ := l.GetEvent(id)
		assert.Equal(t, uint64(math.MaxInt64), event.Proceeds)
	})
}
