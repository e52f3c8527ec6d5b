package ledger

import (
	"fmt"
	"math"
	"math/bits"
	"sync"
	"time"

	"event-organizer/internal/clock"
	"event-organizer/internal/model"
	apperrors "event-organizer/pkg/app_errors"
)

type ownerKey struct {
	account model.Account
	eventID uint64
}

// Ledger 票務帳本：活動表、持票表與下一個活動 ID。
// 所有異動操作在同一把寫鎖內完成檢查與寫入，讀取使用讀鎖並回傳副本。
type Ledger struct {
	mu     sync.RWMutex
	clock  clock.Clock
	events []model.Event // index == event id
	owned  map[ownerKey]uint64
	seq    uint64

	maxValue   uint64    // 票數、單價與 ticketCount × price 的上限
	latestDate time.Time // 零值表示不限
}

// Option 調整帳本接受的數值範圍
type Option func(*Ledger)

// WithMaxValue 限制票數、單價與全部售出金額；之後所有數量、付款與 Proceeds 都不會超過 limit
func WithMaxValue(limit uint64) Option {
	return func(l *Ledger) { l.maxValue = limit }
}

// WithLatestDate 限制活動日期不得晚於 t
func WithLatestDate(t time.Time) Option {
	return func(l *Ledger) { l.latestDate = t.UTC() }
}

func New(clk clock.Clock, opts ...Option) *Ledger {
	if clk == nil {
		clk = clock.NewSystem()
	}
	l := &Ledger{
		clock:    clk,
		owned:    make(map[ownerKey]uint64),
		maxValue: math.MaxUint64,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateEvent 建立活動：
// 1. 日期必須晚於現在
// 2. 至少一張票
// 3. 票數、單價與全部售出金額 ticketCount × price 不能溢位，也不能超過 maxValue
func (l *Ledger) CreateEvent(caller model.Account, name string, ticketCount, price uint64, date time.Time) (model.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if !date.After(now) {
		return model.Entry{}, fmt.Errorf("%w: %s is not after %s", apperrors.ErrInvalidDate, date.UTC().Format(time.RFC3339), now.Format(time.RFC3339))
	}
	if !l.latestDate.IsZero() && date.After(l.latestDate) {
		return model.Entry{}, fmt.Errorf("%w: %s is after %s", apperrors.ErrInvalidDate, date.UTC().Format(time.RFC3339), l.latestDate.Format(time.RFC3339))
	}
	entry := model.Entry{
		Kind:     model.EntryKindCreated,
		EventID:  uint64(len(l.events)),
		Account:  caller,
		Quantity: ticketCount,
		Name:     name,
		Price:    price,
		Date:     date.UTC(),
		At:       now,
	}
	if err := l.checkCreate(entry); err != nil {
		return model.Entry{}, err
	}
	l.applyCreate(entry)
	return l.commit(entry), nil
}

// BuyTicket 購票：
// 1. 活動存在
// 2. 付款金額必須剛好等於 quantity × price（多付少付都拒絕）
// 3. 剩餘票數足夠
func (l *Ledger) BuyTicket(caller model.Account, eventID, quantity, payment uint64) (model.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := model.Entry{
		Kind:     model.EntryKindPurchased,
		EventID:  eventID,
		Account:  caller,
		Quantity: quantity,
		Amount:   payment,
		At:       l.clock.Now(),
	}
	if err := l.checkBuy(entry); err != nil {
		return model.Entry{}, err
	}
	l.applyBuy(entry)
	return l.commit(entry), nil
}

// TransferTicket 轉讓票券：
// 1. 活動存在
// 2. 轉出者持票數足夠
// 轉給自己與數量 0 都是合法的。
func (l *Ledger) TransferTicket(caller model.Account, eventID, quantity uint64, to model.Account) (model.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := model.Entry{
		Kind:     model.EntryKindTransferred,
		EventID:  eventID,
		Account:  caller,
		To:       to,
		Quantity: quantity,
		At:       l.clock.Now(),
	}
	if err := l.checkTransfer(entry); err != nil {
		return model.Entry{}, err
	}
	l.applyTransfer(entry)
	return l.commit(entry), nil
}

func (l *Ledger) GetEvent(eventID uint64) (model.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if eventID >= uint64(len(l.events)) {
		return model.Event{}, fmt.Errorf("%w: %d", apperrors.ErrUnknownEvent, eventID)
	}
	return l.events[eventID], nil
}

// GetOwnedTickets 沒有紀錄時回傳 0，不檢查活動是否存在
func (l *Ledger) GetOwnedTickets(account model.Account, eventID uint64) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.owned[ownerKey{account: account, eventID: eventID}]
}

func (l *Ledger) GetNextID() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.events))
}

// LastSeq 最後一筆已套用異動的序號，尚無異動時為 0
func (l *Ledger) LastSeq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.seq
}

// Holders 回傳某活動所有持票數大於 0 的帳號
func (l *Ledger) Holders(eventID uint64) map[model.Account]uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	holders := make(map[model.Account]uint64)
	for k, n := range l.owned {
		if k.eventID == eventID && n > 0 {
			holders[k.account] = n
		}
	}
	return holders
}

func (l *Ledger) lookup(eventID uint64) (*model.Event, error) {
	if eventID >= uint64(len(l.events)) {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrUnknownEvent, eventID)
	}
	return &l.events[eventID], nil
}

func (l *Ledger) checkCreate(e model.Entry) error {
	if e.Quantity < 1 {
		return apperrors.ErrInvalidTicketCount
	}
	if hi, total := bits.Mul64(e.Quantity, e.Price); hi != 0 || total > l.maxValue || e.Quantity > l.maxValue || e.Price > l.maxValue {
		return fmt.Errorf("%w: %d tickets x price %d exceeds %d", apperrors.ErrInvalidInput, e.Quantity, e.Price, l.maxValue)
	}
	return nil
}

func (l *Ledger) checkBuy(e model.Entry) error {
	event, err := l.lookup(e.EventID)
	if err != nil {
		return err
	}
	hi, cost := bits.Mul64(e.Quantity, event.Price)
	if hi != 0 || cost != e.Amount {
		return fmt.Errorf("%w: sent %d, want %d x %d", apperrors.ErrIncorrectPayment, e.Amount, e.Quantity, event.Price)
	}
	if e.Quantity > event.TicketRemaining {
		return fmt.Errorf("%w: requested %d, remaining %d", apperrors.ErrInsufficientTickets, e.Quantity, event.TicketRemaining)
	}
	return nil
}

func (l *Ledger) checkTransfer(e model.Entry) error {
	if _, err := l.lookup(e.EventID); err != nil {
		return err
	}
	if held := l.owned[ownerKey{account: e.Account, eventID: e.EventID}]; held < e.Quantity {
		return fmt.Errorf("%w: requested %d, owned %d", apperrors.ErrInsufficientOwnedTickets, e.Quantity, held)
	}
	return nil
}

func (l *Ledger) applyCreate(e model.Entry) {
	l.events = append(l.events, model.Event{
		ID:              e.EventID,
		Name:            e.Name,
		TicketCount:     e.Quantity,
		TicketRemaining: e.Quantity,
		Price:           e.Price,
		Date:            e.Date,
		Organizer:       e.Account,
	})
}

func (l *Ledger) applyBuy(e model.Entry) {
	event := &l.events[e.EventID]
	event.TicketRemaining -= e.Quantity
	event.Proceeds += e.Amount
	l.owned[ownerKey{account: e.Account, eventID: e.EventID}] += e.Quantity
}

func (l *Ledger) applyTransfer(e model.Entry) {
	l.owned[ownerKey{account: e.Account, eventID: e.EventID}] -= e.Quantity
	l.owned[ownerKey{account: e.To, eventID: e.EventID}] += e.Quantity
}

func (l *Ledger) commit(e model.Entry) model.Entry {
	l.seq++
	e.Seq = l.seq
	return e
}
