package service

import (
	"context"
	"time"

	"event-organizer/internal/ledger"
	"event-organizer/internal/model"
	"event-organizer/internal/queue"
	apperrors "event-organizer/pkg/app_errors"
	"event-organizer/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LedgerService interface {
	// 建立活動，回傳活動 ID
	CreateEvent(ctx context.Context, caller model.Account, req model.CreateEventRequest) (uint64, error)
	// 購票，付款金額須剛好等於 quantity × price
	BuyTicket(ctx context.Context, caller model.Account, eventID uint64, req model.BuyTicketRequest) error
	// 轉讓票券
	TransferTicket(ctx context.Context, caller model.Account, eventID uint64, req model.TransferTicketRequest) error
	GetEvent(ctx context.Context, eventID uint64) (*model.Event, error)
	GetOwnedTickets(ctx context.Context, account model.Account, eventID uint64) (uint64, error)
	GetNextID(ctx context.Context) uint64
	// 重送之前送隊列失敗的異動，回傳仍待送的筆數
	FlushPending(ctx context.Context) (int, error)
}

type LedgerServiceImpl struct {
	ledger *ledger.Ledger
	outbox *outbox
}

// NewLedgerService 要在帳本還原之後建立，outbox 從 LastSeq()+1 開始送
func NewLedgerService(ledger *ledger.Ledger, entryQueue queue.EntryQueue) LedgerService {
	return &LedgerServiceImpl{
		ledger: ledger,
		outbox: newOutbox(entryQueue, ledger.LastSeq()+1),
	}
}

func (s *LedgerServiceImpl) CreateEvent(ctx context.Context, caller model.Account, req model.CreateEventRequest) (uint64, error) {
	if caller == "" {
		return 0, apperrors.ErrMissingCaller
	}
	entry, err := s.ledger.CreateEvent(caller, req.Name, req.TicketCount, req.Price, time.Unix(req.Date, 0))
	if err != nil {
		return 0, err
	}
	s.publish(ctx, entry)
	return entry.EventID, nil
}

func (s *LedgerServiceImpl) BuyTicket(ctx context.Context, caller model.Account, eventID uint64, req model.BuyTicketRequest) error {
	if caller == "" {
		return apperrors.ErrMissingCaller
	}
	entry, err := s.ledger.BuyTicket(caller, eventID, req.Quantity, req.Payment)
	if err != nil {
		return err
	}
	s.publish(ctx, entry)
	return nil
}

func (s *LedgerServiceImpl) TransferTicket(ctx context.Context, caller model.Account, eventID uint64, req model.TransferTicketRequest) error {
	if caller == "" {
		return apperrors.ErrMissingCaller
	}
	entry, err := s.ledger.TransferTicket(caller, eventID, req.Quantity, req.To)
	if err != nil {
		return err
	}
	s.publish(ctx, entry)
	return nil
}

func (s *LedgerServiceImpl) GetEvent(ctx context.Context, eventID uint64) (*model.Event, error) {
	event, err := s.ledger.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *LedgerServiceImpl) GetOwnedTickets(ctx context.Context, account model.Account, eventID uint64) (uint64, error) {
	if _, err := s.ledger.GetEvent(eventID); err != nil {
		return 0, err
	}
	return s.ledger.GetOwnedTickets(account, eventID), nil
}

func (s *LedgerServiceImpl) GetNextID(ctx context.Context) uint64 {
	return s.ledger.GetNextID()
}

func (s *LedgerServiceImpl) FlushPending(ctx context.Context) (int, error) {
	pending, err := s.outbox.flush(ctx)
	if err != nil {
		logger.WithComponent("service").Warn("failed to flush pending ledger entries",
			zap.Int("pending", pending), zap.Error(err))
	}
	return pending, err
}

// publish 帳本已經提交，不能回滾；送不出去的異動留在 outbox 等下次重送
func (s *LedgerServiceImpl) publish(ctx context.Context, entry model.Entry) {
	entry.RequestID = uuid.New().String()
	s.outbox.add(entry)

	log := logger.WithComponent("service").With(
		zap.Uint64("seq", entry.Seq),
		zap.String("kind", string(entry.Kind)),
		zap.Uint64("event_id", entry.EventID),
		zap.String("request_id", entry.RequestID),
	)
	pending, err := s.outbox.flush(ctx)
	if err != nil {
		log.Error("failed to publish ledger entry, kept for retry", zap.Int("pending", pending), zap.Error(err))
		return
	}
	log.Debug("ledger entry published")
}
