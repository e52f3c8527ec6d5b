package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-organizer/internal/model"
	"event-organizer/internal/queue"
	apperrors "event-organizer/pkg/app_errors"
	"event-organizer/pkg/logger"

	"go.uber.org/zap"
)

// EntrySink 帳本異動的落地目標（Postgres journal、Redis 投影），必須依 seq 冪等
type EntrySink interface {
	Name() string
	Apply(ctx context.Context, entry *model.Entry) error
}

type JournalWorker interface {
	// 訂閱帳本異動隊列，回傳的 channel 在訂閱結束後關閉
	Start(ctx context.Context) (<-chan struct{}, error)
}

const (
	retryDelay    = 100 * time.Millisecond
	maxRetryDelay = 5 * time.Second
)

type JournalWorkerImpl struct {
	queue queue.EntryQueue
	sinks []EntrySink
}

func NewJournalWorker(queue queue.EntryQueue, sinks ...EntrySink) JournalWorker {
	return &JournalWorkerImpl{
		queue: queue,
		sinks: sinks,
	}
}

func (w *JournalWorkerImpl) Start(ctx context.Context) (<-chan struct{}, error) {
	msgs, err := w.queue.SubscribeEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscribe entries: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return done, nil
}

// handle 處理完一筆才取下一筆，journal 因此照 seq 順序寫入。
// 暫時性錯誤原地退避重試；sink 判定為無效輸入的異動不會成功，轉入死信。
func (w *JournalWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	log := logger.WithComponent("worker").With(
		zap.Uint64("seq", msg.Data.Seq), zap.String("kind", string(msg.Data.Kind)))

	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := w.dispatch(ctx, msg.Data)
		if err == nil {
			msg.Ack()
			return
		}
		if errors.Is(err, apperrors.ErrInvalidInput) {
			log.Error("entry rejected by sink, dead-lettered", zap.Any("entry", msg.Data), zap.Error(err))
			msg.Nack(false)
			return
		}

		log.Warn("dispatch entry failed, retrying", zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
		select {
		case <-ctx.Done():
			msg.Nack(true)
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// dispatch 依序套用到所有 sink；sink 依 seq 冪等，所以重試時整筆重跑即可
func (w *JournalWorkerImpl) dispatch(ctx context.Context, entry *model.Entry) error {
	for _, sink := range w.sinks {
		if err := sink.Apply(ctx, entry); err != nil {
			return fmt.Errorf("%s: %w", sink.Name(), err)
		}
	}
	return nil
}

func logEntry(entry *model.Entry) {
	log := logger.WithComponent("worker").With(
		zap.Uint64("seq", entry.Seq),
		zap.String("kind", string(entry.Kind)),
		zap.Uint64("event_id", entry.EventID),
		zap.String("account", string(entry.Account)),
	)
	switch entry.Kind {
	case model.EntryKindCreated:
		log.Info("event created", zap.String("name", entry.Name), zap.Uint64("ticket_count", entry.Quantity))
	case model.EntryKindPurchased:
		log.Info("tickets purchased", zap.Uint64("quantity", entry.Quantity), zap.Uint64("amount", entry.Amount))
	case model.EntryKindTransferred:
		log.Info("tickets transferred", zap.Uint64("quantity", entry.Quantity), zap.String("to", string(entry.To)))
	}
}
