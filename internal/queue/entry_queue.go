package queue

import (
	"context"
	"time"

	"event-organizer/internal/model"
)

type Delivery struct {
	Data *model.Entry
	Ack  func()
	Nack func(requeue bool)
}

type EntryQueue interface {
	// 發送帳本異動到隊列
	PublishEntry(ctx context.Context, entry *model.Entry) error
	// 訂閱帳本異動隊列
	SubscribeEntries(ctx context.Context) (<-chan Delivery, error)
}

// EntryBacklog 可依 seq 讀回已發送異動的隊列（Redis Stream 版）
type EntryBacklog interface {
	Backlog(ctx context.Context, afterSeq uint64) ([]*model.Entry, error)
}

// DefaultRequeueDelay Nack(requeue) 後重新投遞前的等待時間
const DefaultRequeueDelay = 200 * time.Millisecond

type EntryQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch           chan *model.Entry
	requeueDelay time.Duration
}

func NewEntryQueue(bufferSize int) EntryQueue {
	return NewEntryQueueWithRequeueDelay(bufferSize, DefaultRequeueDelay)
}

func NewEntryQueueWithRequeueDelay(bufferSize int, delay time.Duration) EntryQueue {
	return &EntryQueueImpl{
		ch:           make(chan *model.Entry, bufferSize),
		requeueDelay: delay,
	}
}

func (q *EntryQueueImpl) PublishEntry(ctx context.Context, entry *model.Entry) error {
	select {
	case q.ch <- entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *EntryQueueImpl) SubscribeEntries(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-q.ch:
				if !ok {
					return
				}

				// 將原始 Entry 包裝成 Delivery 格式給 Worker
				d := Delivery{
					Data: entry,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							// 不能在投遞迴圈內阻塞，改用 goroutine 延遲後重回隊列
							go func() {
								select {
								case <-time.After(q.requeueDelay):
								case <-ctx.Done():
									return
								}
								select {
								case q.ch <- entry:
								case <-ctx.Done():
								}
							}()
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
