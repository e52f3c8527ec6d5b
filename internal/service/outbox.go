package service

import (
	"context"
	"sync"
	"time"

	"event-organizer/internal/model"
	"event-organizer/internal/queue"
)

const publishTimeout = 5 * time.Second

// outbox 保存已提交但尚未送進隊列的異動，依 seq 由小到大送出。
// 某筆送出失敗時，它與之後的異動都留在 outbox，下次 flush 從同一筆重試，
// 隊列因此收到不跳號、不亂序的 seq。
type outbox struct {
	queue queue.EntryQueue

	mu      sync.Mutex
	pending map[uint64]model.Entry
	next    uint64 // 下一筆要送出的 seq

	flushMu sync.Mutex
}

func newOutbox(q queue.EntryQueue, next uint64) *outbox {
	return &outbox{
		queue:   q,
		pending: make(map[uint64]model.Entry),
		next:    next,
	}
}

func (o *outbox) add(entry model.Entry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[entry.Seq] = entry
}

func (o *outbox) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// peek 回傳下一筆可送出的異動；前一個 seq 還沒加入時回傳 false
func (o *outbox) peek() (model.Entry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry, ok := o.pending[o.next]
	return entry, ok
}

func (o *outbox) done(seq uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.pending, seq)
	o.next = seq + 1
}

// flush 依序送出所有可送出的異動，回傳仍待送的筆數
func (o *outbox) flush(ctx context.Context) (int, error) {
	o.flushMu.Lock()
	defer o.flushMu.Unlock()

	for {
		entry, ok := o.peek()
		if !ok {
			return o.len(), nil
		}

		// 用戶斷線不應讓已提交的異動漏送，所以不跟隨請求的 ctx 取消
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		err := o.queue.PublishEntry(pubCtx, &entry)
		cancel()
		if err != nil {
			return o.len(), err
		}
		o.done(entry.Seq)
	}
}
