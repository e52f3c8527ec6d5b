package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"event-organizer/internal/model"
	apperrors "event-organizer/pkg/app_errors"
	"event-organizer/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "ledger:entries"
	DeadLetterSuffix   = ":dead"
	ConsumerGroupName  = "journal-workers"
	ConsumerNamePrefix = "worker"

	backlogPageSize = 500
)

// RedisStreamEntryQueueConfig 可注入的逾時與重試設定；nil 或零值時使用預設。
type RedisStreamEntryQueueConfig struct {
	StreamKey          string        // 空字串時使用 StreamKey
	ClaimMinIdleTime   time.Duration // PEL 中超過此時間才被 XAUTOCLAIM 領取
	MaxRetryCount      int           // 超過此次數轉入死信 stream
	ReadGroupBlockTime time.Duration // XReadGroup 阻塞時間
}

func defaultRedisStreamConfig() RedisStreamEntryQueueConfig {
	return RedisStreamEntryQueueConfig{
		StreamKey:          StreamKey,
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

// RedisStreamEntryQueueImpl 以帳本 seq 當 stream ID（"<seq>-0"）：
// stream 本身就是照 seq 排序、不重複的異動紀錄，可以從任一 seq 之後讀回。
type RedisStreamEntryQueueImpl struct {
	client       *redis.Client
	streamKey    string
	deadKey      string
	groupName    string
	consumerName string
	cfg          RedisStreamEntryQueueConfig
}

// NewRedisStreamEntryQueue 建立 Redis Stream 版 EntryQueue。config 可為 nil，則使用預設逾時與重試次數。
func NewRedisStreamEntryQueue(client *redis.Client, consumerID string, config *RedisStreamEntryQueueConfig) (EntryQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.StreamKey != "" {
			cfg.StreamKey = config.StreamKey
		}
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
	}
	q := &RedisStreamEntryQueueImpl{
		client:       client,
		streamKey:    cfg.StreamKey,
		deadKey:      cfg.StreamKey + DeadLetterSuffix,
		groupName:    ConsumerGroupName,
		consumerName: fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:          cfg,
	}
	err := client.XGroupCreateMkStream(context.Background(), q.streamKey, q.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func streamID(seq uint64) string {
	return strconv.FormatUint(seq, 10) + "-0"
}

func seqFromID(id string) (uint64, error) {
	ms, _, ok := strings.Cut(id, "-")
	if !ok {
		return 0, fmt.Errorf("malformed stream id %q", id)
	}
	return strconv.ParseUint(ms, 10, 64)
}

// PublishEntry 以 seq 為 ID 寫入。同一個 seq 已存在時：request id 相同表示是重送，視為成功；
// 不同則是另一份帳本寫過這個 seq，回傳 ErrSeqConflict。
func (q *RedisStreamEntryQueueImpl) PublishEntry(ctx context.Context, entry *model.Entry) error {
	if entry.Seq == 0 {
		return fmt.Errorf("%w: entry without seq", apperrors.ErrInvalidInput)
	}
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		ID:     streamID(entry.Seq),
		Values: map[string]interface{}{
			"entry":      string(entryJSON),
			"request_id": entry.RequestID,
		},
	}).Err()
	if err == nil {
		return nil
	}
	if !strings.Contains(err.Error(), "equal or smaller") {
		return fmt.Errorf("xadd seq %d: %w", entry.Seq, err)
	}

	existing, rangeErr := q.client.XRange(ctx, q.streamKey, streamID(entry.Seq), streamID(entry.Seq)).Result()
	if rangeErr != nil {
		return fmt.Errorf("xrange seq %d: %w", entry.Seq, rangeErr)
	}
	if len(existing) == 1 && existing[0].Values["request_id"] == entry.RequestID {
		return nil
	}
	return fmt.Errorf("%w: stream %s already past seq %d", apperrors.ErrSeqConflict, q.streamKey, entry.Seq)
}

// Backlog 讀回 seq 大於 afterSeq 的所有異動（不論是否已 Ack），依 seq 排序。
// 啟動時用來補齊 journal 還沒寫到的部分。
func (q *RedisStreamEntryQueueImpl) Backlog(ctx context.Context, afterSeq uint64) ([]*model.Entry, error) {
	entries := make([]*model.Entry, 0)
	start := streamID(afterSeq + 1)
	for {
		msgs, err := q.client.XRangeN(ctx, q.streamKey, start, "+", backlogPageSize).Result()
		if err != nil {
			return nil, fmt.Errorf("xrange backlog: %w", err)
		}
		for _, msg := range msgs {
			entry, err := decodeMessage(msg)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrJournalCorrupted, err)
			}
			entries = append(entries, entry)
		}
		if len(msgs) < backlogPageSize {
			return entries, nil
		}
		start = "(" + msgs[len(msgs)-1].ID
	}
}

// decodeMessage 解析訊息並確認內容的 seq 與 stream ID 一致
func decodeMessage(msg redis.XMessage) (*model.Entry, error) {
	raw, ok := msg.Values["entry"].(string)
	if !ok {
		return nil, fmt.Errorf("message %s: missing entry field", msg.ID)
	}
	var entry model.Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}
	seq, err := seqFromID(msg.ID)
	if err != nil {
		return nil, err
	}
	if seq != entry.Seq {
		return nil, fmt.Errorf("message %s carries seq %d", msg.ID, entry.Seq)
	}
	return &entry, nil
}

func (q *RedisStreamEntryQueueImpl) SubscribeEntries(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		go q.claimLoop(ctx, out)
		for ctx.Err() == nil {
			q.readNew(ctx, out)
		}
	}()
	return out, nil
}

// readNew 只讀 ">"（新訊息）；Pending 的訊息交給 claimLoop 超時後領回重試。
func (q *RedisStreamEntryQueueImpl) readNew(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: q.consumerName,
		Streams:  []string{q.streamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()
	if err == redis.Nil || ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.WithComponent("mq").Error("XReadGroup failed", zap.Error(err))
		time.Sleep(time.Second)
		return
	}
	for _, stream := range streams {
		if !q.deliver(ctx, out, stream.Messages, false) {
			return
		}
	}
}

// claimLoop 定時用 XAUTOCLAIM 領取超時未 Ack 的消息
func (q *RedisStreamEntryQueueImpl) claimLoop(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	start := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		claimed, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   q.streamKey,
			Group:    q.groupName,
			Consumer: q.consumerName,
			MinIdle:  q.cfg.ClaimMinIdleTime,
			Count:    10,
			Start:    start,
		}).Result()
		if err != nil && err != redis.Nil {
			if ctx.Err() != nil {
				return
			}
			logger.WithComponent("mq").Error("XAutoClaim failed", zap.Error(err))
			continue
		}
		start = next
		if start == "" {
			start = "0-0"
		}
		if !q.deliver(ctx, out, claimed, true) {
			return
		}
	}
}

// deliver 投遞一批消息；ctx 取消時回傳 false
func (q *RedisStreamEntryQueueImpl) deliver(ctx context.Context, out chan<- Delivery, msgs []redis.XMessage, claimed bool) bool {
	for _, msg := range msgs {
		entry, err := decodeMessage(msg)
		if err != nil {
			q.deadLetter(ctx, msg, err.Error())
			continue
		}
		if claimed {
			if retries := q.retryCount(ctx, msg.ID); retries >= q.cfg.MaxRetryCount {
				q.deadLetter(ctx, msg, fmt.Sprintf("exceeded %d deliveries", retries))
				continue
			}
		}
		select {
		case out <- q.newDelivery(ctx, msg, entry):
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func (q *RedisStreamEntryQueueImpl) retryCount(ctx context.Context, messageID string) int {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		return 0
	}
	return int(pending[0].RetryCount)
}

// deadLetter 把消息複製到死信 stream 再 Ack。原消息留在主 stream，Backlog 仍讀得到。
func (q *RedisStreamEntryQueueImpl) deadLetter(ctx context.Context, msg redis.XMessage, reason string) {
	log := logger.WithComponent("mq").With(zap.String("message_id", msg.ID), zap.String("reason", reason))
	values := map[string]interface{}{
		"message_id": msg.ID,
		"reason":     reason,
	}
	if raw, ok := msg.Values["entry"].(string); ok {
		values["entry"] = raw
	}
	if err := q.client.XAdd(ctx, &redis.XAddArgs{Stream: q.deadKey, Values: values}).Err(); err != nil {
		// 死信沒寫成就不 Ack，留在 PEL 等下次領回
		log.Error("dead-letter failed", zap.Error(err))
		return
	}
	if err := q.client.XAck(ctx, q.streamKey, q.groupName, msg.ID).Err(); err != nil {
		log.Error("XAck dead letter failed", zap.Error(err))
	}
	log.Error("entry moved to dead-letter stream", zap.String("dead_letter_stream", q.deadKey))
}

func (q *RedisStreamEntryQueueImpl) newDelivery(ctx context.Context, msg redis.XMessage, entry *model.Entry) Delivery {
	log := logger.WithComponent("mq").With(zap.String("message_id", msg.ID), zap.Uint64("seq", entry.Seq))
	return Delivery{
		Data: entry,
		Ack: func() {
			if err := q.client.XAck(ctx, q.streamKey, q.groupName, msg.ID).Err(); err != nil {
				log.Error("XAck failed", zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// 消息留在 PEL，等 ClaimMinIdleTime 後由 XAUTOCLAIM 領取，形成延遲重試
				log.Info("message nack(requeue), will retry", zap.Duration("claim_min_idle", q.cfg.ClaimMinIdleTime))
				return
			}
			q.deadLetter(ctx, msg, "rejected by consumer")
		},
	}
}
