package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"event-organizer/internal/model"
	apperrors "event-organizer/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

// RedisEventInfo Redis 投影中的活動資訊
type RedisEventInfo struct {
	Name        string
	TicketCount int64
	Remaining   int64
	Price       int64
	Date        time.Time
	Organizer   model.Account
	Proceeds    int64
}

type RedisEventProjection interface {
	// 套用：把一筆帳本異動套用到 Redis (使用Lua腳本確保原子性，依 seq 去重)
	Apply(ctx context.Context, entry *model.Entry) error
	// 獲取：獲取活動資訊
	GetInfo(ctx context.Context, eventID uint64) (RedisEventInfo, error)
	// 獲取：獲取帳號持票數
	GetOwned(ctx context.Context, account model.Account, eventID uint64) (int64, error)
}

type RedisEventProjectionImpl struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisEventProjection(client *redis.Client) RedisEventProjection {
	return &RedisEventProjectionImpl{
		client:    client,
		keyPrefix: "ledger",
	}
}

// 活動資訊 key
func (p *RedisEventProjectionImpl) getInfoKey(eventID uint64) string {
	return fmt.Sprintf("%s:event:%d:info", p.keyPrefix, eventID)
}

// 持票紀錄的 key
func (p *RedisEventProjectionImpl) getOwnersKey(eventID uint64) string {
	return fmt.Sprintf("%s:event:%d:owners", p.keyPrefix, eventID)
}

// 已套用 seq 的集合
func (p *RedisEventProjectionImpl) getAppliedKey() string {
	return fmt.Sprintf("%s:applied", p.keyPrefix)
}

// 只用 HINCRBY 累加，異動亂序抵達時結果仍一致
var applyScript = redis.NewScript(`
	-- 1. 取得參數
	local info_key = KEYS[1]
	local owners_key = KEYS[2]
	local applied_key = KEYS[3]

	local seq = ARGV[1]
	local kind = ARGV[2]
	local qty = ARGV[3]
	local amount = ARGV[4]
	local account = ARGV[5]
	local to = ARGV[6]
	local neg_qty = '-' .. qty
	if qty == '0' then
		neg_qty = '0'
	end

	-- 2. 依 seq 去重
	if redis.call('SADD', applied_key, seq) == 0 then
		return 0
	end

	-- 3. 依類型套用
	if kind == 'created' then
		redis.call('HSET', info_key,
			'name', ARGV[7],
			'price', ARGV[8],
			'date', ARGV[9],
			'organizer', account,
			'ticket_count', qty)
		redis.call('HINCRBY', info_key, 'remaining', qty)
	elseif kind == 'purchased' then
		redis.call('HINCRBY', info_key, 'remaining', neg_qty)
		redis.call('HINCRBY', info_key, 'proceeds', amount)
		redis.call('HINCRBY', owners_key, account, qty)
	elseif kind == 'transferred' then
		redis.call('HINCRBY', owners_key, account, neg_qty)
		redis.call('HINCRBY', owners_key, to, qty)
	else
		redis.call('SREM', applied_key, seq)
		return -1
	end

	return 1
`)

func (p *RedisEventProjectionImpl) Apply(ctx context.Context, entry *model.Entry) error {
	keys := []string{p.getInfoKey(entry.EventID), p.getOwnersKey(entry.EventID), p.getAppliedKey()}
	var date int64
	if !entry.Date.IsZero() {
		date = entry.Date.Unix()
	}

	code, err := applyScript.Run(ctx, p.client, keys,
		entry.Seq, string(entry.Kind), entry.Quantity, entry.Amount,
		string(entry.Account), string(entry.To), entry.Name, entry.Price, date,
	).Int()
	if err != nil {
		return err
	}
	if code < 0 {
		return fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrInvalidInput, entry.Kind)
	}
	return nil
}

func (p *RedisEventProjectionImpl) GetInfo(ctx context.Context, eventID uint64) (RedisEventInfo, error) {
	result, err := p.client.HGetAll(ctx, p.getInfoKey(eventID)).Result()
	if err != nil {
		return RedisEventInfo{}, err
	}

	// 檢查活動是否已建立（購票異動可能比建立異動先抵達）
	if _, ok := result["ticket_count"]; !ok {
		return RedisEventInfo{}, apperrors.ErrUnknownEvent
	}

	ints := make(map[string]int64, 5)
	for _, field := range []string{"ticket_count", "remaining", "price", "date", "proceeds"} {
		raw, ok := result[field]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return RedisEventInfo{}, fmt.Errorf("invalid %s: %v", field, err)
		}
		ints[field] = n
	}

	return RedisEventInfo{
		Name:        result["name"],
		TicketCount: ints["ticket_count"],
		Remaining:   ints["remaining"],
		Price:       ints["price"],
		Date:        time.Unix(ints["date"], 0).UTC(),
		Organizer:   model.Account(result["organizer"]),
		Proceeds:    ints["proceeds"],
	}, nil
}

func (p *RedisEventProjectionImpl) GetOwned(ctx context.Context, account model.Account, eventID uint64) (int64, error) {
	owned, err := p.client.HGet(ctx, p.getOwnersKey(eventID), string(account)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return owned, err
}
