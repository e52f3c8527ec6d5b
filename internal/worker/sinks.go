package worker

import (
	"context"

	"event-organizer/internal/cache"
	"event-organizer/internal/model"
	"event-organizer/internal/repository"
)

type journalSink struct {
	repo repository.JournalRepository
}

// NewJournalSink 把異動寫入 Postgres journal
func NewJournalSink(repo repository.JournalRepository) EntrySink {
	return journalSink{repo: repo}
}

func (s journalSink) Name() string { return "journal" }

func (s journalSink) Apply(ctx context.Context, entry *model.Entry) error {
	return s.repo.Append(ctx, entry)
}

type projectionSink struct {
	projection cache.RedisEventProjection
}

// NewProjectionSink 把異動投影到 Redis
func NewProjectionSink(projection cache.RedisEventProjection) EntrySink {
	return projectionSink{projection: projection}
}

func (s projectionSink) Name() string { return "projection" }

func (s projectionSink) Apply(ctx context.Context, entry *model.Entry) error {
	return s.projection.Apply(ctx, entry)
}

type logSink struct{}

// NewLogSink 只記錄異動，journal 與投影都關閉時使用
func NewLogSink() EntrySink {
	return logSink{}
}

func (logSink) Name() string { return "log" }

func (logSink) Apply(ctx context.Context, entry *model.Entry) error {
	logEntry(entry)
	return nil
}
