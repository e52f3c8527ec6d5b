package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"event-organizer/config"
	"event-organizer/internal/cache"
	"event-organizer/internal/clock"
	"event-organizer/internal/database"
	"event-organizer/internal/handler"
	"event-organizer/internal/ledger"
	"event-organizer/internal/model"
	"event-organizer/internal/queue"
	"event-organizer/internal/repository"
	"event-organizer/internal/service"
	"event-organizer/internal/worker"
	"event-organizer/migrations"
	"event-organizer/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const flushInterval = time.Second

func main() {
	cfg := config.LoadConfig()
	log := logger.WithComponent("main")
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Warn("invalid LOG_LEVEL, keep default", zap.String("level", cfg.Log.Level), zap.Error(err))
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Journal.NeedsRedis() {
		var err error
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	var entryQueue queue.EntryQueue
	switch cfg.Journal.Queue {
	case config.QueueDriverRedis:
		var err error
		entryQueue, err = queue.NewRedisStreamEntryQueue(rdb, cfg.Journal.ConsumerID, nil)
		if err != nil {
			log.Fatal("Failed to initialize redis stream queue", zap.Error(err))
		}
	case config.QueueDriverMemory:
		entryQueue = queue.NewEntryQueue(cfg.Journal.BufferSize)
	default:
		log.Fatal("Unknown JOURNAL_QUEUE", zap.String("queue", string(cfg.Journal.Queue)))
	}

	// 帳本的數值與日期上限跟 journal 欄位一致，寫不進 journal 的異動在提交前就被拒絕
	l := ledger.New(clock.NewSystem(),
		ledger.WithMaxValue(repository.MaxStoredValue),
		ledger.WithLatestDate(repository.MaxEventDate),
	)
	var sinks []worker.EntrySink
	var journalRepo repository.JournalRepository

	if cfg.Journal.Enabled {
		pool, err := database.InitDatabase(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer pool.Close()

		if err := migrations.Apply(ctx, pool); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}

		journalRepo = repository.NewJournalRepository(pool)
		sinks = append(sinks, worker.NewJournalSink(journalRepo))
	}
	if err := restoreLedger(ctx, l, journalRepo, entryQueue); err != nil {
		log.Fatal("Failed to restore ledger", zap.Error(err))
	}

	if cfg.Journal.Projection {
		sinks = append(sinks, worker.NewProjectionSink(cache.NewRedisEventProjection(rdb)))
	}
	if len(sinks) == 0 {
		sinks = append(sinks, worker.NewLogSink())
	}

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	workerDone, err := worker.NewJournalWorker(entryQueue, sinks...).Start(workerCtx)
	if err != nil {
		log.Fatal("Failed to start journal worker", zap.Error(err))
	}

	// 必須在還原之後建立，outbox 從 LastSeq()+1 開始送
	ledgerService := service.NewLedgerService(l, entryQueue)
	go flushLoop(ctx, ledgerService)

	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	handler.NewLedgerHandler(ledgerService).RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server shutdown error", zap.Error(err))
	}

	if pending, err := ledgerService.FlushPending(shutdownCtx); err != nil {
		log.Error("unpublished ledger entries at shutdown", zap.Int("pending", pending), zap.Error(err))
	}

	// HTTP 停止後保留一秒讓 worker 消化隊列
	select {
	case <-time.After(time.Second):
	case <-shutdownCtx.Done():
	}
	cancelWorker()
	<-workerDone
	log.Info("server stopped", zap.Uint64("last_seq", l.LastSeq()))
}

// restoreLedger 從 journal 重播帳本。journal 落後於隊列時（worker 尚未寫入），
// 用隊列保留的異動補齊後重播，並把補上的部分寫回 journal。
// journalRepo 為 nil 時只從隊列還原；兩者都沒有則帳本從空白開始。
func restoreLedger(ctx context.Context, l *ledger.Ledger, journalRepo repository.JournalRepository, entryQueue queue.EntryQueue) error {
	log := logger.WithComponent("main")

	var entries []*model.Entry
	if journalRepo != nil {
		var err error
		entries, err = journalRepo.List(ctx)
		if err != nil {
			return err
		}
	}
	journaled := ledger.ContiguousSeq(entries)

	if backlog, ok := entryQueue.(queue.EntryBacklog); ok {
		pending, err := backlog.Backlog(ctx, journaled)
		if err != nil {
			return err
		}
		entries = ledger.MergeEntries(entries, pending)
	}

	if err := l.Restore(entries); err != nil {
		return err
	}

	if journalRepo != nil {
		for _, entry := range entries[journaled:] {
			if err := journalRepo.Append(ctx, entry); err != nil {
				// 帳本已還原；journal 的缺口留到下次啟動再從隊列補
				log.Error("failed to repair journal", zap.Uint64("seq", entry.Seq), zap.Error(err))
				break
			}
		}
	}

	log.Info("ledger restored",
		zap.Int("entries", len(entries)),
		zap.Uint64("journaled_seq", journaled),
		zap.Uint64("last_seq", l.LastSeq()),
		zap.Uint64("next_event_id", l.GetNextID()),
	)
	return nil
}

// flushLoop 定時重送 outbox 內還沒送進隊列的異動
func flushLoop(ctx context.Context, svc service.LedgerService) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = svc.FlushPending(ctx)
		}
	}
}
