package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "ucoa-chat/cmd/api/router/v1"
	"ucoa-chat/internal/config"
	"ucoa-chat/internal/infrastructure/broker"
	cacheAdapter "ucoa-chat/internal/infrastructure/cache/adapter"
	"ucoa-chat/internal/infrastructure/database"
	queueAdapter "ucoa-chat/internal/infrastructure/queue/adapter"
	qport "ucoa-chat/internal/infrastructure/queue/port"
	"ucoa-chat/internal/infrastructure/realtime"
	"ucoa-chat/internal/observability"
	"ucoa-chat/internal/pkg/chat/application/event"
	"ucoa-chat/internal/pkg/chat/application/participant"
	"ucoa-chat/internal/pkg/chat/application/policy"
	"ucoa-chat/internal/pkg/chat/application/resolver"
	"ucoa-chat/internal/pkg/chat/application/rule"
	"ucoa-chat/internal/pkg/chat/application/task"
	"ucoa-chat/internal/pkg/chat/application/usecase"
	chatAdapter "ucoa-chat/internal/pkg/chat/persistence/repository/adapter"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"
	httpHandler "ucoa-chat/internal/pkg/chat/presentation/http"
	"ucoa-chat/internal/platform/logger"
	userAdapter "ucoa-chat/internal/repository/adapter"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Error("server stopped with error", "error", err)
		lg.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, lg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitOTel(ctx, lg, observability.OtelConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: cfg.OTelServiceName,
		Environment: cfg.AppEnv,
		Exporter:    cfg.OTelExporter,
		Endpoint:    cfg.OTelEndpoint,
	})
	defer func() { _ = shutdownTracing(context.Background()) }()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := database.Connect(connectCtx, cfg.DatabaseURL, database.WithMaxConns(int32(cfg.DBMaxConns)))
	if err != nil {
		return err
	}
	defer pool.Close()

	var chats repository.ChatRepository
	switch cfg.StorageDriver {
	case config.StorageDriverBadger:
		db, err := badger.Open(badger.DefaultOptions(cfg.BadgerPath).WithLogger(nil))
		if err != nil {
			return err
		}
		defer db.Close()
		chats = chatAdapter.NewBadgerChatRepository(db)
	default:
		chats = chatAdapter.NewPgChatRepository(pool)
	}

	rt := realtime.NewRouter()
	defer rt.Close()

	var (
		sinks  []event.Dispatcher
		queue  qport.Client
		worker *queueAdapter.AsynqServer
	)
	if cfg.RedisURL != "" {
		rc, err := cacheAdapter.NewRedisAdapter(connectCtx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		chats = chatAdapter.NewCachedChatRepository(chats, rc, cfg.CacheTTL, lg)

		client, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		queue = client
		sinks = append(sinks, event.NewQueueDispatcher(client))

		worker, err = queueAdapter.NewAsynqServer(lg, queueAdapter.ServerOptions{
			RedisURL:    cfg.RedisURL,
			Concurrency: cfg.WorkerConcurrency,
			Queues:      cfg.WorkerQueues,
		})
		if err != nil {
			return err
		}
		task.RegisterSendMessageTask(worker, chats, rt)
		task.RegisterChatCreatedTask(worker, rt, lg)
	} else {
		lg.Warn("REDIS_URL not set: no cache, no background queue, chat notifications delivered in-process")
		sinks = append(sinks, event.DispatcherFunc(func(_ context.Context, evt event.ChatCreatedEvent) error {
			task.NotifyChatCreated(rt, evt)
			return nil
		}))
	}

	if cfg.AMQPURL != "" {
		conn, err := broker.DialWithRetry(connectCtx, lg, broker.DialOptions{URL: cfg.AMQPURL, RetryAttempts: 5})
		if err != nil {
			return err
		}
		pub, err := broker.NewAMQPPublisher(conn, cfg.AMQPExchange, lg)
		if err != nil {
			_ = conn.Close()
			return err
		}
		defer pub.Close()
		sinks = append(sinks, event.NewBrokerDispatcher(pub, cfg.OTelServiceName))
	}

	outbox := event.NewOutbox(lg, cfg.OutboxSize, cfg.SinkTimeout, sinks...)

	contexts := userAdapter.NewPgContextRepository(pool)
	users := userAdapter.NewPgUserRepository(pool)
	registry, err := resolver.NewRegistry(
		resolver.NewIssueResolver(contexts),
		resolver.NewHouseResolver(contexts),
		resolver.NewHouseComplexResolver(contexts),
		resolver.NewMarketResolver(contexts),
	)
	if err != nil {
		return err
	}

	flow := usecase.NewCreateChatUseCase(
		registry,
		participant.NewResolver(users),
		rule.NewEngine(cfg.Limits()),
		chats,
		outbox,
		lg,
	)
	action := usecase.NewCreateChatAction(policy.NewDirectoryPolicy(users, cfg.StaffOnly()...), flow)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware(cfg.OTelServiceName))
	r.GET("/healthz", func(c *gin.Context) {
		hctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(hctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, httpHandler.Dependencies{
		CreateChat:     action,
		Repo:           chats,
		Queue:          queue,
		Realtime:       rt,
		JWTSecret:      cfg.JWTSecret,
		RequestTimeout: cfg.RequestTimeout,
		Log:            lg,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// The outbox outlives the HTTP server so chats committed during shutdown still get their event.
	outboxCtx, stopOutbox := context.WithCancel(context.WithoutCancel(ctx))
	defer stopOutbox()
	outboxDone := make(chan error, 1)
	go func() { outboxDone <- outbox.Run(outboxCtx) }()

	g, gctx := errgroup.WithContext(ctx)
	if worker != nil {
		g.Go(func() error { return worker.Run(gctx) })
	}
	g.Go(func() error {
		lg.Info("http server listening", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		stopOutbox()
		return errors.Join(err, <-outboxDone)
	})
	return g.Wait()
}
