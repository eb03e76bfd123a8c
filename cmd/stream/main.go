package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/wyfcoding/livecommerce/internal/auth/domain"
	authredis "github.com/wyfcoding/livecommerce/internal/auth/infrastructure/persistence/redis"
	"github.com/wyfcoding/livecommerce/internal/stream/application"
	"github.com/wyfcoding/livecommerce/internal/stream/domain"
	"github.com/wyfcoding/livecommerce/internal/stream/infrastructure/messaging"
	"github.com/wyfcoding/livecommerce/internal/stream/infrastructure/persistence/mysql"
	"github.com/wyfcoding/livecommerce/internal/stream/infrastructure/platform"
	"github.com/wyfcoding/livecommerce/internal/stream/interfaces/consumer"
	httpserver "github.com/wyfcoding/livecommerce/internal/stream/interfaces/http"
	"github.com/wyfcoding/livecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

var configPath = flag.String("config", "configs/stream/config.toml", "config file path")

// streamConfig 直播服务配置，追加平台接入、赞助位与头像地址
type streamConfig struct {
	config.Config `mapstructure:",squash"`
	Platform      platform.Config `mapstructure:"platform"`
	Ad            domain.Ad       `mapstructure:"ad"`
	Avatar        struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"avatar"`
}

func main() {
	flag.Parse()

	// 1. 配置
	var cfg streamConfig
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)

	// 4. 数据库
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(&domain.Livestream{}, &outbox.Message{}); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)

	// 6. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
	}

	// 7. 平台客户端与仓储
	platformClient, err := platform.NewClient(cfg.Platform)
	if err != nil {
		slog.Error("failed to init platform client", "error", err)
		os.Exit(1)
	}
	streamRepo := mysql.NewStreamRepository(db.RawDB())
	sessionRepo := authredis.NewSessionRedisRepository(redisCache.GetClient())
	publisher := messaging.NewOutboxPublisher(outboxMgr)

	// 8. 应用服务
	commandSvc := application.NewStreamCommandService(streamRepo, platformClient, publisher)
	querySvc := application.NewStreamQueryService(streamRepo, platformClient, cfg.Ad)
	tokenSvc := application.NewTokenService(cfg.Platform.APISecret, time.Hour)

	// 9. 会话校验，复用认证服务写入的 Redis 会话
	sessionAuth := middleware.SessionAuth(middleware.SessionVerifierFunc(
		func(ctx context.Context, token string) (*middleware.Identity, error) {
			session, err := sessionRepo.Get(ctx, token)
			if err != nil || session == nil {
				return nil, err
			}
			return &middleware.Identity{
				UserID:   session.UserID,
				Username: session.Username,
				Token:    session.Token,
			}, nil
		}))

	// 10. 接口层
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus(cfg.Server.Name, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcSrv)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	httpserver.NewHandler(commandSvc, querySvc, tokenSvc).RegisterRoutes(r.Group("/api"), sessionAuth)

	// 11. 消费者：登录事件 → 平台用户同步
	kafkaCfg := cfg.MessageQueue.Kafka
	kafkaCfg.GroupID = "stream-platform-user"
	kafkaCfg.Topic = authdomain.UserLoggedInEventType
	userConsumer := kafka.NewConsumer(&kafkaCfg, logger, metricsImpl)
	userHandler := consumer.NewPlatformUserHandler(platformClient, cfg.Avatar.BaseURL, logger.Logger)

	// 12. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		userHandler.Subscribe(ctx, userConsumer)
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		slog.Info("gRPC server starting", "addr", addr)
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		grpcSrv.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
