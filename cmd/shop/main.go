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
	cartapp "github.com/wyfcoding/livecommerce/internal/cart/application"
	"github.com/wyfcoding/livecommerce/internal/cart/infrastructure/catalog"
	cartredis "github.com/wyfcoding/livecommerce/internal/cart/infrastructure/persistence/redis"
	carthttp "github.com/wyfcoding/livecommerce/internal/cart/interfaces/http"
	checkoutapp "github.com/wyfcoding/livecommerce/internal/checkout/application"
	checkoutdomain "github.com/wyfcoding/livecommerce/internal/checkout/domain"
	checkoutmessaging "github.com/wyfcoding/livecommerce/internal/checkout/infrastructure/messaging"
	checkoutmysql "github.com/wyfcoding/livecommerce/internal/checkout/infrastructure/persistence/mysql"
	checkouthttp "github.com/wyfcoding/livecommerce/internal/checkout/interfaces/http"
	"github.com/wyfcoding/livecommerce/internal/shop/application"
	shopdomain "github.com/wyfcoding/livecommerce/internal/shop/domain"
	"github.com/wyfcoding/livecommerce/internal/shop/infrastructure/messaging"
	"github.com/wyfcoding/livecommerce/internal/shop/infrastructure/persistence/mysql"
	"github.com/wyfcoding/livecommerce/internal/shop/interfaces/consumer"
	shophttp "github.com/wyfcoding/livecommerce/internal/shop/interfaces/http"
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

var configPath = flag.String("config", "configs/shop/config.toml", "config file path")

// shopConfig 商城服务配置，在基础配置上追加购物车 TTL
type shopConfig struct {
	config.Config `mapstructure:",squash"`
	Cart          struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cart"`
}

func main() {
	flag.Parse()

	// 1. 配置
	var cfg shopConfig
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if cfg.Cart.TTL <= 0 {
		cfg.Cart.TTL = 24 * time.Hour
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
		if err := db.RawDB().AutoMigrate(
			&shopdomain.Product{},
			&shopdomain.Seller{},
			&checkoutdomain.Order{},
			&outbox.Message{},
		); err != nil {
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

	// 7. 仓储
	productRepo := mysql.NewProductRepository(db.RawDB())
	sellerRepo := mysql.NewSellerRepository(db.RawDB())
	inventoryStore := checkoutmysql.NewInventoryStore(db.RawDB())
	cartRepo := cartredis.NewCartRepository(redisCache.GetClient(), cfg.Cart.TTL)
	productProvider := catalog.NewProductProvider(db.RawDB())
	sessionRepo := authredis.NewSessionRedisRepository(redisCache.GetClient())
	shopPublisher := messaging.NewOutboxPublisher(outboxMgr)
	checkoutPublisher := checkoutmessaging.NewOutboxPublisher(outboxMgr)

	// 8. 应用服务
	shopCommandSvc := application.NewShopCommandService(productRepo, shopPublisher)
	shopQuerySvc := application.NewShopQueryService(productRepo, sellerRepo)
	projectionSvc := application.NewSellerProjectionService(sellerRepo)
	cartSvc := cartapp.NewCartService(cartRepo, productProvider)
	checkoutSvc := checkoutapp.NewCheckoutService(inventoryStore, cartSvc, checkoutPublisher)

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
	api := r.Group("/api")
	shophttp.NewHandler(shopCommandSvc, shopQuerySvc).RegisterRoutes(api, sessionAuth)
	carthttp.NewHandler(cartSvc).RegisterRoutes(api, sessionAuth)
	checkouthttp.NewHandler(checkoutSvc).RegisterRoutes(api, sessionAuth)

	// 11. 消费者：注册事件 → 卖家投影
	kafkaCfg := cfg.MessageQueue.Kafka
	kafkaCfg.GroupID = "shop-seller-projection"
	kafkaCfg.Topic = authdomain.UserRegisteredEventType
	projectionConsumer := kafka.NewConsumer(&kafkaCfg, logger, metricsImpl)
	projectionHandler := consumer.NewSellerProjectionHandler(projectionSvc, logger.Logger)

	// 12. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		projectionHandler.Subscribe(ctx, projectionConsumer)
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
