package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionpricer/internal/pricing/application"
	"github.com/wyfcoding/optionpricer/internal/pricing/infrastructure/marketdata"
	"github.com/wyfcoding/optionpricer/internal/pricing/infrastructure/persistence/mysql"
	"github.com/wyfcoding/optionpricer/internal/pricing/interfaces/consumer"
	httpserver "github.com/wyfcoding/optionpricer/internal/pricing/interfaces/http"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"github.com/wyfcoding/pkg/worker"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/pricing/config.toml", "config file path")

// Config 服务扩展配置
type Config struct {
	config.Config `mapstructure:",squash"`
	Pricing       struct {
		DefaultRiskFreeRate float64 `mapstructure:"default_risk_free_rate" toml:"default_risk_free_rate"`
		DefaultMaturity     float64 `mapstructure:"default_maturity"       toml:"default_maturity"`
		DefaultSampleCount  int64   `mapstructure:"default_sample_count"   toml:"default_sample_count"`
		Workers             int     `mapstructure:"workers"                toml:"workers"`
	} `mapstructure:"pricing" toml:"pricing"`
}

func main() {
	flag.Parse()

	// 1. 配置
	var cfg Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := &logging.Config{
		Service:    cfg.Server.Name,
		Module:     "pricing",
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)
	if cfg.Metrics.Enabled {
		go metricsImpl.ExposeHTTP(cfg.Metrics.Port)
	}

	// 4. 数据库
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(&mysql.PricingRunModel{}, &mysql.HistoricalPriceModel{}, &outbox.Message{}); err != nil {
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
	publisher := outbox.NewPublisher(outboxMgr)

	// 6. 本地缓存与重定价工作池
	localCache, _ := cache.NewBigCache(time.Minute, 100, logger)
	repricePool := worker.NewPool(
		worker.WithName("pricing-repricer"),
		worker.WithSize(4),
		worker.WithQueueSize(256),
		worker.WithMetrics(metricsImpl),
	)

	// 7. 仓储与应用服务
	runRepo := mysql.NewPricingRunRepository(db.RawDB())
	historyRepo := mysql.NewPriceHistoryRepository(db.RawDB())
	historySource := marketdata.NewCSVHistorySource()

	defaults := application.PricingDefaults{
		RiskFreeRate: cfg.Pricing.DefaultRiskFreeRate,
		Maturity:     cfg.Pricing.DefaultMaturity,
		SampleCount:  cfg.Pricing.DefaultSampleCount,
		Workers:      cfg.Pricing.Workers,
	}
	svc := application.NewPricingService(runRepo, historyRepo, historySource, publisher, localCache, repricePool, defaults, metricsImpl)

	// 8. 行情消费者
	kafkaCfg := &cfg.MessageQueue.Kafka
	kafkaCfg.GroupID = "pricing-group"
	kafkaCfg.Topic = "market.price"

	kafkaConsumer := kafka.NewConsumer(kafkaCfg, logger, metricsImpl)
	priceHandler := consumer.NewMarketPriceHandler(svc.Command)
	priceHandler.Subscribe(context.Background(), kafkaConsumer)

	// 9. HTTP 接口
	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		sys.GET("/ready", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "READY"}) })
	}

	pp := r.Group("/debug/pprof")
	{
		pp.GET("/", gin.WrapF(pprof.Index))
		pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pp.GET("/profile", gin.WrapF(pprof.Profile))
		pp.GET("/symbol", gin.WrapF(pprof.Symbol))
		pp.GET("/trace", gin.WrapF(pprof.Trace))
	}

	httpHandler := httpserver.NewPricingHandler(svc.Command, svc.Query)
	httpHandler.RegisterRoutes(r.Group("/api"))

	// 10. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.HTTP.Port), Handler: r}

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", server.Addr)
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
		repricePool.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
