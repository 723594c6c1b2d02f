package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NariCare/NariCare-App-sub000/common/database"
	"github.com/NariCare/NariCare-App-sub000/common/logger"
	commonmqtt "github.com/NariCare/NariCare-App-sub000/common/mqtt"
	commonredis "github.com/NariCare/NariCare-App-sub000/common/redis"
	"github.com/NariCare/NariCare-App-sub000/internal/config"
	httpapi "github.com/NariCare/NariCare-App-sub000/internal/http"
	"github.com/NariCare/NariCare-App-sub000/internal/notify"
	"github.com/NariCare/NariCare-App-sub000/internal/repository"
	"github.com/NariCare/NariCare-App-sub000/internal/service"
	"github.com/NariCare/NariCare-App-sub000/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "naricare-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	gw := store.NewGateway(db, log)

	checks := map[string]httpapi.Pinger{"postgres": gw}

	// 用户联系方式：Postgres，可选 Redis 缓存
	var usersRepo repository.UsersRepository = repository.NewPostgresUsersRepository(gw)
	var publishers []notify.EventPublisher

	var redisClient *commonredis.Client
	if cfg.Redis.Enabled {
		redisClient = commonredis.NewRedisClient(&cfg.Redis.RedisConfig)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := commonredis.Ping(pingCtx, redisClient)
		cancel()
		if err != nil {
			log.Warn("Redis unavailable, contact cache and crisis stream disabled", zap.Error(err))
			_ = commonredis.Close(redisClient)
			redisClient = nil
		}
	}
	if redisClient != nil {
		usersRepo = repository.NewCachedUsersRepository(usersRepo, store.NewRedisKV(redisClient), cfg.Redis.ContactCacheTTL, log)
		publishers = append(publishers, notify.NewStreamPublisher(redisClient, cfg.Redis.CrisisStream, cfg.Redis.CrisisStreamMax, log))
		checks["redis"] = httpapi.PingFunc(func(ctx context.Context) error {
			return commonredis.Ping(ctx, redisClient)
		})
		log.Info("Redis enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var mqttClient *commonmqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = commonmqtt.NewClient(&cfg.MQTT.MQTTConfig, log)
		if err != nil {
			log.Warn("MQTT unavailable, crisis events will not be published to broker", zap.Error(err))
			mqttClient = nil
		} else {
			publishers = append(publishers, notify.NewMQTTPublisher(mqttClient, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS, log))
		}
	}

	var notifier notify.CrisisNotifier
	if cfg.Mail.Enabled {
		notifier = notify.NewSendGridMailer(notify.SendGridConfig{
			BaseURL:   cfg.Mail.BaseURL,
			APIKey:    cfg.Mail.APIKey,
			FromEmail: cfg.Mail.FromEmail,
			FromName:  cfg.Mail.FromName,
			Timeout:   cfg.Mail.Timeout,
		}, log)
	} else {
		log.Warn("Mail disabled, crisis emails will not be sent")
		notifier = notify.NewNoopNotifier(log)
	}

	var publisher notify.EventPublisher
	if len(publishers) > 0 {
		publisher = notify.NewMultiPublisher(publishers...)
	}

	checkinsRepo := repository.NewPostgresEmotionCheckinsRepository(gw)
	interventionsRepo := repository.NewPostgresCrisisInterventionsRepository(gw)

	crisisService := service.NewCrisisService(interventionsRepo, usersRepo, gw, notifier, publisher, log)
	emotionService := service.NewEmotionService(checkinsRepo, interventionsRepo, crisisService, gw, log)

	router := httpapi.NewRouter(log)
	router.RegisterEmotionRoutes(httpapi.NewEmotionHandler(emotionService, cfg.HTTP.MaxBodySize, log))
	router.RegisterSystemRoutes(httpapi.NewSystemHandler(checks, log), promhttp.Handler())

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown error", zap.Error(err))
	}
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	_ = commonredis.Close(redisClient)
	_ = database.Close(db)
}
