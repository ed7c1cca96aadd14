package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/cases"
	"github.com/suPer8Hu/dxcases/internal/config"
	"github.com/suPer8Hu/dxcases/internal/db"
	"github.com/suPer8Hu/dxcases/internal/httpapi"
	"github.com/suPer8Hu/dxcases/internal/store/rabbitmq"
	"github.com/suPer8Hu/dxcases/internal/store/redisstore"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel)
	if cfg.InsecureJWTSecret() {
		log.Warn("JWT_SECRET is not set, admin tokens are signed with the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err := db.AutoMigrate(gdb); err != nil {
		log.WithError(err).Fatal("automigrate failed")
	}

	var rds *redisstore.Store
	if cfg.RedisEnabled {
		s, err := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, rate limiting and tag cache disabled")
		} else {
			rds = s
			defer rds.Close()
		}
	}

	client, err := ai.FromConfig(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("ai provider")
	}

	var jobs cases.Publisher
	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.WithError(err).Warn("rabbitmq unavailable, illustration jobs disabled")
	} else {
		jobs = pub
		defer pub.Close()
	}

	r := httpapi.NewRouter(gdb, cfg, rds, client, jobs)

	// Serve our metrics endpoint for prometheus to scrape
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil { //nolint
				log.WithError(err).Error("metrics listener stopped")
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithFields(log.Fields{
			"addr":     cfg.HTTPAddr,
			"provider": cfg.AIProvider,
			"db":       cfg.DBDriver,
		}).Info("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
