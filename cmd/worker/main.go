package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/cases"
	"github.com/suPer8Hu/dxcases/internal/config"
	"github.com/suPer8Hu/dxcases/internal/db"
	"github.com/suPer8Hu/dxcases/internal/enrich"
	"github.com/suPer8Hu/dxcases/internal/moderation"
	"github.com/suPer8Hu/dxcases/internal/store/rabbitmq"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb := db.Connect(cfg.DBDriver, cfg.DBDSN)

	client, err := ai.FromConfig(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("ai provider")
	}
	svc := cases.NewService(cases.NewRepo(gdb), moderation.NewGate(client), nil, cfg.GalleryPageSize)
	illustrator := enrich.New(client, client)

	//  strict concurrency control
	concurrency := cfg.WorkerConcurrency

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, cfg.RabbitQueue, concurrency)
	if err != nil {
		log.WithError(err).Fatal("rabbitmq consumer")
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		log.WithError(err).Fatal("consume")
	}

	log.WithFields(log.Fields{"queue": cfg.RabbitQueue, "concurrency": concurrency}).Info("worker started")

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				handleDelivery(ctx, workerID, d, svc, illustrator)
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Error("delivery channel closed")
				close(jobs)
				wg.Wait()
				os.Exit(1)
			}
			jobs <- d
		}
	}
}

func handleDelivery(ctx context.Context, workerID int, d amqp.Delivery, svc *cases.Service, ill cases.Illustrator) {
	entry := log.WithField("worker", workerID)

	m, err := rabbitmq.DecodeJob(d.Body)
	if err != nil {
		entry.WithError(err).Warn("bad message")
		_ = d.Nack(false, false)
		return
	}

	start := time.Now()
	if err := svc.RunIllustrationJob(ctx, m.JobID, ill); err != nil {
		entry.WithError(err).WithFields(log.Fields{"job": m.JobID, "cost": time.Since(start)}).Warn("job failed")
		// dead-lettered, retried from the admin API
		_ = d.Nack(false, false)
		return
	}

	if err := d.Ack(false); err != nil {
		entry.WithError(err).WithField("job", m.JobID).Error("ack failed")
	}
}
