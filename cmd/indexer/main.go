package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bath-journal/config"
	"github.com/oksasatya/bath-journal/internal/application"
	"github.com/oksasatya/bath-journal/internal/infrastructure/search"
	"github.com/oksasatya/bath-journal/pkg/events"
	"github.com/oksasatya/bath-journal/pkg/helpers"
	"github.com/oksasatya/bath-journal/pkg/metrics"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-indexer", cfg.Env)
	if !cfg.EventsEnabled || !cfg.SearchEnabled {
		log.Println("EVENTS_ENABLED and SEARCH_ENABLED must both be true; indexer disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQBathEventQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	es, err := search.NewClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	indexer := application.NewIndexer(search.NewBathIndex(es, cfg.ESBathsIndex), logger)

	conn, ch, err := helpers.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQBathEventQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch between indexer replicas
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQBathEventQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx := context.Background()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var ev events.BathEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				helpers.LogError(logger, "bad bath event", err, logrus.Fields{"message_id": msg.MessageId})
				metrics.EventsIndexed.WithLabelValues("unknown", "error").Inc()
				_ = msg.Nack(false, false)
				continue
			}

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := indexer.Handle(c, ev)
			cancel()
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, application.ErrMalformedEvent):
				helpers.LogError(logger, "dropping bath event", err, logrus.Fields{"event_id": ev.ID})
				_ = msg.Nack(false, false)
			default:
				// the indexer already logged it; retry later
				_ = msg.Nack(false, true)
			}
		}
		close(done)
	}()

	logger.Infof("bath indexer listening on queue=%s", cfg.RabbitMQBathEventQueue)
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
