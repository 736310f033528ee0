package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"collabdir/internal/config"
	"collabdir/internal/notify"
	"collabdir/internal/queue"
	"collabdir/internal/store"
)

// Worker consumes queue events and materializes user notifications.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr, store.RedisOptions{PoolSize: cfg.RedisPoolSize})
	defer redisClient.Close()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, queue.DefaultEventsKey)
	}

	notes := notify.NewRepository(db.Pool)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeNotification {
			continue
		}

		evt, err := notify.DecodeEvent(msg.Body)
		if err != nil {
			log.Printf("bad event payload: %v", err)
			continue
		}

		if _, err := notes.Insert(ctx, evt); err != nil {
			log.Printf("store notification for %s failed: %v", evt.RecipientID, err)
			continue
		}
		log.Printf("notified %s about request %s (%s)", evt.RecipientID, evt.RequestID, evt.Kind)
	}

	log.Println("worker stopped")
}
