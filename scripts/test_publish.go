// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type ReportSubmittedEvent struct {
	ReportID    string    `json:"report_id"`
	CitizenID   string    `json:"citizen_id"`
	Zone        string    `json:"zone"`
	DamageType  string    `json:"damage_type"`
	Severity    string    `json:"severity"`
	PhotoURL    string    `json:"photo_url"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Тестовое событие (Solapur pothole report)
	event := ReportSubmittedEvent{
		ReportID:    uuid.New().String(),
		CitizenID:   uuid.New().String(),
		Zone:        "zone1",
		DamageType:  "pothole",
		Severity:    "high",
		PhotoURL:    "https://example.supabase.co/storage/v1/object/public/report-images/damage-photos/test.jpg",
		SubmittedAt: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Публикация в стрим
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:report:submitted",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("✅ Event published successfully!\n")
	fmt.Printf("   Stream: stream:report:submitted\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Report ID: %s\n", event.ReportID)
	fmt.Printf("   Zone: %s, damage: %s/%s\n", event.Zone, event.DamageType, event.Severity)
	fmt.Println("\nWatch the worker logs: the event should be relayed to RabbitMQ and acked.")
}
