//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/parkrun-map/internal/domain"
	"github.com/redis/go-redis/v9"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	lat := flag.Float64("lat", 47.9835, "center latitude")
	lon := flag.Float64("lon", 7.7969, "center longitude")
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

	sessionID := uuid.New()
	bounds := domain.Bounds{MinLat: *lat - 0.05, MinLon: *lon - 0.05, MaxLat: *lat + 0.05, MaxLon: *lon + 0.05}

	// приближение, отдаление, снова приближение
	events := []domain.ViewportEvent{
		{SessionID: sessionID, Mode: domain.ViewModeOverview, Zoom: 12, Bounds: bounds},
		{SessionID: sessionID, Zoom: 9, Bounds: bounds},
		{SessionID: sessionID, Zoom: 13, Bounds: bounds},
	}

	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			log.Fatalf("Failed to marshal event: %v", err)
		}

		id, err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: domain.StreamMapViewport,
			Values: map[string]interface{}{
				"data": string(data),
			},
		}).Result()
		if err != nil {
			log.Fatalf("Failed to publish event: %v", err)
		}
		fmt.Printf("Published zoom=%.0f as %s\n", event.Zoom, id)
	}

	fmt.Printf("Session: %s\nWaiting for responses in %s...\n", sessionID, domain.StreamMapOverlay)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	received := 0
	lastID := "0"
	for {
		select {
		case <-timeout:
			fmt.Printf("Timeout, received %d of %d responses\n", received, len(events))
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{domain.StreamMapOverlay, lastID},
				Count:   100,
				Block:   -1,
			}).Result()
			if err != nil && err != redis.Nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					lastID = msg.ID
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var response domain.OverlayDeltaEvent
					if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
						continue
					}
					if response.SessionID != sessionID {
						continue
					}

					received++
					pretty, _ := json.MarshalIndent(response, "", "  ")
					fmt.Printf("%s\n", pretty)
					if received == len(events) {
						return
					}
				}
			}
		}
	}
}
