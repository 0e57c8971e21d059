package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/irridash/backend/internal/feedsim"
	"github.com/irridash/backend/pkg/mqttbus"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	mqCfg := &mqttbus.Config{
		Host:     env("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     env("MQTT_USER", "mqtt_user"),
		Password: env("MQTT_PASS", "mqtt_pwd"),
		ClientID: env("MQTT_CLIENT_ID", "irridash-feedsim"),
	}
	mqClient, err := mqttbus.NewConn(mqCfg, ctx)
	if err != nil {
		log.Fatalf("mqtt connect failed: %v", err)
	}

	topic := env("READING_TOPIC", "sensor/readings/sim")
	publisher := mqttbus.NewPublisher(mqClient, topic)
	defer publisher.Close()

	gen := feedsim.NewGenerator(int64(envInt("FEED_SEED", 1)))
	interval := time.Duration(envInt("FEED_INTERVAL_SEC", 5)) * time.Second

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("feedsim: publishing to %s every %s", topic, interval)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			raw := gen.Next(now.UTC())
			b, err := json.Marshal(raw)
			if err != nil {
				log.Printf("feedsim: marshal: %v", err)
				continue
			}
			if err := publisher.PublishMessage(string(b)); err != nil {
				log.Printf("feedsim: publish: %v", err)
			}
		}
	}
}
