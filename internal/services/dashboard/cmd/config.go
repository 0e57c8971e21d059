package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      string
	TimeoutMs int

	// MQTT broker carrying the feed and the pump flag
	MQTTHost     string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string
	ReadingTopic string
	StorePrefix  string

	// InfluxDB history/audit store
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	// history source: mock | influx | remote
	HistorySource string
	HistoryURL    string
	HistorySeed   int64
	ReportDays    int

	SessionSecret string

	ZonesFile string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func loadConfig() Config {
	return Config{
		Port:      getenv("PORT", "8080"),
		TimeoutMs: getenvInt("TIMEOUT_MS", 5000),

		MQTTHost:     getenv("MQTT_HOST", "localhost"),
		MQTTPort:     getenvInt("MQTT_PORT", 1883),
		MQTTUser:     getenv("MQTT_USER", "mqtt_user"),
		MQTTPassword: getenv("MQTT_PASS", "mqtt_pwd"),
		MQTTClientID: getenv("MQTT_CLIENT_ID", "irridash-dashboard"),
		ReadingTopic: getenv("READING_TOPIC", "sensor/readings/#"),
		StorePrefix:  getenv("STORE_PREFIX", "store"),

		InfluxURL:    getenv("INFLUX_URL", "http://localhost:8086"),
		InfluxToken:  getenv("INFLUX_TOKEN", ""),
		InfluxOrg:    getenv("INFLUX_ORG", "irridash"),
		InfluxBucket: getenv("INFLUX_BUCKET", "irrigation"),

		HistorySource: getenv("HISTORY_SOURCE", "mock"),
		HistoryURL:    getenv("HISTORY_URL", ""),
		HistorySeed:   int64(getenvInt("HISTORY_SEED", 20260801)),
		ReportDays:    getenvInt("REPORT_DAYS", 30),

		SessionSecret: getenv("SESSION_SECRET", "dev-only-secret"),

		ZonesFile: getenv("ZONES_FILE", ""),
	}
}

type zonesFile struct {
	Zones []struct {
		Index int    `yaml:"index"`
		Name  string `yaml:"name"`
	} `yaml:"zones"`
}

// loadZoneCount reads the zone layout file; without one the dashboard runs
// its default two-zone panel.
func loadZoneCount(path string) (int, error) {
	if path == "" {
		return 2, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read zones file: %w", err)
	}
	var zf zonesFile
	if err := yaml.Unmarshal(raw, &zf); err != nil {
		return 0, fmt.Errorf("parse zones file: %w", err)
	}
	if len(zf.Zones) == 0 {
		return 0, fmt.Errorf("zones file %s lists no zones", path)
	}
	return len(zf.Zones), nil
}
