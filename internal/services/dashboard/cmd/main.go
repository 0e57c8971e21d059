package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/irridash/backend/internal/services/audit"
	"github.com/irridash/backend/internal/services/auth"
	"github.com/irridash/backend/internal/services/control"
	"github.com/irridash/backend/internal/services/dashboard/app"
	"github.com/irridash/backend/internal/services/history"
	"github.com/irridash/backend/internal/services/telemetry"
	"github.com/irridash/backend/pkg/mqttbus"
)

// devAuth accepts any well-formed credentials. The hosted provider client is
// wired in deployments through the same interface.
type devAuth struct{}

func (devAuth) SignIn(_ context.Context, email, _ string) (string, error) {
	return email, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	cfg := loadConfig()

	zoneCount, err := loadZoneCount(cfg.ZonesFile)
	if err != nil {
		log.Fatalf("zones config: %v", err)
	}

	// --- MQTT ---
	mqCfg := &mqttbus.Config{
		Host:     cfg.MQTTHost,
		Port:     cfg.MQTTPort,
		User:     cfg.MQTTUser,
		Password: cfg.MQTTPassword,
		ClientID: cfg.MQTTClientID,
	}
	mqClient, err := mqttbus.NewConn(mqCfg, ctx)
	if err != nil {
		log.Fatalf("mqtt connect failed: %v", err)
	}

	// --- InfluxDB ---
	influxClient := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	defer influxClient.Close()
	writeAPI := influxClient.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket)

	// --- telemetry: feed -> normalize -> subscribers ---
	consumer := mqttbus.NewConsumer(mqClient, cfg.ReadingTopic, nil)
	stream := telemetry.NewStream(consumer)
	go stream.Start(ctx)

	recorder := telemetry.NewRecorder(writeAPI, "sensor_reading", time.Minute)
	cancelRecord := stream.Subscribe(recorder.Observe)
	defer cancelRecord()
	go recorder.Start(ctx)

	rollup := telemetry.NewDailyRollup(writeAPI, "irrigation_daily")
	cancelRollup := stream.Subscribe(rollup.Observe)
	defer cancelRollup()
	go rollup.Start(ctx)

	// --- control state ---
	panel := control.NewZonePanel(zoneCount)
	logbook := audit.NewMemoryLog()
	auditSink := audit.Tee(logbook, audit.NewInfluxLog(writeAPI))
	store := control.NewMQTTStore(mqClient, cfg.StorePrefix)
	pump := control.NewRemotePump(store, auditSink)

	// --- history source ---
	var provider history.Provider
	switch cfg.HistorySource {
	case "influx":
		provider = history.Fallback{
			Primary:   history.NewInfluxProvider(influxClient, cfg.InfluxOrg, cfg.InfluxBucket, "irrigation_daily"),
			Secondary: history.NewMockProvider(cfg.HistorySeed),
		}
	case "remote":
		provider = history.Fallback{
			Primary:   history.NewRemoteProvider(cfg.HistoryURL, time.Duration(cfg.TimeoutMs)*time.Millisecond),
			Secondary: history.NewMockProvider(cfg.HistorySeed),
		}
	default:
		provider = history.NewMockProvider(cfg.HistorySeed)
	}

	// --- HTTP ---
	a := app.New(app.Config{
		ZoneCount:   zoneCount,
		ReportDays:  cfg.ReportDays,
		HTTPTimeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}, app.Deps{
		Stream:   stream,
		Panel:    panel,
		Pump:     pump,
		History:  provider,
		AuditLog: logbook,
		Sessions: auth.NewSessionManager([]byte(cfg.SessionSecret), 12*time.Hour),
		Auth:     devAuth{},
	})

	mux := a.Routes()
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("dashboard: listening on :%s (zones=%d, history=%s)", cfg.Port, zoneCount, cfg.HistorySource)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server: %v", err)
	}

	mqttbus.CloseConn(mqClient)
}
