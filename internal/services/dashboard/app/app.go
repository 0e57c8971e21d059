package app

import (
	"log"
	"time"

	"github.com/irridash/backend/internal/services/audit"
	"github.com/irridash/backend/internal/services/auth"
	"github.com/irridash/backend/internal/services/control"
	"github.com/irridash/backend/internal/services/history"
	"github.com/irridash/backend/internal/services/telemetry"
)

type Config struct {
	ZoneCount   int
	ReportDays  int
	ReportTitle string
	HTTPTimeout time.Duration

	Logger *log.Logger
}

// Deps are the collaborators the dashboard serves. Everything is injected:
// the process builds one backend client set at startup and hands it down,
// nothing reaches for globals.
type Deps struct {
	Stream   *telemetry.Stream
	Panel    *control.ZonePanel
	Pump     *control.RemotePump
	History  history.Provider
	AuditLog *audit.MemoryLog
	Sessions *auth.SessionManager
	Auth     auth.Provider
}

type App struct {
	cfg  Config
	deps Deps
}

func New(cfg Config, deps Deps) *App {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.ZoneCount < 1 {
		cfg.ZoneCount = 2
	}
	if cfg.ReportDays < 1 {
		cfg.ReportDays = 30
	}
	if cfg.ReportTitle == "" {
		cfg.ReportTitle = "Irrigation Daily Report"
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 5 * time.Second
	}
	return &App{cfg: cfg, deps: deps}
}
