package app

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/irridash/backend/internal/model"
	"github.com/irridash/backend/internal/services/auth"
	"github.com/irridash/backend/internal/services/control"
	"github.com/irridash/backend/internal/services/report"
)

// DashboardData is the payload the browser view renders from.
type DashboardData struct {
	Reading    model.SensorReading `json:"reading"`
	Zones      []model.Zone        `json:"zones"`
	PumpOn     bool                `json:"pump_on"`     // derived from zones, optimistic
	RemotePump model.PumpState     `json:"remote_pump"` // authoritative hardware flag
	Stats      map[string]float64  `json:"stats"`
}

func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	mux.HandleFunc("GET /dashboard/data", a.handleDashboardData)
	mux.HandleFunc("POST /zones/{zone}/toggle", a.handleZoneToggle)
	mux.HandleFunc("PUT /zones/{zone}", a.handleZoneSet)
	mux.HandleFunc("GET /pump", a.handlePumpGet)
	mux.HandleFunc("POST /pump", a.handlePumpSet)
	mux.HandleFunc("GET /reports/daily", a.handleReport)
	mux.HandleFunc("POST /auth/login", a.handleLogin)
	mux.HandleFunc("GET /audit/log", a.handleAuditLog)

	return mux
}

func (a *App) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.HTTPTimeout)
	defer cancel()

	snap := a.deps.Panel.Snapshot()
	data := DashboardData{
		Reading:    a.deps.Stream.FetchOnce(ctx),
		Zones:      snap.Zones,
		PumpOn:     snap.PumpOn,
		RemotePump: a.deps.Pump.Read(ctx),
		Stats:      map[string]float64{},
	}

	// moisture stats for the chart header; a failing history source just
	// leaves them out
	if rows, err := a.deps.History.Daily(ctx, a.cfg.ReportDays); err == nil && len(rows) > 0 {
		var sum float64
		minv, maxv := math.MaxFloat64, -math.MaxFloat64
		for _, row := range rows {
			sum += row.AvgMoisture
			if row.AvgMoisture < minv {
				minv = row.AvgMoisture
			}
			if row.AvgMoisture > maxv {
				maxv = row.AvgMoisture
			}
		}
		data.Stats["mean"] = math.Round(sum / float64(len(rows)))
		data.Stats["min"] = minv
		data.Stats["max"] = maxv
	}

	writeJSON(w, http.StatusOK, data)
}

func (a *App) handleZoneToggle(w http.ResponseWriter, r *http.Request) {
	zone, err := strconv.Atoi(r.PathValue("zone"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad zone index")
		return
	}
	if err := a.deps.Panel.ToggleZone(zone); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a.deps.Panel.Snapshot())
}

func (a *App) handleZoneSet(w http.ResponseWriter, r *http.Request) {
	zone, err := strconv.Atoi(r.PathValue("zone"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad zone index")
		return
	}
	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if err := a.deps.Panel.SetZone(zone, body.Active); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a.deps.Panel.Snapshot())
}

func (a *App) handlePumpGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.HTTPTimeout)
	defer cancel()
	writeJSON(w, http.StatusOK, map[string]string{"state": string(a.deps.Pump.Read(ctx))})
}

func (a *App) handlePumpSet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.HTTPTimeout)
	defer cancel()

	var body struct {
		State string `json:"state"`
		User  string `json:"user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if body.User == "" {
		body.User = "dashboard"
	}

	ok, err := a.deps.Pump.Write(ctx, model.PumpState(body.State), body.User)
	switch {
	case errors.Is(err, control.ErrInvalidPumpState):
		writeError(w, http.StatusUnprocessableEntity, "state must be ON or OFF")
	case !ok:
		writeError(w, http.StatusBadGateway, "pump state write failed")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"state": body.State})
	}
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.HTTPTimeout)
	defer cancel()

	rows, err := a.deps.History.Daily(ctx, a.cfg.ReportDays)
	if err != nil {
		writeError(w, http.StatusBadGateway, "history unavailable")
		return
	}
	ds := report.BuildDataset(a.cfg.ReportTitle, time.Now().UTC(), rows)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv":
		serveFile(w, "text/csv", "irrigation-report.csv", report.EncodeCSV(ds))
	case "txt":
		serveFile(w, "text/plain; charset=utf-8", "irrigation-report.txt", report.EncodeCSVReport(ds))
	case "html":
		out, err := report.RenderHTML(ds)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "render failed")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(out)
	case "pdf":
		out, err := report.BuildPDF(ds)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "render failed")
			return
		}
		serveFile(w, "application/pdf", "irrigation-report.pdf", out)
	case "xlsx":
		out, err := report.BuildXLSX(ds)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "render failed")
			return
		}
		serveFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "irrigation-report.xlsx", out)
	default:
		writeError(w, http.StatusBadRequest, "unknown format "+format)
	}
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.HTTPTimeout)
	defer cancel()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	// input validation happens before any provider traffic
	if code, ok := auth.ValidateCredentials(body.Email, body.Password); !ok {
		writeAuthError(w, http.StatusBadRequest, code)
		return
	}

	user, err := a.deps.Auth.SignIn(ctx, body.Email, body.Password)
	if err != nil {
		code := auth.CodeUnknown
		var pe *auth.ProviderError
		if errors.As(err, &pe) {
			code = auth.MapProviderError(pe.ProviderCode)
		}
		status := http.StatusUnauthorized
		if code == auth.CodeRateLimited {
			status = http.StatusTooManyRequests
		}
		writeAuthError(w, status, code)
		return
	}

	token, err := a.deps.Sessions.Issue(user, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session issue failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user": user, "token": token})
}

func (a *App) handleAuditLog(w http.ResponseWriter, _ *http.Request) {
	entries := a.deps.AuditLog.Snapshot()
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeAuthError(w http.ResponseWriter, status int, code auth.Code) {
	writeJSON(w, status, map[string]string{
		"error":   string(code),
		"message": code.Message(),
	})
}

func serveFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	_, _ = w.Write(body)
}
