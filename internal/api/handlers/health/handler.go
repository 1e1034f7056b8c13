package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers"
)

const (
	statusOK       = "ok"
	statusDegraded = "unavailable"
)

// Response тело ответа /health
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type Handler struct {
	checks  map[string]Checker
	timeout time.Duration
	logger  Logger
}

func NewHandler(checks map[string]Checker, timeout time.Duration, logger Logger) *Handler {
	return &Handler{
		checks:  checks,
		timeout: timeout,
		logger:  logger,
	}
}

// Handle GET /health
// 200 если все зависимости отвечают, иначе 503
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := Response{Status: statusOK, Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name].Check(ctx); err != nil {
			h.logger.Warn("GET /health - %s check failed: %v", name, err)
			resp.Checks[name] = err.Error()
			resp.Status = statusDegraded
			continue
		}
		resp.Checks[name] = statusOK
	}

	code := http.StatusOK
	if resp.Status != statusOK {
		code = http.StatusServiceUnavailable
	}
	handlers.RespondJSON(w, code, resp)
}
