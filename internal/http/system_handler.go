package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger 依赖健康检查（数据库 / Redis）
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc 适配普通函数
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SystemHandler /healthz
type SystemHandler struct {
	checks map[string]Pinger
	logger *zap.Logger
}

func NewSystemHandler(checks map[string]Pinger, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{checks: checks, logger: logger}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, Result[map[string]string]{Success: false, Data: status, Message: "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, Ok(status))
}
