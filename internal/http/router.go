package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router chi 路由封装
type Router struct {
	mux    *chi.Mux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(requestLogger(logger))
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Fail("method not allowed"))
	})
	return &Router{mux: mux, logger: logger}
}

func (r *Router) Handle(method, pattern string, h http.HandlerFunc) {
	r.mux.MethodFunc(method, pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 /metrics 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterEmotionRoutes 情绪打卡 / 危机干预
func (r *Router) RegisterEmotionRoutes(h *EmotionHandler) {
	const base = "/api/v1/emotion"

	r.Handle(http.MethodPost, base+"/checkins", h.SubmitCheckin)
	r.Handle(http.MethodGet, base+"/checkins", h.ListCheckins)
	r.Handle(http.MethodGet, base+"/checkins/export", h.ExportCheckins)
	r.Handle(http.MethodGet, base+"/checkins/{id}", h.GetCheckin)
	r.Handle(http.MethodGet, base+"/checkins/{id}/intervention", h.GetIntervention)
	r.Handle(http.MethodPut, base+"/interventions/{id}/response", h.UpdateInterventionResponse)
	r.Handle(http.MethodGet, base+"/crisis-resources", h.GetCrisisResources)
}

// RegisterSystemRoutes 健康检查与指标
func (r *Router) RegisterSystemRoutes(h *SystemHandler, metrics http.Handler) {
	r.Handle(http.MethodGet, "/healthz", h.Health)
	if metrics != nil {
		r.HandleHandler("/metrics", metrics)
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
