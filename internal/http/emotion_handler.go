package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultMaxBodySize = 1 << 20

// CrisisInterventionDTO 危机干预提示（打卡响应中的 crisisIntervention 字段）
type CrisisInterventionDTO struct {
	Triggered        bool                    `json:"triggered"`
	InterventionID   string                  `json:"interventionId,omitempty"`
	InterventionType domain.InterventionType `json:"interventionType,omitempty"`
	Resources        domain.CrisisResources  `json:"resources"`
	Message          string                  `json:"message"`
}

// checkinDTO 打卡记录 + 干预标记
type checkinDTO struct {
	*domain.EmotionCheckin
	InterventionTriggered bool                    `json:"interventionTriggered,omitempty"`
	Resources             *domain.CrisisResources `json:"resources,omitempty"`
}

type listCheckinsDTO struct {
	Items      []*domain.EmotionCheckin `json:"items"`
	Pagination service.PaginationDTO    `json:"pagination"`
}

type updateResponseRequest struct {
	UserResponse string `json:"userResponse"`
}

// EmotionHandler 情绪打卡 Handler
type EmotionHandler struct {
	emotionService service.EmotionService
	maxBodySize    int64
	logger         *zap.Logger
}

// NewEmotionHandler 创建 EmotionHandler；maxBodySize <= 0 时使用 1 MiB
func NewEmotionHandler(emotionService service.EmotionService, maxBodySize int64, logger *zap.Logger) *EmotionHandler {
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	return &EmotionHandler{
		emotionService: emotionService,
		maxBodySize:    maxBodySize,
		logger:         logger,
	}
}

// SubmitCheckin POST /api/v1/emotion/checkins
func (h *EmotionHandler) SubmitCheckin(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromReq(w, r)
	if !ok {
		return
	}

	var req service.CreateCheckinRequest
	if err := readBodyJSON(r, h.maxBodySize, &req); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	result, err := h.emotionService.SubmitCheckin(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, "SubmitCheckin", userID, err)
		return
	}

	res := Ok(checkinDTO{EmotionCheckin: result.Checkin})
	if iv := result.Intervention; iv != nil && iv.Triggered {
		resources := iv.Resources
		res.Data.InterventionTriggered = true
		res.Data.Resources = &resources
		res.CrisisIntervention = &CrisisInterventionDTO{
			Triggered:        true,
			InterventionID:   iv.InterventionID,
			InterventionType: iv.InterventionType,
			Resources:        resources,
			Message:          domain.CrisisSupportMessage,
		}
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListCheckins GET /api/v1/emotion/checkins?start_date=&end_date=&crisis_only=&page=&page_size=
func (h *EmotionHandler) ListCheckins(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromReq(w, r)
	if !ok {
		return
	}

	resp, err := h.emotionService.ListCheckins(r.Context(), h.listRequest(r, userID))
	if err != nil {
		h.writeError(w, "ListCheckins", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(listCheckinsDTO{Items: resp.Items, Pagination: resp.Pagination}))
}

// ExportCheckins GET /api/v1/emotion/checkins/export
func (h *EmotionHandler) ExportCheckins(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromReq(w, r)
	if !ok {
		return
	}

	data, err := h.emotionService.ExportCheckins(r.Context(), h.listRequest(r, userID))
	if err != nil {
		h.writeError(w, "ExportCheckins", userID, err)
		return
	}

	filename := fmt.Sprintf("emotion_checkins_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetCheckin GET /api/v1/emotion/checkins/{id}
func (h *EmotionHandler) GetCheckin(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromReq(w, r)
	if !ok {
		return
	}

	checkin, err := h.emotionService.GetCheckin(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "GetCheckin", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(checkin))
}

// GetIntervention GET /api/v1/emotion/checkins/{id}/intervention
func (h *EmotionHandler) GetIntervention(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromReq(w, r)
	if !ok {
		return
	}

	iv, err := h.emotionService.GetIntervention(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "GetIntervention", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(iv))
}

// UpdateInterventionResponse PUT /api/v1/emotion/interventions/{id}/response
func (h *EmotionHandler) UpdateInterventionResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromReq(w, r)
	if !ok {
		return
	}

	var req updateResponseRequest
	if err := readBodyJSON(r, h.maxBodySize, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	iv, err := h.emotionService.UpdateInterventionResponse(r.Context(), userID, chi.URLParam(r, "id"), req.UserResponse)
	if err != nil {
		h.writeError(w, "UpdateInterventionResponse", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(iv))
}

// GetCrisisResources GET /api/v1/emotion/crisis-resources
func (h *EmotionHandler) GetCrisisResources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(domain.DefaultCrisisResources()))
}

func (h *EmotionHandler) listRequest(r *http.Request, userID string) service.ListCheckinsRequest {
	q := r.URL.Query()
	return service.ListCheckinsRequest{
		UserID:     userID,
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		CrisisOnly: q.Get("crisis_only") == "true",
		Page:       parseInt(q.Get("page"), 1),
		PageSize:   parseInt(q.Get("page_size"), 20),
	}
}

func (h *EmotionHandler) writeError(w http.ResponseWriter, op, userID string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op+" failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		h.logger.Debug(op+" rejected", zap.String("user_id", userID), zap.Error(err))
	}
	writeJSON(w, status, Fail(errorMessage(status, err)))
}
