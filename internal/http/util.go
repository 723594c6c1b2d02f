package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"

	"github.com/google/uuid"
)

var errBodyTooLarge = errors.New("request body too large")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return err
	}
	if int64(len(body)) > maxBytes {
		return errBodyTooLarge
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// userIDFromReq 网关写入的 X-User-Id；缺失或格式错误时返回 401
func userIDFromReq(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, Fail("user id is required"))
		return "", false
	}
	if _, err := uuid.Parse(userID); err != nil {
		writeJSON(w, http.StatusUnauthorized, Fail("invalid user id"))
		return "", false
	}
	return userID, true
}

func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// statusForError 业务错误 -> HTTP 状态码
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, errBodyTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCheckinNotFound), errors.Is(err, domain.ErrInterventionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrInterventionExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return fmt.Sprint(err)
}
