package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/rental-market/internal/apperr"
	"github.com/ukydev/rental-market/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status and writes the error envelope.
func writeError(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	status := apperr.StatusCode(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		logger.WithError(err).Error("Request failed")
	}
	middleware.WriteError(w, status, apperr.Message(err))
}
