package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/radlens/radlens/apimodels"
	"github.com/radlens/radlens/internal/intake"
	"github.com/radlens/radlens/internal/llm"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("missing or oversized image upload (field %q, limit %d bytes)", "image", s.cfg.MaxUploadBytes))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	payload, err := intake.Read(header.Filename, data)
	if err != nil {
		writeError(w, intakeStatus(err), err.Error())
		return
	}

	slog.Debug("upload accepted", "filename", header.Filename, "format", payload.Format)

	result, err := s.pipeline.Analyze(r.Context(), payload)
	if err != nil {
		slog.Error("analysis request failed", "error", err)
		writeError(w, pipelineStatus(err), userMessage(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func intakeStatus(err error) int {
	if errors.Is(err, intake.ErrUnsupportedFormat) {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}

func pipelineStatus(err error) int {
	switch {
	case errors.Is(err, llm.ErrAuthentication), errors.Is(err, llm.ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.Is(err, llm.ErrTransient):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// userMessage turns pipeline errors into actionable text. Every abort path
// must surface a specific message, not a generic failure.
func userMessage(err error) string {
	switch {
	case errors.Is(err, llm.ErrAuthentication):
		return "the model service rejected the configured API credential; check MODEL_API_KEY"
	case errors.Is(err, llm.ErrTransient):
		return "the model service is temporarily unavailable; the request was retried and still failed, try again shortly"
	case errors.Is(err, llm.ErrInvalidResponse):
		return "the model service returned an empty or malformed report; try again"
	}
	return strings.TrimSpace(err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apimodels.ErrorResponse{Error: message})
}
