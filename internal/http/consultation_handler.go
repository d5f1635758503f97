package http

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/UMDhodi/Obsidian/internal/session"
	"go.uber.org/zap"
)

const maxConcernsLength = 1000

// Consulter produces skincare advice; it always answers, falling back when the provider cannot
type Consulter interface {
	Consult(ctx context.Context, req domain.ConsultationRequest) domain.ConsultationResponse
}

type ConsultationHandler struct {
	client Consulter
	logger *zap.Logger
}

func NewConsultationHandler(client Consulter, logger *zap.Logger) *ConsultationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsultationHandler{
		client: client,
		logger: logger,
	}
}

type ConsultationRequestDTO struct {
	SkinProfile string `json:"skin_profile"`
	Concerns    string `json:"concerns"`
}

// POST /api/v1/consultation
func (h *ConsultationHandler) Consult(w http.ResponseWriter, r *http.Request) {
	sess := getSession(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "missing session")
		return
	}

	var req ConsultationRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := domain.ParseSkinProfile(req.SkinProfile)
	if err != nil {
		respondErrorDetails(w, http.StatusBadRequest, "invalid_skin_profile",
			"skin_profile must be Oily, Dry, Combination, Sensitive or Normal", err)
		return
	}
	if utf8.RuneCountInString(req.Concerns) > maxConcernsLength {
		respondError(w, http.StatusBadRequest, "invalid_concerns", "concerns must be at most 1000 characters")
		return
	}

	if err := sess.BeginConsultation(); err != nil {
		if errors.Is(err, session.ErrConsultationInProgress) {
			respondError(w, http.StatusConflict, "consultation_in_progress", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	resp := h.client.Consult(r.Context(), domain.ConsultationRequest{
		SkinProfile: profile,
		Concerns:    req.Concerns,
	})
	sess.FinishConsultation(resp)

	h.logger.Debug("consultation served",
		zap.String("skin_profile", string(profile)),
		zap.Int("routine_steps", len(resp.Routine)),
		zap.String("request_id", getRequestID(r.Context())))

	respondJSON(w, http.StatusOK, resp)
}

// GET /api/v1/consultation
func (h *ConsultationHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := getSession(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "missing session")
		return
	}
	respondJSON(w, http.StatusOK, sess.Consultation())
}
