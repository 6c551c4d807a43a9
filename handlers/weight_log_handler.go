package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"slimSquadAPI/internal/types/weightlog"
	"slimSquadAPI/middleware"
	"slimSquadAPI/services"
)

type WeightLogHandler struct {
	weightLogService *services.WeightLogService
}

func NewWeightLogHandler(weightLogService *services.WeightLogService) *WeightLogHandler {
	return &WeightLogHandler{
		weightLogService: weightLogService,
	}
}

func (h *WeightLogHandler) AddWeightLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req weightlog.CreateWeightLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.weightLogService.AddWeightLog(ctx, clerkID, &req)
	if err != nil {
		log.Printf("AddWeightLog Handler: Service error: %v", err)
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

func (h *WeightLogHandler) UpdateWeightLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req weightlog.UpdateWeightLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.weightLogService.UpdateWeightLog(ctx, clerkID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

func (h *WeightLogHandler) DeleteWeightLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.weightLogService.DeleteWeightLog(ctx, clerkID, mux.Vars(r)["id"]); err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Weight log deleted"})
}

func (h *WeightLogHandler) ListWeightLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var challengeID *string
	if v := r.URL.Query().Get("challengeId"); v != "" {
		challengeID = &v
	}

	logs, err := h.weightLogService.ListUserWeightLogs(ctx, clerkID, challengeID)
	if err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}
