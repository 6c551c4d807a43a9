package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"slimSquadAPI/internal/types/challenge"
	"slimSquadAPI/middleware"
	"slimSquadAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req challenge.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	detail, err := h.challengeService.CreateChallenge(ctx, clerkID, &req)
	if err != nil {
		log.Printf("CreateChallenge Handler: Service error: %v", err)
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, detail)
}

func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	detail, err := h.challengeService.GetChallenge(ctx, clerkID, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	includeArchived := r.URL.Query().Get("archived") == "true"

	details, err := h.challengeService.ListUserChallenges(ctx, clerkID, includeArchived)
	if err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, details)
}

func (h *ChallengeHandler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req challenge.JoinChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.InviteCode == "" {
		respondWithError(w, http.StatusBadRequest, "invite_code is required")
		return
	}

	log.Printf("JoinChallenge Handler: Request from %s with code %s", clerkID, req.InviteCode)

	detail, err := h.challengeService.JoinChallenge(ctx, clerkID, req.InviteCode)
	if err != nil {
		log.Printf("JoinChallenge Handler: Service error: %v", err)
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

func (h *ChallengeHandler) UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req challenge.UpdateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	detail, err := h.challengeService.UpdateChallenge(ctx, clerkID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

func (h *ChallengeHandler) ArchiveChallenge(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

func (h *ChallengeHandler) UnarchiveChallenge(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *ChallengeHandler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.challengeService.SetArchived(ctx, clerkID, mux.Vars(r)["id"], archived); err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	message := "Challenge archived"
	if !archived {
		message = "Challenge unarchived"
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *ChallengeHandler) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.challengeService.DeleteChallenge(ctx, clerkID, mux.Vars(r)["id"]); err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Challenge deleted"})
}

func (h *ChallengeHandler) GetInvite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	inv, err := h.challengeService.GetInvite(ctx, clerkID, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, inv)
}

func (h *ChallengeHandler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	ranked, err := h.challengeService.GetParticipants(ctx, clerkID, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, ranked)
}

func (h *ChallengeHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	dashboard, err := h.challengeService.GetDashboard(ctx, clerkID, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, statusForChallengeError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}

func statusForChallengeError(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "not a participant"),
		strings.Contains(msg, "only the challenge creator"),
		strings.Contains(msg, "belongs to another user"):
		return http.StatusForbidden
	case strings.Contains(msg, "already a participant"),
		strings.Contains(msg, "challenge is full"),
		strings.Contains(msg, "join window has closed"),
		strings.Contains(msg, "challenge is archived"),
		strings.Contains(msg, "already has participants"),
		strings.Contains(msg, "already started"),
		strings.Contains(msg, "must be"),
		strings.Contains(msg, "is required"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
