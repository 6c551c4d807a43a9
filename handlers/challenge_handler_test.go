package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slimSquadAPI/middleware"
	"slimSquadAPI/services"
)

// Requests below are rejected before any Firestore call, so a zero-value
// service is enough.
func newTestChallengeHandler() *ChallengeHandler {
	return NewChallengeHandler(&services.ChallengeService{})
}

func withClerkID(req *http.Request, clerkID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID)
	return req.WithContext(ctx)
}

func TestCreateChallenge_Unauthenticated(t *testing.T) {
	handler := newTestChallengeHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenges", nil)
	rr := httptest.NewRecorder()

	handler.CreateChallenge(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var response map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Contains(t, response["error"], "not authenticated")
}

func TestCreateChallenge_InvalidBody(t *testing.T) {
	handler := newTestChallengeHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenges", bytes.NewBufferString("{not json"))
	req = withClerkID(req, "user_test")
	rr := httptest.NewRecorder()

	handler.CreateChallenge(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestJoinChallenge_MissingInviteCode(t *testing.T) {
	handler := newTestChallengeHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenges/join", bytes.NewBufferString(`{}`))
	req = withClerkID(req, "user_test")
	rr := httptest.NewRecorder()

	handler.JoinChallenge(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Contains(t, response["error"], "invite_code")
}

func TestGetDashboard_Unauthenticated(t *testing.T) {
	handler := newTestChallengeHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/challenges/abc/dashboard", nil)
	rr := httptest.NewRecorder()

	handler.GetDashboard(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetParticipants_Unauthenticated(t *testing.T) {
	handler := newTestChallengeHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/challenges/abc/participants", nil)
	rr := httptest.NewRecorder()

	handler.GetParticipants(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStatusForChallengeError(t *testing.T) {
	tests := []struct {
		msg  string
		want int
	}{
		{"challenge not found", http.StatusNotFound},
		{"user not found", http.StatusNotFound},
		{"not a participant of this challenge", http.StatusForbidden},
		{"only the challenge creator can do this", http.StatusForbidden},
		{"weight log belongs to another user", http.StatusForbidden},
		{"already a participant", http.StatusBadRequest},
		{"challenge is full", http.StatusBadRequest},
		{"join window has closed", http.StatusBadRequest},
		{"join-by date must be before the end date", http.StatusBadRequest},
		{"something exploded", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForChallengeError(errors.New(tt.msg)))
		})
	}
}
