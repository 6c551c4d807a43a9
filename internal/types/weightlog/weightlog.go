package weightlog

import "time"

// WeightLog is one weight measurement. Weight is always stored in
// kilograms; the submitted unit only exists at the API boundary.
// ChallengeID is nil for user-global logs taken outside any challenge.
type WeightLog struct {
	ID          string    `json:"id" firestore:"id"`
	UserID      string    `json:"user_id" firestore:"userId"`
	ChallengeID *string   `json:"challenge_id" firestore:"challengeId"`
	Weight      float64   `json:"weight" firestore:"weight"`
	LoggedAt    time.Time `json:"logged_at" firestore:"loggedAt"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

type CreateWeightLogRequest struct {
	Weight      float64    `json:"weight" validate:"required"`
	Unit        string     `json:"unit" validate:"required,oneof=kg lbs"`
	ChallengeID *string    `json:"challenge_id,omitempty"`
	LoggedAt    *time.Time `json:"logged_at,omitempty"`
}

type UpdateWeightLogRequest struct {
	Weight   *float64   `json:"weight,omitempty"`
	Unit     string     `json:"unit,omitempty"`
	LoggedAt *time.Time `json:"logged_at,omitempty"`
}
