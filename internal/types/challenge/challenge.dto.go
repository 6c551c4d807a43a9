package challenge

import "time"

type CreateChallengeRequest struct {
	Name             string     `json:"name" validate:"required,min=3,max=60"`
	Description      string     `json:"description,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          time.Time  `json:"end_date" validate:"required"`
	JoinByDate       time.Time  `json:"join_by_date" validate:"required"`
	ParticipantLimit int        `json:"participant_limit" validate:"required,min=1"`
}

type UpdateChallengeRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type JoinChallengeRequest struct {
	InviteCode string `json:"invite_code"`
}
