package challenge

import (
	"time"

	"slimSquadAPI/internal/ranking"
	"slimSquadAPI/internal/schedule"
)

type Challenge struct {
	ID               string     `json:"id" firestore:"id"`
	Name             string     `json:"name" firestore:"name"`
	Description      string     `json:"description" firestore:"description"`
	CreatorID        string     `json:"creator_id" firestore:"creatorId"`
	StartDate        *time.Time `json:"start_date" firestore:"startDate"`
	EndDate          time.Time  `json:"end_date" firestore:"endDate"`
	JoinByDate       time.Time  `json:"join_by_date" firestore:"joinByDate"`
	Participants     []string   `json:"participants" firestore:"participants"`
	ParticipantLimit int        `json:"participant_limit" firestore:"participantLimit"`
	InviteCode       string     `json:"invite_code" firestore:"inviteCode"`
	IsActive         bool       `json:"is_active" firestore:"isActive"`
	IsArchived       bool       `json:"is_archived" firestore:"isArchived"`
	CreatedAt        time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt        time.Time  `json:"updated_at" firestore:"updatedAt"`
}

// Detail is a challenge plus its time-derived state, recomputed on every
// read.
type Detail struct {
	Challenge *Challenge        `json:"challenge"`
	Status    schedule.Status   `json:"status"`
	Progress  schedule.Progress `json:"progress"`
}

// Dashboard is the full aggregation output for one challenge: temporal
// state plus the ranked roster and challenge-wide totals.
type Dashboard struct {
	Challenge *Challenge                   `json:"challenge"`
	Status    schedule.Status              `json:"status"`
	Progress  schedule.Progress            `json:"progress"`
	Ranking   []*ranking.ParticipantRecord `json:"ranking"`
	Stats     *ranking.AggregateStats      `json:"stats"`
}

type Invite struct {
	ChallengeID  string `json:"challenge_id"`
	InviteCode   string `json:"invite_code"`
	QrCodeBase64 string `json:"qr_code_base64"`
}
