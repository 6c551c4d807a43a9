package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"slimSquadAPI/internal/store"
	"slimSquadAPI/internal/types/weightlog"
	"slimSquadAPI/internal/units"
)

// Weight submissions must fall in this range, checked in the unit the
// client submitted before conversion to kilograms.
const (
	minWeight = 20.0
	maxWeight = 500.0
)

type WeightLogService struct {
	client      *firestore.Client
	userService *UserService
}

func NewWeightLogService(client *firestore.Client, userService *UserService) *WeightLogService {
	return &WeightLogService{
		client:      client,
		userService: userService,
	}
}

func (s *WeightLogService) AddWeightLog(ctx context.Context, clerkID string, req *weightlog.CreateWeightLogRequest) (*weightlog.WeightLog, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if !units.IsValid(req.Unit) {
		return nil, fmt.Errorf("unit must be kg or lbs")
	}
	if req.Weight < minWeight || req.Weight > maxWeight {
		return nil, fmt.Errorf("weight must be between %.0f and %.0f %s", minWeight, maxWeight, req.Unit)
	}

	if req.ChallengeID != nil {
		if err := s.requireMembership(ctx, *req.ChallengeID, u.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	loggedAt := now
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	l := &weightlog.WeightLog{
		ID:          uuid.New().String(),
		UserID:      u.ID,
		ChallengeID: req.ChallengeID,
		Weight:      units.ToKilograms(req.Weight, req.Unit),
		LoggedAt:    loggedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.client.Collection(store.WeightLogsCollection).Doc(l.ID).Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create weight log: %w", err)
	}

	return l, nil
}

// UpdateWeightLog corrects a measurement's weight and/or date. Owner only.
func (s *WeightLogService) UpdateWeightLog(ctx context.Context, clerkID, logID string, req *weightlog.UpdateWeightLogRequest) (*weightlog.WeightLog, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	existing, err := s.getWeightLogByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != u.ID {
		return nil, fmt.Errorf("weight log belongs to another user")
	}

	updates := []firestore.Update{
		{Path: "updatedAt", Value: time.Now()},
	}
	if req.Weight != nil {
		unit := req.Unit
		if unit == "" {
			unit = units.Kilograms
		}
		if !units.IsValid(unit) {
			return nil, fmt.Errorf("unit must be kg or lbs")
		}
		if *req.Weight < minWeight || *req.Weight > maxWeight {
			return nil, fmt.Errorf("weight must be between %.0f and %.0f %s", minWeight, maxWeight, unit)
		}
		updates = append(updates, firestore.Update{Path: "weight", Value: units.ToKilograms(*req.Weight, unit)})
	}
	if req.LoggedAt != nil {
		updates = append(updates, firestore.Update{Path: "loggedAt", Value: *req.LoggedAt})
	}

	ref := s.client.Collection(store.WeightLogsCollection).Doc(logID)
	if _, err := ref.Update(ctx, updates); err != nil {
		return nil, fmt.Errorf("failed to update weight log: %w", err)
	}

	return s.getWeightLogByID(ctx, logID)
}

func (s *WeightLogService) DeleteWeightLog(ctx context.Context, clerkID, logID string) error {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return err
	}

	existing, err := s.getWeightLogByID(ctx, logID)
	if err != nil {
		return err
	}
	if existing.UserID != u.ID {
		return fmt.Errorf("weight log belongs to another user")
	}

	if _, err := s.client.Collection(store.WeightLogsCollection).Doc(logID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete weight log: %w", err)
	}
	return nil
}

// ListUserWeightLogs returns the caller's own logs, optionally restricted
// to one challenge, newest first.
func (s *WeightLogService) ListUserWeightLogs(ctx context.Context, clerkID string, challengeID *string) ([]*weightlog.WeightLog, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	q := s.client.Collection(store.WeightLogsCollection).Where("userId", "==", u.ID)
	if challengeID != nil {
		q = q.Where("challengeId", "==", *challengeID)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	logs := []*weightlog.WeightLog{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list weight logs: %w", err)
		}

		l := &weightlog.WeightLog{}
		if err := snap.DataTo(l); err != nil {
			return nil, fmt.Errorf("failed to decode weight log %s: %w", snap.Ref.ID, err)
		}
		logs = append(logs, l)
	}

	// Sorted here rather than in the query so no composite index is needed.
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].LoggedAt.After(logs[j].LoggedAt)
	})

	return logs, nil
}

func (s *WeightLogService) getWeightLogByID(ctx context.Context, id string) (*weightlog.WeightLog, error) {
	snap, err := s.client.Collection(store.WeightLogsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("weight log not found")
		}
		return nil, fmt.Errorf("failed to get weight log: %w", err)
	}

	l := &weightlog.WeightLog{}
	if err := snap.DataTo(l); err != nil {
		return nil, fmt.Errorf("failed to decode weight log: %w", err)
	}
	return l, nil
}

func (s *WeightLogService) requireMembership(ctx context.Context, challengeID, userID string) error {
	snap, err := s.client.Collection(store.ChallengesCollection).Doc(challengeID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("challenge not found")
		}
		return fmt.Errorf("failed to get challenge: %w", err)
	}

	var c struct {
		Participants []string `firestore:"participants"`
	}
	if err := snap.DataTo(&c); err != nil {
		return fmt.Errorf("failed to decode challenge: %w", err)
	}
	for _, id := range c.Participants {
		if id == userID {
			return nil
		}
	}
	return fmt.Errorf("not a participant of this challenge")
}
