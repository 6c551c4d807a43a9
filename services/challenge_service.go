package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"slimSquadAPI/internal/invite"
	"slimSquadAPI/internal/poller"
	"slimSquadAPI/internal/ranking"
	"slimSquadAPI/internal/schedule"
	"slimSquadAPI/internal/store"
	"slimSquadAPI/internal/types/challenge"
	"slimSquadAPI/internal/types/weightlog"
	"slimSquadAPI/utils"
)

const maxParticipantLimit = 100

type ChallengeService struct {
	client              *firestore.Client
	userService         *UserService
	notificationService *NotificationService
}

func NewChallengeService(client *firestore.Client, userService *UserService, notificationService *NotificationService) *ChallengeService {
	return &ChallengeService{
		client:              client,
		userService:         userService,
		notificationService: notificationService,
	}
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, clerkID string, req *challenge.CreateChallengeRequest) (*challenge.Detail, error) {
	creator, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("challenge name is required")
	}
	if req.ParticipantLimit < 1 || req.ParticipantLimit > maxParticipantLimit {
		return nil, fmt.Errorf("participant limit must be between 1 and %d", maxParticipantLimit)
	}
	if !req.JoinByDate.Before(req.EndDate) {
		return nil, fmt.Errorf("join-by date must be before the end date")
	}
	if req.EndDate.Before(time.Now()) {
		return nil, fmt.Errorf("end date must be in the future")
	}
	if req.StartDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("end date must be after the start date")
	}

	now := time.Now()
	c := &challenge.Challenge{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		CreatorID:        creator.ID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		JoinByDate:       req.JoinByDate,
		Participants:     []string{creator.ID},
		ParticipantLimit: req.ParticipantLimit,
		InviteCode:       invite.NewCode(),
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := s.client.Collection(store.ChallengesCollection).Doc(c.ID).Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	log.Printf("ChallengeService: %s created challenge %s (%s)", creator.Username, c.Name, c.ID)
	return s.detail(c, time.Now()), nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, clerkID, challengeID string) (*challenge.Detail, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	c, err := s.getChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(c, u.ID) {
		return nil, fmt.Errorf("not a participant of this challenge")
	}

	return s.detail(c, time.Now()), nil
}

// ListUserChallenges returns every challenge the user is on the roster of.
// Archived challenges are excluded from the default listing but never
// deleted.
func (s *ChallengeService) ListUserChallenges(ctx context.Context, clerkID string, includeArchived bool) ([]*challenge.Detail, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	iter := s.client.Collection(store.ChallengesCollection).
		Where("participants", "array-contains", u.ID).
		Documents(ctx)
	defer iter.Stop()

	now := time.Now()
	details := []*challenge.Detail{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list challenges: %w", err)
		}

		c := &challenge.Challenge{}
		if err := snap.DataTo(c); err != nil {
			return nil, fmt.Errorf("failed to decode challenge %s: %w", snap.Ref.ID, err)
		}
		if c.IsArchived && !includeArchived {
			continue
		}
		details = append(details, s.detail(c, now))
	}

	return details, nil
}

// JoinChallenge adds the user to the roster identified by an invite code.
// The cutoff, limit and duplicate checks run inside a transaction so two
// competing joins cannot push the roster past its participant limit.
func (s *ChallengeService) JoinChallenge(ctx context.Context, clerkID, inviteCode string) (*challenge.Detail, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	c, err := s.getChallengeByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}

	ref := s.client.Collection(store.ChallengesCollection).Doc(c.ID)
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return fmt.Errorf("challenge not found")
		}
		current := &challenge.Challenge{}
		if err := snap.DataTo(current); err != nil {
			return fmt.Errorf("failed to decode challenge: %w", err)
		}

		now := time.Now()
		if current.IsArchived {
			return fmt.Errorf("challenge is archived")
		}
		if now.After(current.JoinByDate) {
			return fmt.Errorf("join window has closed")
		}
		if isParticipant(current, u.ID) {
			return fmt.Errorf("already a participant")
		}
		if len(current.Participants) >= current.ParticipantLimit {
			return fmt.Errorf("challenge is full")
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "participants", Value: firestore.ArrayUnion(u.ID)},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return nil, err
	}

	joined, err := s.getChallengeByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	utils.ChallengeMemberJoined(s.notificationService, joined, u)

	return s.detail(joined, time.Now()), nil
}

func (s *ChallengeService) UpdateChallenge(ctx context.Context, clerkID, challengeID string, req *challenge.UpdateChallengeRequest) (*challenge.Detail, error) {
	c, err := s.requireCreator(ctx, clerkID, challengeID)
	if err != nil {
		return nil, err
	}

	updates := []firestore.Update{
		{Path: "updatedAt", Value: time.Now()},
	}
	if strings.TrimSpace(req.Name) != "" {
		updates = append(updates, firestore.Update{Path: "name", Value: strings.TrimSpace(req.Name)})
	}
	if req.Description != "" {
		updates = append(updates, firestore.Update{Path: "description", Value: req.Description})
	}

	ref := s.client.Collection(store.ChallengesCollection).Doc(c.ID)
	if _, err := ref.Update(ctx, updates); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	updated, err := s.getChallengeByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return s.detail(updated, time.Now()), nil
}

func (s *ChallengeService) SetArchived(ctx context.Context, clerkID, challengeID string, archived bool) error {
	c, err := s.requireCreator(ctx, clerkID, challengeID)
	if err != nil {
		return err
	}

	_, err = s.client.Collection(store.ChallengesCollection).Doc(c.ID).Update(ctx, []firestore.Update{
		{Path: "isArchived", Value: archived},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	return nil
}

// DeleteChallenge removes a challenge entirely. Only the creator may do
// this, and only while the roster is still just the creator and the
// challenge has not started. A challenge without a declared start date is
// treated as already running and cannot be deleted.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, clerkID, challengeID string) error {
	c, err := s.requireCreator(ctx, clerkID, challengeID)
	if err != nil {
		return err
	}

	if len(c.Participants) > 1 {
		return fmt.Errorf("challenge already has participants")
	}
	if schedule.ResolveStatus(c.StartDate, c.EndDate, time.Now()) != schedule.StatusUpcoming {
		return fmt.Errorf("challenge has already started")
	}

	if _, err := s.client.Collection(store.ChallengesCollection).Doc(c.ID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}

	log.Printf("ChallengeService: deleted challenge %s", c.ID)
	return nil
}

func (s *ChallengeService) GetInvite(ctx context.Context, clerkID, challengeID string) (*challenge.Invite, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	c, err := s.getChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(c, u.ID) {
		return nil, fmt.Errorf("not a participant of this challenge")
	}

	qr, err := invite.QrCodeBase64(c.InviteCode)
	if err != nil {
		return nil, err
	}

	return &challenge.Invite{
		ChallengeID:  c.ID,
		InviteCode:   c.InviteCode,
		QrCodeBase64: qr,
	}, nil
}

// GetParticipants returns the ranked roster. Members only.
func (s *ChallengeService) GetParticipants(ctx context.Context, clerkID, challengeID string) ([]*ranking.ParticipantRecord, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	c, err := s.getChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(c, u.ID) {
		return nil, fmt.Errorf("not a participant of this challenge")
	}

	return s.rankChallenge(ctx, c)
}

// GetDashboard runs the full aggregation pass: temporal state, ranked
// roster and challenge-wide totals, all recomputed from the latest
// snapshot.
func (s *ChallengeService) GetDashboard(ctx context.Context, clerkID, challengeID string) (*challenge.Dashboard, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	c, err := s.getChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(c, u.ID) {
		return nil, fmt.Errorf("not a participant of this challenge")
	}

	ranked, err := s.rankChallenge(ctx, c)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &challenge.Dashboard{
		Challenge: c,
		Status:    schedule.ResolveStatus(c.StartDate, c.EndDate, now),
		Progress:  schedule.ComputeProgress(c.StartDate, c.EndDate, now),
		Ranking:   ranked,
		Stats:     ranking.RollupStatistics(ranked, len(c.Participants)),
	}, nil
}

// WatchDashboard starts a polling loop that re-runs the dashboard
// aggregation on every tick and hands the fresh snapshot to fn. Each call
// gets its own poller; stopping it is the only cancellation primitive.
// Overlapping refreshes are safe because every pass replaces the previous
// snapshot wholesale.
func (s *ChallengeService) WatchDashboard(ctx context.Context, clerkID, challengeID string, interval time.Duration, fn func(*challenge.Dashboard)) *poller.Poller {
	return watchDashboard(ctx, interval, func(ctx context.Context) (*challenge.Dashboard, error) {
		return s.GetDashboard(ctx, clerkID, challengeID)
	}, fn)
}

func watchDashboard(ctx context.Context, interval time.Duration, fetch func(context.Context) (*challenge.Dashboard, error), fn func(*challenge.Dashboard)) *poller.Poller {
	p := poller.New(interval, func(ctx context.Context) error {
		dashboard, err := fetch(ctx)
		if err != nil {
			return err
		}
		fn(dashboard)
		return nil
	})
	p.Start(ctx)
	return p
}

func (s *ChallengeService) rankChallenge(ctx context.Context, c *challenge.Challenge) ([]*ranking.ParticipantRecord, error) {
	roster, err := s.userService.GetUsersByIDs(ctx, c.Participants)
	if err != nil {
		return nil, err
	}

	logs, err := s.fetchChallengeWeightLogs(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return ranking.RankParticipants(roster, logs), nil
}

func (s *ChallengeService) fetchChallengeWeightLogs(ctx context.Context, challengeID string) ([]*weightlog.WeightLog, error) {
	iter := s.client.Collection(store.WeightLogsCollection).
		Where("challengeId", "==", challengeID).
		Documents(ctx)
	defer iter.Stop()

	logs := []*weightlog.WeightLog{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch weight logs: %w", err)
		}

		l := &weightlog.WeightLog{}
		if err := snap.DataTo(l); err != nil {
			return nil, fmt.Errorf("failed to decode weight log %s: %w", snap.Ref.ID, err)
		}
		logs = append(logs, l)
	}

	return logs, nil
}

func (s *ChallengeService) getChallengeByID(ctx context.Context, id string) (*challenge.Challenge, error) {
	snap, err := s.client.Collection(store.ChallengesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("challenge not found")
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	c := &challenge.Challenge{}
	if err := snap.DataTo(c); err != nil {
		return nil, fmt.Errorf("failed to decode challenge: %w", err)
	}
	return c, nil
}

func (s *ChallengeService) getChallengeByInviteCode(ctx context.Context, code string) (*challenge.Challenge, error) {
	iter := s.client.Collection(store.ChallengesCollection).
		Where("inviteCode", "==", strings.ToUpper(strings.TrimSpace(code))).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err != nil {
		if errors.Is(err, iterator.Done) {
			return nil, fmt.Errorf("challenge not found")
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	c := &challenge.Challenge{}
	if err := snap.DataTo(c); err != nil {
		return nil, fmt.Errorf("failed to decode challenge: %w", err)
	}
	return c, nil
}

func (s *ChallengeService) requireCreator(ctx context.Context, clerkID, challengeID string) (*challenge.Challenge, error) {
	u, err := s.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	c, err := s.getChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if c.CreatorID != u.ID {
		return nil, fmt.Errorf("only the challenge creator can do this")
	}
	return c, nil
}

func (s *ChallengeService) detail(c *challenge.Challenge, now time.Time) *challenge.Detail {
	return &challenge.Detail{
		Challenge: c,
		Status:    schedule.ResolveStatus(c.StartDate, c.EndDate, now),
		Progress:  schedule.ComputeProgress(c.StartDate, c.EndDate, now),
	}
}

func isParticipant(c *challenge.Challenge, userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
