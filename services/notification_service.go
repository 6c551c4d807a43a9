package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"slimSquadAPI/internal/notification"
	"slimSquadAPI/internal/store"
)

// PushProvider is whatever can deliver a push message to device tokens.
// Injected so the service works (and tests run) without FCM configured.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type NotificationService struct {
	client *firestore.Client
	push   PushProvider
}

func NewNotificationService(client *firestore.Client) *NotificationService {
	return &NotificationService{client: client}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

// RegisterDevice upserts a device token for the user. Re-registering the
// same token just refreshes its owner.
func (s *NotificationService) RegisterDevice(ctx context.Context, userID string, req *notification.RegisterDeviceRequest) error {
	if req.Token == "" {
		return fmt.Errorf("device token is required")
	}

	iter := s.client.Collection(store.DeviceTokensCollection).
		Where("token", "==", req.Token).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	token := &notification.DeviceToken{
		UserID:    userID,
		Token:     req.Token,
		Platform:  req.Platform,
		CreatedAt: time.Now(),
	}

	snap, err := iter.Next()
	if err != nil {
		if !errors.Is(err, iterator.Done) {
			return fmt.Errorf("failed to look up device token: %w", err)
		}
		_, err = s.client.Collection(store.DeviceTokensCollection).Doc(uuid.New().String()).Create(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to register device: %w", err)
		}
		return nil
	}

	if _, err := snap.Ref.Set(ctx, token); err != nil {
		return fmt.Errorf("failed to refresh device token: %w", err)
	}
	return nil
}

func (s *NotificationService) GetUserDeviceTokens(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	iter := s.client.Collection(store.DeviceTokensCollection).
		Where("userId", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	tokens := []notification.DeviceToken{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
		}

		var t notification.DeviceToken
		if err := snap.DataTo(&t); err != nil {
			return nil, fmt.Errorf("failed to decode device token: %w", err)
		}
		tokens = append(tokens, t)
	}

	return tokens, nil
}

// NotifyUser pushes a message to every device the user registered. A
// missing push provider makes this a no-op, not an error.
func (s *NotificationService) NotifyUser(ctx context.Context, userID, title, body string, data map[string]any) error {
	if s.push == nil {
		return nil
	}

	tokens, err := s.GetUserDeviceTokens(ctx, userID)
	if err != nil {
		return err
	}

	return s.push.SendPush(ctx, tokens, title, body, data)
}
