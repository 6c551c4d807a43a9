package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"slimSquadAPI/internal/store"
	"slimSquadAPI/internal/user"
)

type UserService struct {
	client *firestore.Client
}

func NewUserService(client *firestore.Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{
		ID:        uuid.New().String(),
		ClerkID:   req.ClerkID,
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := s.client.Collection(store.UsersCollection).Doc(u.ID).Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	iter := s.client.Collection(store.UsersCollection).
		Where("clerkId", "==", clerkID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err != nil {
		if errors.Is(err, iterator.Done) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := &user.User{}
	if err := snap.DataTo(u); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return u, nil
}

// GetUsersByIDs fetches a challenge roster in one batched read. Missing
// documents (deleted accounts still on a roster) are skipped; input order
// is preserved for the survivors.
func (s *UserService) GetUsersByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, s.client.Collection(store.UsersCollection).Doc(id))
	}

	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster users: %w", err)
	}

	users := make([]*user.User, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			log.Printf("GetUsersByIDs: skipping missing user document %s", snap.Ref.ID)
			continue
		}
		u := &user.User{}
		if err := snap.DataTo(u); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
		}
		users = append(users, u)
	}

	return users, nil
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	updates := []firestore.Update{
		{Path: "updatedAt", Value: time.Now()},
	}
	if req.Username != "" {
		updates = append(updates, firestore.Update{Path: "username", Value: req.Username})
	}
	if req.FirstName != "" {
		updates = append(updates, firestore.Update{Path: "firstName", Value: req.FirstName})
	}
	if req.LastName != "" {
		updates = append(updates, firestore.Update{Path: "lastName", Value: req.LastName})
	}
	if req.ImageURL != "" {
		updates = append(updates, firestore.Update{Path: "imageUrl", Value: req.ImageURL})
	}

	ref := s.client.Collection(store.UsersCollection).Doc(u.ID)
	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	updated := &user.User{}
	if err := snap.DataTo(updated); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return updated, nil
}

func (s *UserService) UpdateEmailVerification(ctx context.Context, clerkID string, verified bool) error {
	u, err := s.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return err
	}

	_, err = s.client.Collection(store.UsersCollection).Doc(u.ID).Update(ctx, []firestore.Update{
		{Path: "emailVerified", Value: verified},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to update email verification: %w", err)
	}
	return nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	u, err := s.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return err
	}

	if _, err := s.client.Collection(store.UsersCollection).Doc(u.ID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Printf("UserService: deleted user %s (clerk_id: %s)", u.ID, clerkID)
	return nil
}
