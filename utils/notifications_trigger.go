package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"slimSquadAPI/internal/types/challenge"
	"slimSquadAPI/internal/user"
)

// UserNotifier is the one method this helper needs from the notification
// service, so it doesn't have to depend on the whole services package.
type UserNotifier interface {
	NotifyUser(ctx context.Context, userID, title, body string, data map[string]any) error
}

// ChallengeMemberJoined fans a join announcement out to everyone already
// on the roster. Runs in the background; the joining request never waits
// on push delivery.
func ChallengeMemberJoined(notifier UserNotifier, c *challenge.Challenge, joiner *user.User) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		title := "New challenger!"
		body := fmt.Sprintf("%s joined %s", joiner.Username, c.Name)
		data := map[string]any{
			"challenge_id": c.ID,
			"user_id":      joiner.ID,
		}

		for _, memberID := range c.Participants {
			if memberID == joiner.ID {
				continue
			}
			if err := notifier.NotifyUser(ctx, memberID, title, body, data); err != nil {
				log.Printf("Failed to notify member %s about join: %v", memberID, err)
			}
		}
	}()
}
