package user

import "time"

type User struct {
	ID            string    `json:"id" firestore:"id"`
	ClerkID       string    `json:"clerkId" firestore:"clerkId"`
	Email         string    `json:"email" firestore:"email"`
	Username      string    `json:"username" firestore:"username"`
	FirstName     string    `json:"firstName" firestore:"firstName"`
	LastName      string    `json:"lastName" firestore:"lastName"`
	ImageURL      string    `json:"imageUrl,omitempty" firestore:"imageUrl"`
	EmailVerified bool      `json:"emailVerified" firestore:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" firestore:"updatedAt"`
}
