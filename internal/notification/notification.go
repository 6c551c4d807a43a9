package notification

import "time"

type DeviceToken struct {
	UserID    string    `json:"user_id" firestore:"userId"`
	Token     string    `json:"token" firestore:"token"`
	Platform  string    `json:"platform" firestore:"platform"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}
