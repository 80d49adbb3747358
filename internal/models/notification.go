package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types created by social actions.
const (
	NotificationTypeFollow  = "follow"
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

// Notification is a user notification stored in MongoDB. UserID is the
// recipient. IsRead only ever flips false to true.
type Notification struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      uint               `json:"user_id" bson:"user_id"`
	SenderID    uint               `json:"sender_id" bson:"sender_id"`
	Type        string             `json:"type" bson:"type"`
	Message     string             `json:"message" bson:"message"`
	ReferenceID string             `json:"reference_id,omitempty" bson:"reference_id,omitempty"`
	IsRead      bool               `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
