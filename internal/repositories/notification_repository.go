package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ripple-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error)
	GetByRecipientID(ctx context.Context, recipientID uint) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, id string, recipientID uint) error
	MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error)
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification inserts a notification with isRead=false. A user never
// notifies themselves: when recipient equals sender nothing is written and
// (nil, nil) is returned.
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if n.UserID == n.SenderID {
		return nil, nil
	}

	n.ID = primitive.NewObjectID()
	n.IsRead = false
	n.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// GetByRecipientID retrieves a user's notifications, newest first.
func (r *MongoNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint) ([]models.Notification, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": recipientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetUnreadCount counts the recipient's unread notifications.
func (r *MongoNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user_id": recipientID, "is_read": false})
}

// MarkAsRead flips a notification's isRead flag to true. Only the recipient
// may do so; repeating the call is stable.
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, id string, recipientID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	var n models.Notification
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if n.UserID != recipientID {
		return ErrNotOwner
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"is_read": true}})
	return err
}

// MarkAllAsRead flips every unread notification for the recipient and returns
// the number updated.
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
