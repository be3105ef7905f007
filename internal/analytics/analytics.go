// Package analytics records minimal visitor and chat metrics in MongoDB.
// Everything here is best-effort: a failed write is logged and forgotten,
// never surfaced to the chat caller.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection        = "users"
	interactionsCollection = "chat_interactions"
)

// Recorder writes visitor records and chat interactions to a document store.
type Recorder struct {
	client       *mongo.Client
	users        *mongo.Collection
	interactions *mongo.Collection
}

// New connects to MongoDB and pings it. An empty URI disables analytics and
// returns (nil, nil); callers treat a nil Recorder as a no-op.
func New(ctx context.Context, uri, database string) (*Recorder, error) {
	if uri == "" {
		return nil, nil
	}
	if database == "" {
		database = "brookschat"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	db := client.Database(database)
	return &Recorder{
		client:       client,
		users:        db.Collection(usersCollection),
		interactions: db.Collection(interactionsCollection),
	}, nil
}

// Close disconnects the underlying client.
func (r *Recorder) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}

// TouchVisitor upserts the visitor record: stamps last_seen, bumps
// visit_count, and fills first_seen/referrer on first sight.
func (r *Recorder) TouchVisitor(ctx context.Context, visitorID, referrer, userAgent string) error {
	if r == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := r.users.UpdateOne(ctx,
		bson.M{"user_id": visitorID},
		bson.M{
			"$set": bson.M{"last_seen": now},
			"$inc": bson.M{"visit_count": 1},
			"$setOnInsert": bson.M{
				"first_seen": now,
				"referrer":   referrer,
				"is_mobile":  isMobileUserAgent(userAgent),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("touch visitor: %w", err)
	}
	return nil
}

// LogInteraction stores one user/assistant exchange.
func (r *Recorder) LogInteraction(ctx context.Context, visitorID, userMessage, aiResponse string) error {
	if r == nil {
		return nil
	}
	_, err := r.interactions.InsertOne(ctx, bson.M{
		"user_id":         visitorID,
		"timestamp":       time.Now().UTC(),
		"user_message":    userMessage,
		"ai_response":     aiResponse,
		"message_length":  len(userMessage),
		"response_length": len(aiResponse),
	})
	if err != nil {
		return fmt.Errorf("log interaction: %w", err)
	}
	return nil
}

func isMobileUserAgent(ua string) bool {
	ua = strings.ToLower(ua)
	for _, marker := range []string{"mobile", "android", "iphone", "ipad"} {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}
