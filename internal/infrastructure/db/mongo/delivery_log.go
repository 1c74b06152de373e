package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

const deliveryCollection = "notification_deliveries"

// DeliveryLog appends notification outcomes to a collection.
type DeliveryLog struct {
	coll *mongo.Collection
}

func NewDeliveryLog(db *mongo.Database) *DeliveryLog {
	return &DeliveryLog{coll: db.Collection(deliveryCollection)}
}

// EnsureIndexes creates the lookup indexes used by support queries.
func (l *DeliveryLog) EnsureIndexes(ctx context.Context) error {
	_, err := l.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ticket_id", Value: 1}, {Key: "attempted_at", Value: -1}}},
		{Keys: bson.D{{Key: "key", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("delivery indexes: %w", err)
	}
	return nil
}

func (l *DeliveryLog) Record(ctx context.Context, d domain.Delivery) error {
	if _, err := l.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// ForTicket returns the most recent outcomes recorded for a ticket.
func (l *DeliveryLog) ForTicket(ctx context.Context, ticketID string, limit int64) ([]domain.Delivery, error) {
	opts := options.Find().SetSort(bson.D{{Key: "attempted_at", Value: -1}}).SetLimit(limit)
	cur, err := l.coll.Find(ctx, bson.M{"ticket_id": ticketID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find deliveries: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Delivery
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode deliveries: %w", err)
	}
	return out, nil
}
