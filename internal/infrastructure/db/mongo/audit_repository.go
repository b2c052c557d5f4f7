package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

const auditCollection = "reservation_events"

var _ ports.AuditRepository = (*AuditRepository)(nil)

type auditDocument struct {
	ActorID    int64     `bson:"actor_id"`
	EventID    int64     `bson:"event_id"`
	Requested  bool      `bson:"requested"`
	Outcome    string    `bson:"outcome"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// AuditRepository appends toggle records to the reservation_events collection.
type AuditRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection), now: time.Now}
}

// EnsureIndexes creates the lookup indexes used when reading an actor's or
// an event's history.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "event_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "at", Value: -1}}, Options: options.Index().SetName("event_history")},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.ReservationAudit) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(entry, r.now())); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func toDocument(e *domain.ReservationAudit, recordedAt time.Time) auditDocument {
	return auditDocument{
		ActorID:    e.ActorID,
		EventID:    e.EventID,
		Requested:  e.Requested,
		Outcome:    string(e.Outcome),
		At:         e.At.UTC(),
		RecordedAt: recordedAt.UTC(),
	}
}
