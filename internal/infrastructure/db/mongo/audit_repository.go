package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

const collectionAudit = "audit_events"

// AuditRepository appends privileged actions to the audit_events collection.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type auditDoc struct {
	Action     string         `bson:"action"`
	ActorID    string         `bson:"actor_id"`
	TargetID   string         `bson:"target_id,omitempty"`
	Details    map[string]any `bson:"details,omitempty"`
	At         time.Time      `bson:"at"`
	RecordedAt time.Time      `bson:"recorded_at"`
}

// Record persists one audit event.
func (r *AuditRepository) Record(ctx context.Context, ev domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"action":      string(ev.Action),
		"actor_id":    ev.ActorID,
		"at":          ev.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if ev.TargetID != "" {
		doc["target_id"] = ev.TargetID
	}
	if len(ev.Details) > 0 {
		doc["details"] = ev.Details
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns at most limit events, newest first. A non-empty targetID
// restricts the result to events about that account or resource.
func (r *AuditRepository) Recent(ctx context.Context, targetID string, limit int64) ([]domain.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if targetID != "" {
		filter["target_id"] = targetID
	}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []auditDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	out := make([]domain.AuditEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.AuditEvent{
			Action:   domain.AuditAction(d.Action),
			ActorID:  d.ActorID,
			TargetID: d.TargetID,
			Details:  d.Details,
			At:       d.At,
		})
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the audit_events collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "target_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
