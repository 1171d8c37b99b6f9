package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

const auditCollection = "mutation_audit"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// Insert persists one mutation attempt.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, auditDocument(entry, time.Now().UTC()))
	return err
}

// EnsureIndexes creates the lookup indexes on the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "record_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "operator", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func auditDocument(entry *domain.AuditEntry, persistedAt time.Time) bson.M {
	doc := bson.M{
		"_id":          entry.ID,
		"op":           string(entry.Op),
		"result":       string(entry.Result),
		"record_id":    entry.RecordID,
		"operator":     entry.Operator,
		"at":           entry.At.UTC(),
		"persisted_at": persistedAt,
	}
	if len(entry.Changes) > 0 {
		changes := bson.M{}
		for f, v := range entry.Changes {
			changes[string(f)] = v
		}
		doc["changes"] = changes
	}
	if entry.Error != "" {
		doc["error"] = entry.Error
	}
	return doc
}
