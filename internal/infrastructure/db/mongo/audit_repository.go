package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/savemate/deals-api/internal/core/domain"
)

const collectionAuditLog = "audit_log"

// AuditRepository is the append-only audit sink. Entries are never updated
// or deleted through this API.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditLog)}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clone := *entry
	clone.ID = primitive.NewObjectID().Hex()
	clone.CreatedAt = time.Now().UTC()

	if _, err := r.col.InsertOne(ctx, &clone); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
