package domain

import "time"

// Audit action tags written by the moderation and category flows.
const (
	AuditDealApprove    = "DEAL_APPROVE"
	AuditDealReject     = "DEAL_REJECT"
	AuditDealSetStatus  = "DEAL_SET_STATUS"
	AuditCategoryCreate = "CATEGORY_CREATE"
	AuditCategoryUpdate = "CATEGORY_UPDATE"
	AuditCategoryDelete = "CATEGORY_DELETE"
)

// AuditLogEntry is an append-only record of a state-changing action.
// Entries are never mutated or deleted.
type AuditLogEntry struct {
	ID        string         `json:"id" bson:"_id,omitempty"`
	ActorID   string         `json:"actor_id" bson:"actor_id"`
	Action    string         `json:"action" bson:"action"`
	Entity    string         `json:"entity" bson:"entity"`
	EntityID  string         `json:"entity_id" bson:"entity_id"`
	Meta      map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}
