package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/savemate/deals-api/internal/api/metrics"
	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

const minRejectReasonLen = 3

// ModerationService binds the deal state machine to the append-only audit
// trail. Transitions commit first; the audit write is best-effort and its
// outcome is reported on the result instead of rolling anything back.
type ModerationService struct {
	deals  ports.DealRepository
	audit  ports.AuditRepository
	logger zerolog.Logger
}

func NewModerationService(deals ports.DealRepository, audit ports.AuditRepository, logger zerolog.Logger) *ModerationService {
	return &ModerationService{deals: deals, audit: audit, logger: logger}
}

// Approve moves a PENDING deal to APPROVED.
func (s *ModerationService) Approve(ctx context.Context, actorID, dealID string) (*ports.ModerationResult, error) {
	return s.moderate(ctx, actorID, dealID, domain.StatusApproved, "", domain.AuditDealApprove, "approve")
}

// Reject moves a PENDING deal to REJECTED. The reason is mandatory.
func (s *ModerationService) Reject(ctx context.Context, actorID, dealID, reason string) (*ports.ModerationResult, error) {
	if len(reason) < minRejectReasonLen {
		return nil, domain.FieldValidationError("reason", "reason must be at least 3 characters")
	}
	return s.moderate(ctx, actorID, dealID, domain.StatusRejected, reason, domain.AuditDealReject, "reject")
}

// moderate performs the shared PENDING-gated transition. The conditional
// write is keyed on (id, PENDING): when it matches nothing the deal either
// left PENDING concurrently or never was, and the actual status is reported
// back as a Conflict.
func (s *ModerationService) moderate(ctx context.Context, actorID, dealID string, to domain.DealStatus, reason, auditAction, metricAction string) (*ports.ModerationResult, error) {
	deal, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		if isNotFound(err) {
			metrics.ModerationActionsTotal.WithLabelValues(metricAction, "not_found").Inc()
		}
		return nil, err
	}

	moved, err := s.deals.UpdateStatusWhere(ctx, dealID, domain.StatusPending, to)
	if err != nil {
		metrics.ModerationActionsTotal.WithLabelValues(metricAction, "error").Inc()
		return nil, err
	}
	if !moved {
		current := deal.Status
		if fresh, err := s.deals.FindByID(ctx, dealID); err == nil {
			current = fresh.Status
		}
		metrics.ModerationActionsTotal.WithLabelValues(metricAction, "conflict").Inc()
		return nil, domain.NewConflict("Only PENDING deals can be "+pastTense(to), map[string]any{"status": string(current)})
	}

	meta := map[string]any{"from": string(domain.StatusPending), "to": string(to)}
	if reason != "" {
		meta["reason"] = reason
	}
	written := s.writeAudit(ctx, actorID, auditAction, dealID, meta)

	metrics.ModerationActionsTotal.WithLabelValues(metricAction, "ok").Inc()
	s.logger.Info().
		Str("deal_id", dealID).
		Str("actor_id", actorID).
		Str("to", string(to)).
		Msg("deal moderated")

	return &ports.ModerationResult{DealID: dealID, Status: to, AuditWritten: written}, nil
}

// SetStatus is the administrator override: any current status, any target.
// A reason is mandatory only when the target is REJECTED.
func (s *ModerationService) SetStatus(ctx context.Context, actorID, dealID string, status domain.DealStatus, reason string) (*ports.ModerationResult, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.FieldValidationError("status", "unknown status")
	}
	if status == domain.StatusRejected && len(reason) < minRejectReasonLen {
		return nil, domain.FieldValidationError("reason", "reason is required when rejecting")
	}

	deal, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		if isNotFound(err) {
			metrics.ModerationActionsTotal.WithLabelValues("set_status", "not_found").Inc()
		}
		return nil, err
	}

	if err := s.deals.SetStatus(ctx, dealID, status); err != nil {
		metrics.ModerationActionsTotal.WithLabelValues("set_status", "error").Inc()
		return nil, err
	}

	meta := map[string]any{"from": string(deal.Status), "to": string(status)}
	if reason != "" {
		meta["reason"] = reason
	}
	written := s.writeAudit(ctx, actorID, domain.AuditDealSetStatus, dealID, meta)

	metrics.ModerationActionsTotal.WithLabelValues("set_status", "ok").Inc()
	return &ports.ModerationResult{DealID: dealID, Status: status, AuditWritten: written}, nil
}

// ListForAdmin lists deals across all businesses, optionally filtered by
// status, over the shared filter contract.
func (s *ModerationService) ListForAdmin(ctx context.Context, status domain.DealStatus, filter ports.DealFilter) (*ports.DealPage, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.FieldValidationError("status", "unknown status")
	}
	filter.Status = status
	filter.BusinessID = ""
	normalizeFilter(&filter)

	total, err := s.deals.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.deals.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.DealPage{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// ListPending is the moderation queue: PENDING deals, newest first.
func (s *ModerationService) ListPending(ctx context.Context, page, limit int) (*ports.DealPage, error) {
	return s.ListForAdmin(ctx, domain.StatusPending, ports.DealFilter{
		Sort:  ports.SortNewest,
		Page:  page,
		Limit: limit,
	})
}

// writeAudit attempts the append-only audit insert. Failures are logged and
// counted, never propagated: the transition has already committed.
func (s *ModerationService) writeAudit(ctx context.Context, actorID, action, dealID string, meta map[string]any) bool {
	err := s.audit.Insert(ctx, &domain.AuditLogEntry{
		ActorID:  actorID,
		Action:   action,
		Entity:   "Deal",
		EntityID: dealID,
		Meta:     meta,
	})
	if err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		s.logger.Warn().Err(err).
			Str("deal_id", dealID).
			Str("action", action).
			Msg("failed to write audit entry")
		return false
	}
	return true
}

func pastTense(s domain.DealStatus) string {
	switch s {
	case domain.StatusApproved:
		return "approved"
	case domain.StatusRejected:
		return "rejected"
	default:
		return "moved to " + string(s)
	}
}
