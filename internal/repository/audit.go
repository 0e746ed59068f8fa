package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmeshcher/gasflow/internal/model"
)

// RecordEvent добавляет событие в журнал аудита.
func (r *PostgresRepository) RecordEvent(ctx context.Context, e model.AuditEvent) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("%w: marshal audit details: %w", model.ErrInfrastructure, err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_events (actor_id, entity, entity_id, action, details)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ActorID, e.Entity, e.EntityID, e.Action, payload,
	)
	if err != nil {
		return mapError("record audit event", err)
	}
	return nil
}
