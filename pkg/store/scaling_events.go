package store

import (
	"context"
	"time"

	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

type ScalingEventRepository struct {
	db *DB
}

func NewScalingEventRepository(db *DB) *ScalingEventRepository {
	return &ScalingEventRepository{db: db}
}

func (r *ScalingEventRepository) Insert(ctx context.Context, event *models.ScalingEvent) error {
	query := `
		INSERT INTO scaling_events
			(timestamp, direction, amount, agents_before, agents_after, trigger_reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		event.Timestamp,
		event.Direction,
		event.Amount,
		event.AgentsBefore,
		event.AgentsAfter,
		event.TriggerReason,
		event.Status,
	)
	return err
}

func (r *ScalingEventRepository) GetRecent(ctx context.Context, limit int) ([]models.ScalingEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, timestamp, direction, amount, agents_before, agents_after, trigger_reason, status
		FROM scaling_events
		ORDER BY timestamp DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ScalingEvent
	for rows.Next() {
		var e models.ScalingEvent
		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.Direction, &e.Amount,
			&e.AgentsBefore, &e.AgentsAfter, &e.TriggerReason, &e.Status,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

func (r *ScalingEventRepository) GetRange(ctx context.Context, from, to time.Time, limit int) ([]models.ScalingEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, timestamp, direction, amount, agents_before, agents_after, trigger_reason, status
		FROM scaling_events
		WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ScalingEvent
	for rows.Next() {
		var e models.ScalingEvent
		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.Direction, &e.Amount,
			&e.AgentsBefore, &e.AgentsAfter, &e.TriggerReason, &e.Status,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
