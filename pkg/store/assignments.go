package store

import (
	"context"

	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

type AssignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Insert(ctx context.Context, a *models.TaskAssignment) error {
	query := `
		INSERT INTO task_assignments (task_id, agent_id, strategy, candidates, assigned_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		a.TaskID, a.AgentID, a.Strategy, a.Candidates, a.AssignedAt,
	)
	return err
}

func (r *AssignmentRepository) GetRecent(ctx context.Context, limit int) ([]models.TaskAssignment, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, task_id, agent_id, strategy, candidates, assigned_at
		FROM task_assignments
		ORDER BY assigned_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.TaskAssignment
	for rows.Next() {
		var a models.TaskAssignment
		err := rows.Scan(&a.ID, &a.TaskID, &a.AgentID, &a.Strategy, &a.Candidates, &a.AssignedAt)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}
