package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"teamdesk/internal/cascade"
)

// CascadeRepository executes a deletion plan. Every step runs inside a
// single transaction so an observer never sees a half-deleted team.
type CascadeRepository interface {
	Execute(ctx context.Context, plan cascade.Plan) error
}

type cascadeRepository struct {
	db *sql.DB
}

func NewCascadeRepository(db *sql.DB) CascadeRepository {
	return &cascadeRepository{db: db}
}

// stepSQL maps (scope, step) to the DELETE for that layer. The root id
// is always $1. Team-scope statements reach the leaf tables through
// USING joins; project-scope ones join one level less.
var stepSQL = map[cascade.Scope]map[cascade.StepKind]string{
	cascade.ScopeTeam: {
		cascade.StepComments: `
			DELETE FROM task_comment USING task, project
			WHERE task_comment.task_id = task.task_id
			  AND task.project_id = project.project_id
			  AND project.team_id = $1`,
		cascade.StepFiles: `
			DELETE FROM task_files USING task, project
			WHERE task_files.task_id = task.task_id
			  AND task.project_id = project.project_id
			  AND project.team_id = $1`,
		cascade.StepAssignments: `
			DELETE FROM assigned_to USING task, project
			WHERE assigned_to.task_id = task.task_id
			  AND task.project_id = project.project_id
			  AND project.team_id = $1`,
		cascade.StepTasks: `
			DELETE FROM task USING project
			WHERE task.project_id = project.project_id
			  AND project.team_id = $1`,
		cascade.StepParticipations: `
			DELETE FROM participation USING project
			WHERE participation.project_id = project.project_id
			  AND project.team_id = $1`,
		cascade.StepProjects: `
			DELETE FROM project WHERE team_id = $1`,
		cascade.StepMemberships: `
			DELETE FROM belong WHERE team_id = $1`,
		cascade.StepTeam: `
			DELETE FROM team WHERE team_id = $1`,
	},
	cascade.ScopeProject: {
		cascade.StepComments: `
			DELETE FROM task_comment USING task
			WHERE task_comment.task_id = task.task_id
			  AND task.project_id = $1`,
		cascade.StepFiles: `
			DELETE FROM task_files USING task
			WHERE task_files.task_id = task.task_id
			  AND task.project_id = $1`,
		cascade.StepAssignments: `
			DELETE FROM assigned_to USING task
			WHERE assigned_to.task_id = task.task_id
			  AND task.project_id = $1`,
		cascade.StepTasks: `
			DELETE FROM task WHERE project_id = $1`,
		cascade.StepParticipations: `
			DELETE FROM participation WHERE project_id = $1`,
		cascade.StepProject: `
			DELETE FROM project WHERE project_id = $1`,
	},
}

func (r *cascadeRepository) Execute(ctx context.Context, plan cascade.Plan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements, ok := stepSQL[plan.Scope]
	if !ok {
		return fmt.Errorf("cascade: unknown scope %d", plan.Scope)
	}
	for _, step := range plan.Steps {
		q, ok := statements[step.Kind]
		if !ok {
			return fmt.Errorf("cascade: no statement for step %s in scope %d", step.Kind, plan.Scope)
		}
		if _, err := tx.ExecContext(ctx, q, plan.RootID); err != nil {
			return fmt.Errorf("cascade: step %s: %w", step.Kind, err)
		}
	}
	return tx.Commit()
}
