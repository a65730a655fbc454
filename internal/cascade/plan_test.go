package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(p Plan) []StepKind {
	out := make([]StepKind, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Kind
	}
	return out
}

func TestPlanTeamDeletionOrder(t *testing.T) {
	plan := PlanTeamDeletion(42)

	assert.Equal(t, ScopeTeam, plan.Scope)
	assert.EqualValues(t, 42, plan.RootID)
	// Leaves first, the team itself last.
	assert.Equal(t, []StepKind{
		StepComments,
		StepFiles,
		StepAssignments,
		StepTasks,
		StepParticipations,
		StepProjects,
		StepMemberships,
		StepTeam,
	}, kinds(plan))
}

func TestPlanProjectDeletionOrder(t *testing.T) {
	plan := PlanProjectDeletion(7)

	assert.Equal(t, ScopeProject, plan.Scope)
	assert.EqualValues(t, 7, plan.RootID)
	assert.Equal(t, []StepKind{
		StepComments,
		StepFiles,
		StepAssignments,
		StepTasks,
		StepParticipations,
		StepProject,
	}, kinds(plan))
}

func TestNoStepDeletesAParentBeforeItsChildren(t *testing.T) {
	// Dependency pairs: child must be deleted before parent.
	deps := [][2]StepKind{
		{StepComments, StepTasks},
		{StepFiles, StepTasks},
		{StepAssignments, StepTasks},
		{StepTasks, StepProjects},
		{StepParticipations, StepProjects},
		{StepProjects, StepTeam},
		{StepMemberships, StepTeam},
	}
	order := map[StepKind]int{}
	for i, k := range kinds(PlanTeamDeletion(1)) {
		order[k] = i
	}
	for _, d := range deps {
		child, parent := d[0], d[1]
		require.Contains(t, order, child)
		require.Contains(t, order, parent)
		assert.Less(t, order[child], order[parent], "%s must run before %s", child, parent)
	}
}
