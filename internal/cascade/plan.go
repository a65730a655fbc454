// Package cascade plans ordered deletions for teams and projects. The
// schema declares no ON DELETE CASCADE rules, so children must go before
// parents or the store raises a foreign-key violation. Plans are pure
// data; internal/repositories executes them inside one transaction.
package cascade

// StepKind tags one class of dependent rows to remove.
type StepKind int

const (
	StepComments StepKind = iota
	StepFiles
	StepAssignments
	StepTasks
	StepParticipations
	StepProjects
	StepMemberships
	StepProject
	StepTeam
)

func (k StepKind) String() string {
	switch k {
	case StepComments:
		return "delete_comments"
	case StepFiles:
		return "delete_files"
	case StepAssignments:
		return "delete_assignments"
	case StepTasks:
		return "delete_tasks"
	case StepParticipations:
		return "delete_participations"
	case StepProjects:
		return "delete_projects"
	case StepMemberships:
		return "delete_memberships"
	case StepProject:
		return "delete_project"
	case StepTeam:
		return "delete_team"
	default:
		return "unknown"
	}
}

// Scope says which subtree a plan covers.
type Scope int

const (
	ScopeTeam Scope = iota
	ScopeProject
)

type Step struct {
	Kind StepKind
}

// Plan is an ordered list of deletion steps rooted at one entity. Every
// step must complete before the next begins.
type Plan struct {
	Scope Scope
	// RootID is the team id (ScopeTeam) or project id (ScopeProject).
	RootID int64
	Steps  []Step
}

// PlanTeamDeletion orders the removal of everything under a team:
// comments, files, assignments, tasks, participations, projects,
// memberships, then the team row itself.
func PlanTeamDeletion(teamID int64) Plan {
	return Plan{
		Scope:  ScopeTeam,
		RootID: teamID,
		Steps: []Step{
			{Kind: StepComments},
			{Kind: StepFiles},
			{Kind: StepAssignments},
			{Kind: StepTasks},
			{Kind: StepParticipations},
			{Kind: StepProjects},
			{Kind: StepMemberships},
			{Kind: StepTeam},
		},
	}
}

// PlanProjectDeletion orders the removal of everything under one project.
func PlanProjectDeletion(projectID int64) Plan {
	return Plan{
		Scope:  ScopeProject,
		RootID: projectID,
		Steps: []Step{
			{Kind: StepComments},
			{Kind: StepFiles},
			{Kind: StepAssignments},
			{Kind: StepTasks},
			{Kind: StepParticipations},
			{Kind: StepProject},
		},
	}
}
