package ports

import (
	"context"

	"harvest-timer/internal/domain"
)

// Harvest defines the remote operations the timer use case relies on.
// The Harvest service is authoritative for timer state; implementations
// do not check whether a transition is legal before sending it.
type Harvest interface {
	CurrentUser(ctx context.Context) (domain.User, error)
	ActiveProjects(ctx context.Context, user domain.User) ([]domain.Project, error)
	ProjectPages(ctx context.Context) ([]domain.Page[domain.Project], error)
	TimeEntriesToday(ctx context.Context, user domain.User) ([]domain.TimeEntry, error)
	ProjectTaskAssignments(ctx context.Context, project domain.Project) ([]domain.TaskAssignment, error)
	StartTimer(ctx context.Context, project domain.Project, task domain.Task, notes string, hours float64) (domain.TimeEntry, error)
	RestartTimer(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error)
	StopTimer(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error)
}
