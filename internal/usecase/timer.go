package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"harvest-timer/internal/domain"
	"harvest-timer/internal/ports"
)

var (
	ErrNoRunningTimer      = errors.New("no timer is running today")
	ErrTimerAlreadyRunning = errors.New("a timer is already running")
	ErrNothingToResume     = errors.New("no stopped time entry to resume today")
	ErrProjectNotFound     = errors.New("project is not among your active assignments")
	ErrTaskNotFound        = errors.New("task is not assigned to the project")
)

// Status summarizes the authenticated user's day.
type Status struct {
	User    domain.User        `json:"user"`
	Entries []domain.TimeEntry `json:"entries"`
	Running *domain.TimeEntry  `json:"running,omitempty"`
	Hours   float64            `json:"hours"`
}

// ProjectTasks is an active project together with its active tasks.
type ProjectTasks struct {
	Project domain.Project `json:"project"`
	Tasks   []domain.Task  `json:"tasks"`
}

// TimerUseCase drives the Harvest timer on behalf of the current user.
type TimerUseCase struct {
	Log     *slog.Logger
	Harvest ports.Harvest
}

func (uc *TimerUseCase) ready() error {
	if uc.Harvest == nil || uc.Log == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	return nil
}

// Status fetches today's entries for the current user.
func (uc *TimerUseCase) Status(ctx context.Context) (Status, error) {
	if err := uc.ready(); err != nil {
		return Status{}, err
	}
	user, err := uc.Harvest.CurrentUser(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("current user: %w", err)
	}
	entries, err := uc.Harvest.TimeEntriesToday(ctx, user)
	if err != nil {
		return Status{}, fmt.Errorf("today's entries: %w", err)
	}

	st := Status{User: user, Entries: entries}
	for i := range entries {
		st.Hours += entries[i].Hours
		if entries[i].IsRunning {
			st.Running = &entries[i]
		}
	}
	uc.Log.Info("fetched today's entries", slog.Int("count", len(entries)), slog.Bool("running", st.Running != nil))
	return st, nil
}

// Projects lists the user's active projects with their active tasks.
func (uc *TimerUseCase) Projects(ctx context.Context) ([]ProjectTasks, error) {
	if err := uc.ready(); err != nil {
		return nil, err
	}
	user, err := uc.Harvest.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	projects, err := uc.Harvest.ActiveProjects(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("active projects: %w", err)
	}

	out := make([]ProjectTasks, 0, len(projects))
	for _, p := range projects {
		assignments, err := uc.Harvest.ProjectTaskAssignments(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("tasks of project %d: %w", p.ID, err)
		}
		pt := ProjectTasks{Project: p, Tasks: make([]domain.Task, 0, len(assignments))}
		for _, a := range assignments {
			pt.Tasks = append(pt.Tasks, a.Task)
		}
		out = append(out, pt)
	}
	uc.Log.Info("fetched projects", slog.Int("count", len(out)))
	return out, nil
}

// AccountProjects lists every active project in the account, one entry per
// page as the server paginated them.
func (uc *TimerUseCase) AccountProjects(ctx context.Context) ([]domain.Page[domain.Project], error) {
	if err := uc.ready(); err != nil {
		return nil, err
	}
	pages, err := uc.Harvest.ProjectPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("account projects: %w", err)
	}
	uc.Log.Info("fetched account projects", slog.Int("pages", len(pages)))
	return pages, nil
}

// Start begins a new timer after checking that the project is assigned to
// the user and the task to the project.
func (uc *TimerUseCase) Start(ctx context.Context, projectID, taskID uint64, notes string, hours float64) (domain.TimeEntry, error) {
	if err := uc.ready(); err != nil {
		return domain.TimeEntry{}, err
	}
	user, err := uc.Harvest.CurrentUser(ctx)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("current user: %w", err)
	}
	projects, err := uc.Harvest.ActiveProjects(ctx, user)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("active projects: %w", err)
	}
	project, ok := findProject(projects, projectID)
	if !ok {
		return domain.TimeEntry{}, fmt.Errorf("%w: %d", ErrProjectNotFound, projectID)
	}
	assignments, err := uc.Harvest.ProjectTaskAssignments(ctx, project)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("tasks of project %d: %w", project.ID, err)
	}
	task, ok := findTask(assignments, taskID)
	if !ok {
		return domain.TimeEntry{}, fmt.Errorf("%w: task %d, project %d", ErrTaskNotFound, taskID, projectID)
	}

	entry, err := uc.Harvest.StartTimer(ctx, project, task, notes, hours)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("start timer: %w", err)
	}
	uc.Log.Info("timer started",
		slog.Uint64("entry_id", entry.ID),
		slog.String("project", project.Name),
		slog.String("task", task.Name),
		slog.Bool("running", entry.IsRunning),
	)
	return entry, nil
}

// Stop stops today's running timer.
func (uc *TimerUseCase) Stop(ctx context.Context) (domain.TimeEntry, error) {
	st, err := uc.Status(ctx)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if st.Running == nil {
		return domain.TimeEntry{}, ErrNoRunningTimer
	}
	entry, err := uc.Harvest.StopTimer(ctx, *st.Running)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("stop timer %d: %w", st.Running.ID, err)
	}
	uc.Log.Info("timer stopped", slog.Uint64("entry_id", entry.ID), slog.Float64("hours", entry.Hours))
	return entry, nil
}

// Resume restarts today's most recently created entry, the one with the
// highest id. Harvest lists entries newest first, so list order alone is not used.
func (uc *TimerUseCase) Resume(ctx context.Context) (domain.TimeEntry, error) {
	st, err := uc.Status(ctx)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if st.Running != nil {
		return domain.TimeEntry{}, fmt.Errorf("%w: entry %d", ErrTimerAlreadyRunning, st.Running.ID)
	}
	if len(st.Entries) == 0 {
		return domain.TimeEntry{}, ErrNothingToResume
	}
	latest := st.Entries[0]
	for _, e := range st.Entries[1:] {
		if e.ID > latest.ID {
			latest = e
		}
	}
	entry, err := uc.Harvest.RestartTimer(ctx, latest)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("restart timer %d: %w", latest.ID, err)
	}
	uc.Log.Info("timer resumed", slog.Uint64("entry_id", entry.ID))
	return entry, nil
}

func findProject(projects []domain.Project, id uint64) (domain.Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

func findTask(assignments []domain.TaskAssignment, id uint64) (domain.Task, bool) {
	for _, a := range assignments {
		if a.Task.ID == id {
			return a.Task, true
		}
	}
	return domain.Task{}, false
}
