package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"harvest-timer/internal/domain"
)

func newStatusCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's time entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := st.app.Timer().Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(status.Entries) == 0 {
				fmt.Fprintln(out, "No time entries today.")
				return nil
			}
			writeEntries(out, status.Entries)
			fmt.Fprintf(out, "Total: %.2fh\n", status.Hours)
			return nil
		},
	}
}

func newProjectsCmd(st *state) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List your active projects and their tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if all {
				pages, err := st.app.Timer().AccountProjects(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, p := range pages {
					for _, project := range p.Items {
						fmt.Fprintf(tw, "%d\t%s\t%s\n", project.ID, project.Name, clientName(project))
					}
				}
				return tw.Flush()
			}

			projects, err := st.app.Timer().Projects(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, pt := range projects {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", pt.Project.ID, pt.Project.Name, clientName(pt.Project))
				for _, task := range pt.Tasks {
					fmt.Fprintf(tw, "  %d\t%s\t\n", task.ID, task.Name)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List every active project in the account, not only your assignments")
	return cmd
}

func newStartCmd(st *state) *cobra.Command {
	var notes string
	var hours float64
	cmd := &cobra.Command{
		Use:   "start <project-id> <task-id>",
		Short: "Start a timer, or log hours when --hours is given",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			taskID, err := parseID("task", args[1])
			if err != nil {
				return err
			}
			entry, err := st.app.Timer().Start(cmd.Context(), projectID, taskID, notes, hours)
			if err != nil {
				return err
			}
			writeEntries(cmd.OutOrStdout(), []domain.TimeEntry{entry})
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the time entry")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours to log instead of running a timer")
	return cmd
}

func newStopCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := st.app.Timer().Stop(cmd.Context())
			if err != nil {
				return err
			}
			writeEntries(cmd.OutOrStdout(), []domain.TimeEntry{entry})
			return nil
		},
	}
}

func newResumeCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Restart the last time entry of today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := st.app.Timer().Resume(cmd.Context())
			if err != nil {
				return err
			}
			writeEntries(cmd.OutOrStdout(), []domain.TimeEntry{entry})
			return nil
		},
	}
}

func writeEntries(out io.Writer, entries []domain.TimeEntry) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		marker := " "
		if e.IsRunning {
			marker = "▶"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.2fh\t%s\n", marker, e.ID, e.Project.Name, e.Task.Name, e.Hours, e.NoteText())
	}
	_ = tw.Flush()
}

func clientName(p domain.Project) string {
	if p.Client == nil {
		return "-"
	}
	return p.Client.Name
}

func parseID(kind, s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}
