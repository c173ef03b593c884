package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tarynjenifer/smartgrow-ai/internal/task"
)

type tasksOpts struct {
	seedFile string
}

func newTasksCmd(a *app) *cobra.Command {
	o := &tasksOpts{}
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Work with the planner's task list",
	}
	cmd.PersistentFlags().StringVar(&o.seedFile, "seed", "", "YAML task list to start from instead of the built-in seed")

	cmd.AddCommand(
		newTasksListCmd(a, o),
		newTasksAddCmd(a, o),
		newTasksUpdateCmd(a, o),
		newTasksStatusCmd(a, o),
		newTasksRmCmd(a, o),
		newTasksUpcomingCmd(a, o),
		newTasksCountsCmd(a, o),
	)
	return cmd
}

func (o *tasksOpts) repo(ctx context.Context, a *app) (*task.MemoryRepo, error) {
	seed := a.content.Seed()
	if o.seedFile != "" {
		b, err := os.ReadFile(o.seedFile)
		if err != nil {
			return nil, err
		}
		seed = nil
		if err := yaml.Unmarshal(b, &seed); err != nil {
			return nil, fmt.Errorf("parse %s: %w", o.seedFile, err)
		}
	}
	repo := task.NewMemoryRepo(task.WithLogger(a.logger.Named("task")))
	if err := repo.Reset(ctx, seed); err != nil {
		return nil, err
	}
	return repo, nil
}

func (a *app) renderTasks(cmd *cobra.Command, ts []task.Task) error {
	return a.render(cmd.OutOrStdout(), ts, func(tw *tabwriter.Writer) {
		row(tw, "ID", "TITLE", "TYPE", "CROP", "ZONE", "DATE", "STATUS")
		for _, t := range ts {
			row(tw, t.ID, t.Title, t.Type, t.Crop, t.Zone, t.Date, t.Status)
		}
	})
}

func newTasksListCmd(a *app, o *tasksOpts) *cobra.Command {
	var status, typ, zone string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f task.Filter
			if status != "" && status != "all" {
				st, err := task.ParseStatus(status)
				if err != nil {
					return err
				}
				f.Status = st
			}
			if typ != "" && typ != "all" {
				tt, err := task.ParseType(typ)
				if err != nil {
					return err
				}
				f.Type = tt
			}
			f.Zone = zone

			repo, err := o.repo(cmd.Context(), a)
			if err != nil {
				return err
			}
			ts, err := repo.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			return a.renderTasks(cmd, ts)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only tasks with this status")
	cmd.Flags().StringVar(&typ, "type", "", "only tasks of this type")
	cmd.Flags().StringVar(&zone, "zone", "", "only tasks in this zone")
	return cmd
}

func newTasksAddCmd(a *app, o *tasksOpts) *cobra.Command {
	var d task.Draft
	var typ string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task and print the resulting list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if typ != "" {
				tt, err := task.ParseType(typ)
				if err != nil {
					return err
				}
				d.Type = tt
			}
			repo, err := o.repo(cmd.Context(), a)
			if err != nil {
				return err
			}
			if _, err := repo.Add(cmd.Context(), d); err != nil {
				return err
			}
			ts, err := repo.List(cmd.Context(), task.Filter{})
			if err != nil {
				return err
			}
			return a.renderTasks(cmd, ts)
		},
	}
	cmd.Flags().StringVar(&d.Title, "title", "", "task title")
	cmd.Flags().StringVar(&typ, "type", "", "planting, watering, harvesting or maintenance")
	cmd.Flags().StringVar(&d.Crop, "crop", "", "crop name")
	cmd.Flags().StringVar(&d.Zone, "zone", "", "growing zone")
	cmd.Flags().StringVar(&d.Date, "date", "", "scheduled date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&d.Notes, "notes", "", "free-form notes")
	return cmd
}

// missingTask applies planner.missing_ids to an unknown id.
func (a *app) missingTask(cmd *cobra.Command, id string) error {
	if !a.cfg.IgnoreMissingIDs() {
		return fmt.Errorf("%w: %q", task.ErrNotFound, id)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "no task with id %q, nothing changed\n", id)
	return nil
}

func newTasksUpdateCmd(a *app, o *tasksOpts) *cobra.Command {
	var title, typ, crop, zone, date, notes string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a task's fields and print the resulting list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f task.Fields
			flags := cmd.Flags()
			if flags.Changed("title") {
				f.Title = &title
			}
			if flags.Changed("type") {
				tt, err := task.ParseType(typ)
				if err != nil {
					return err
				}
				f.Type = &tt
			}
			if flags.Changed("crop") {
				f.Crop = &crop
			}
			if flags.Changed("zone") {
				f.Zone = &zone
			}
			if flags.Changed("date") {
				f.Date = &date
			}
			if flags.Changed("notes") {
				f.Notes = &notes
			}

			repo, err := o.repo(cmd.Context(), a)
			if err != nil {
				return err
			}
			_, ok, err := repo.Update(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			if !ok {
				if err := a.missingTask(cmd, args[0]); err != nil {
					return err
				}
			}
			ts, err := repo.List(cmd.Context(), task.Filter{})
			if err != nil {
				return err
			}
			return a.renderTasks(cmd, ts)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&typ, "type", "", "planting, watering, harvesting or maintenance")
	cmd.Flags().StringVar(&crop, "crop", "", "crop name")
	cmd.Flags().StringVar(&zone, "zone", "", "growing zone")
	cmd.Flags().StringVar(&date, "date", "", "scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newTasksStatusCmd(a *app, o *tasksOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change a task's status and print the resulting list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := task.ParseStatus(args[1])
			if err != nil {
				return err
			}
			repo, err := o.repo(cmd.Context(), a)
			if err != nil {
				return err
			}
			_, ok, err := repo.SetStatus(cmd.Context(), args[0], st)
			if err != nil {
				return err
			}
			if !ok {
				if err := a.missingTask(cmd, args[0]); err != nil {
					return err
				}
			}
			ts, err := repo.List(cmd.Context(), task.Filter{})
			if err != nil {
				return err
			}
			return a.renderTasks(cmd, ts)
		},
	}
}

func newTasksRmCmd(a *app, o *tasksOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"delete"},
		Short:   "Remove tasks and print the resulting list",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := o.repo(cmd.Context(), a)
			if err != nil {
				return err
			}
			for _, id := range args {
				if _, err := repo.Remove(cmd.Context(), strings.TrimSpace(id)); err != nil {
					return err
				}
			}
			ts, err := repo.List(cmd.Context(), task.Filter{})
			if err != nil {
				return err
			}
			return a.renderTasks(cmd, ts)
		},
	}
}

func newTasksUpcomingCmd(a *app, o *tasksOpts) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show the next tasks that are not completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.Planner.UpcomingLimit
			}
			repo, err := o.repo(cmd.Context(), a)
			if err != nil {
				return err
			}
			ts, err := repo.Upcoming(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.renderTasks(cmd, ts)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 3, "maximum number of tasks")
	return cmd
}

func newTasksCountsCmd(a *app, o *tasksOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show task counts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := o.repo(cmd.Context(), a)
			if err != nil {
				return err
			}
			c, err := repo.Counts(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), c, func(tw *tabwriter.Writer) {
				row(tw, "PENDING", "IN PROGRESS", "COMPLETED", "TOTAL")
				row(tw, c.Pending, c.InProgress, c.Completed, c.Total)
			})
		},
	}
}
