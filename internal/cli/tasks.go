package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastygo/flow/internal/view"
	taskUC "github.com/fastygo/flow/usecase/task"
)

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("filter")
			filter, err := view.ParseFilter(raw)
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *session) error {
				renderList(a.stdout, s.tasks.List(filter), s.loc)
				return nil
			})
		},
	}
	cmd.Flags().StringP("filter", "f", "all", "all, active or completed")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task at the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				res, err := s.run(cmd.Context(), taskUC.CmdAdd, taskUC.TextPayload{Text: strings.Join(args, " ")})
				if err != nil {
					return err
				}
				if !res.Changed || res.Task == nil {
					return fmt.Errorf("task text is empty")
				}
				fmt.Fprintf(a.stdout, "Added %s  %s\n", short(res.Task.ID), res.Task.Text)
				return nil
			})
		},
	}
}

// taskCmd builds a command that resolves one task id and applies name to it.
func (a *app) taskCmd(use, desc, name, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: desc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				id, err := s.resolve(args[0])
				if err != nil {
					return err
				}
				res, err := s.run(cmd.Context(), name, taskUC.IDPayload{ID: id})
				if err != nil {
					return err
				}
				a.report(res.Changed, done, id)
				return nil
			})
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return a.taskCmd("done", "Toggle a task between active and completed", taskUC.CmdToggleCompleted, "Toggled")
}

func (a *app) favCmd() *cobra.Command {
	return a.taskCmd("fav", "Toggle the favorite star", taskUC.CmdToggleFavorite, "Starred/unstarred")
}

func (a *app) rmCmd() *cobra.Command {
	return a.taskCmd("rm", "Delete a task", taskUC.CmdDelete, "Deleted")
}

func (a *app) unremindCmd() *cobra.Command {
	return a.taskCmd("unremind", "Clear a task's reminder", taskUC.CmdClearReminder, "Cleared reminder on")
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				id, err := s.resolve(args[0])
				if err != nil {
					return err
				}
				res, err := s.run(cmd.Context(), taskUC.CmdUpdateText, taskUC.TextPayload{ID: id, Text: strings.Join(args[1:], " ")})
				if err != nil {
					return err
				}
				a.report(res.Changed, "Updated", id)
				return nil
			})
		},
	}
}

func (a *app) remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind <id> <when>",
		Short: "Set a reminder: +10m, 15:04 or an RFC3339 time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				id, err := s.resolve(args[0])
				if err != nil {
					return err
				}
				at, err := parseWhen(args[1], s.clock.Now(), s.loc)
				if err != nil {
					return err
				}
				res, err := s.run(cmd.Context(), taskUC.CmdSetReminder, taskUC.ReminderPayload{ID: id, At: at.UnixMilli()})
				if err != nil {
					return err
				}
				if res.Changed {
					fmt.Fprintf(a.stdout, "Reminder for %s at %s\n", short(id), at.In(s.loc).Format("Mon Jan 2 3:04 PM"))
				} else {
					fmt.Fprintf(a.stdout, "No change to %s\n", short(id))
				}
				return nil
			})
		},
	}
}

func (a *app) clearCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				before := s.store.Len()
				if _, err := s.run(cmd.Context(), taskUC.CmdClearCompleted, struct{}{}); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Removed %d completed task(s)\n", before-s.store.Len())
				return nil
			})
		},
	}
}

func (a *app) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <target-id>",
		Short: "Move a task to the position currently held by target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				moved, err := s.resolve(args[0])
				if err != nil {
					return err
				}
				target, err := s.resolve(args[1])
				if err != nil {
					return err
				}
				res, err := s.run(cmd.Context(), taskUC.CmdReorder, taskUC.ReorderPayload{MovedID: moved, TargetID: target})
				if err != nil {
					return err
				}
				a.report(res.Changed, "Moved", moved)
				return nil
			})
		},
	}
}

func (a *app) report(changed bool, verb, id string) {
	if changed {
		fmt.Fprintf(a.stdout, "%s %s\n", verb, short(id))
		return
	}
	fmt.Fprintf(a.stdout, "No change to %s\n", short(id))
}
