package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	taskUC "github.com/fastygo/flow/usecase/task"
)

func (a *app) subCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Manage a task's checklist",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <task-id> <text>",
			Short: "Append a subtask",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSession(cmd.Context(), func(s *session) error {
					parent, err := s.resolve(args[0])
					if err != nil {
						return err
					}
					res, err := s.run(cmd.Context(), taskUC.CmdAddSubtask, taskUC.SubtaskPayload{TaskID: parent, Text: strings.Join(args[1:], " ")})
					if err != nil {
						return err
					}
					if !res.Changed || res.Subtask == nil {
						return fmt.Errorf("subtask text is empty")
					}
					fmt.Fprintf(a.stdout, "Added %s  %s\n", short(res.Subtask.ID), res.Subtask.Text)
					return nil
				})
			},
		},
		a.subtaskCmd("done", "Toggle a subtask", taskUC.CmdToggleSubtask, "Toggled"),
		a.subtaskCmd("rm", "Delete a subtask", taskUC.CmdDeleteSubtask, "Deleted"),
		&cobra.Command{
			Use:   "edit <task-id> <subtask-id> <text>",
			Short: "Replace a subtask's text",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSubtask(cmd, args, func(s *session, parent, sub string) error {
					res, err := s.run(cmd.Context(), taskUC.CmdUpdateSubtask, taskUC.SubtaskPayload{TaskID: parent, SubtaskID: sub, Text: strings.Join(args[2:], " ")})
					if err != nil {
						return err
					}
					a.report(res.Changed, "Updated", sub)
					return nil
				})
			},
		},
	)
	return cmd
}

func (a *app) subtaskCmd(use, desc, name, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id> <subtask-id>",
		Short: desc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSubtask(cmd, args, func(s *session, parent, sub string) error {
				res, err := s.run(cmd.Context(), name, taskUC.SubtaskPayload{TaskID: parent, SubtaskID: sub})
				if err != nil {
					return err
				}
				a.report(res.Changed, done, sub)
				return nil
			})
		},
	}
}

func (a *app) withSubtask(cmd *cobra.Command, args []string, fn func(s *session, parent, sub string) error) error {
	return a.withSession(cmd.Context(), func(s *session) error {
		parent, err := s.resolve(args[0])
		if err != nil {
			return err
		}
		sub, err := s.resolveSubtask(parent, args[1])
		if err != nil {
			return err
		}
		return fn(s, parent, sub)
	})
}
