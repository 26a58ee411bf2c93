package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devtrack/taskboard/internal/board"
	"github.com/devtrack/taskboard/internal/client"
	"github.com/devtrack/taskboard/internal/models"
)

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func parseState(arg string) (models.TaskState, error) {
	state := models.TaskState(strings.ToUpper(arg))
	if !state.Known() {
		return "", fmt.Errorf("state must be TODO, IN_PROGRESS or DONE, got %q", arg)
	}
	return state, nil
}

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Render the task board for the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			u := app.Auth.User()
			b := board.Derive(u, app.Tasks.Tasks())
			renderBoard(cmd.OutOrStdout(), b, app.Tasks.Developers())
			return nil
		},
	}
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, update, assign and delete tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskUpdateCmd(app),
		newTaskDoneCmd(app),
		newTaskDeleteCmd(app),
		newTaskAssignCmd(app),
	)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var label, state string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task (managers only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			taskState, err := parseState(state)
			if err != nil {
				return err
			}
			return app.Tasks.AddTask(cmd.Context(), client.TaskRequest{
				TaskLabel: label,
				TaskState: taskState,
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "task label")
	cmd.Flags().StringVar(&state, "state", string(models.StateTodo), "initial state")
	cmd.MarkFlagRequired("label")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var label, state string

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task's label and/or state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			var patch client.TaskPatch
			if cmd.Flags().Changed("label") {
				patch.TaskLabel = &label
			}
			if cmd.Flags().Changed("state") {
				taskState, err := parseState(state)
				if err != nil {
					return err
				}
				patch.TaskState = &taskState
			}
			if patch.TaskLabel == nil && patch.TaskState == nil {
				return fmt.Errorf("nothing to update: pass --label and/or --state")
			}

			updated, err := app.Tasks.UpdateTask(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is now %q (%s)\n", updated.ID, updated.TaskLabel, updated.TaskState)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "new label")
	cmd.Flags().StringVar(&state, "state", "", "new state")

	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task DONE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			done := models.StateDone
			_, err = app.Tasks.UpdateTask(cmd.Context(), id, client.TaskPatch{TaskState: &done})
			return err
		},
	}
}

func newTaskDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task (managers only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return app.Tasks.DeleteTask(cmd.Context(), id)
		},
	}
}

func newTaskAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task-id> <developer-id>",
		Short: "Assign a task to a developer (managers only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return app.Tasks.AssignTask(cmd.Context(), id, args[1])
		},
	}
}

func newTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage a manager's team",
	}

	add := &cobra.Command{
		Use:   "add <developer-id>",
		Short: "Add a developer to your team (managers only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			u := app.Auth.User()
			if u.Role != models.RoleManager {
				return fmt.Errorf("only managers have a team")
			}
			if err := app.Tasks.AddDeveloperToTeam(cmd.Context(), args[0], u.ID); err != nil {
				return err
			}
			// The roster lives on the identity, so refresh it.
			return app.Auth.FetchUser(cmd.Context())
		},
	}

	cmd.AddCommand(add)
	return cmd
}
