package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"weektrack/internal/core"
	"weektrack/pkg/domain"
)

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [project-id]",
		Short: "Show all projects, or one project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return a.showProject(svc, domain.ID(args[0]))
			}
			renderProjects(a.stdout, svc.Projects())
			return nil
		},
	}
}

func (a *app) projectCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "project", Short: "Manage projects"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a project with week 1 and a General Tasks category",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				p, err := svc.AddProject(cmd.Context(), joinArgs(args))
				if err != nil {
					return err
				}
				return a.showProject(svc, p.ID)
			},
		},
		&cobra.Command{
			Use:   "rename <project-id> <name>",
			Short: "Rename a project",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				id := domain.ID(args[0])
				if err := svc.RenameEntity(cmd.Context(), domain.KindProject, domain.Address{ProjectID: id}, joinArgs(args[1:])); err != nil {
					return err
				}
				return a.showProject(svc, id)
			},
		},
		&cobra.Command{
			Use:   "delete <project-id>",
			Short: "Delete a project and everything in it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				if err := svc.DeleteProject(cmd.Context(), domain.ID(args[0])); err != nil {
					return err
				}
				renderProjects(a.stdout, svc.Projects())
				return nil
			},
		},
	)
	return cmd
}

func (a *app) weekCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "week", Short: "Manage weeks"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <project-id> <dates>",
			Short: "Append the next numbered week",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				id := domain.ID(args[0])
				if _, err := svc.AddWeek(cmd.Context(), id, joinArgs(args[1:])); err != nil {
					return err
				}
				return a.showProject(svc, id)
			},
		},
		&cobra.Command{
			Use:   "rename <project-id> <week> <dates>",
			Short: "Change a week's dates label",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				addr, err := weekAddress(args)
				if err != nil {
					return err
				}
				if err := svc.RenameEntity(cmd.Context(), domain.KindWeek, addr, joinArgs(args[2:])); err != nil {
					return err
				}
				return a.showProject(svc, addr.ProjectID)
			},
		},
		&cobra.Command{
			Use:   "delete <project-id> <week>",
			Short: "Delete a week and its categories",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				addr, err := weekAddress(args)
				if err != nil {
					return err
				}
				if _, err := svc.DeleteWeek(cmd.Context(), addr.ProjectID, addr.WeekNumber); err != nil {
					return err
				}
				return a.showProject(svc, addr.ProjectID)
			},
		},
	)
	return cmd
}

func (a *app) categoryCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "category", Short: "Manage categories within a week"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <project-id> <week> <name>",
			Short: "Add a category to a week",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				addr, err := weekAddress(args)
				if err != nil {
					return err
				}
				if _, err := svc.AddCategory(cmd.Context(), addr.ProjectID, addr.WeekNumber, joinArgs(args[2:])); err != nil {
					return err
				}
				return a.showProject(svc, addr.ProjectID)
			},
		},
		&cobra.Command{
			Use:   "rename <project-id> <week> <old-name> <new-name>",
			Short: "Rename a category",
			Args:  cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				addr, err := weekAddress(args)
				if err != nil {
					return err
				}
				addr.CategoryName = args[2]
				if err := svc.RenameEntity(cmd.Context(), domain.KindCategory, addr, args[3]); err != nil {
					return err
				}
				return a.showProject(svc, addr.ProjectID)
			},
		},
		&cobra.Command{
			Use:   "delete <project-id> <week> <name>",
			Short: "Delete every category with this name in the week",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				addr, err := weekAddress(args)
				if err != nil {
					return err
				}
				if _, err := svc.DeleteCategory(cmd.Context(), addr.ProjectID, addr.WeekNumber, joinArgs(args[2:])); err != nil {
					return err
				}
				return a.showProject(svc, addr.ProjectID)
			},
		},
	)
	return cmd
}

func (a *app) taskCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Manage tasks"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <project-id> <category> <description>",
			Short: "Add a task to a category of the project's latest week",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				id := domain.ID(args[0])
				if _, err := svc.AddTask(cmd.Context(), id, args[1], joinArgs(args[2:])); err != nil {
					return err
				}
				return a.showProject(svc, id)
			},
		},
		&cobra.Command{
			Use:   "toggle <task-id>",
			Short: "Flip a task between open and done",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				id := domain.ID(args[0])
				if _, err := svc.ToggleTaskCompletion(cmd.Context(), id); err != nil {
					return err
				}
				return a.showTaskProject(svc, id)
			},
		},
		&cobra.Command{
			Use:   "rename <task-id> <description>",
			Short: "Change a task's description",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				id := domain.ID(args[0])
				if err := svc.RenameEntity(cmd.Context(), domain.KindTask, domain.Address{TaskID: id}, joinArgs(args[1:])); err != nil {
					return err
				}
				return a.showTaskProject(svc, id)
			},
		},
		&cobra.Command{
			Use:   "delete <task-id>",
			Short: "Delete a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				id := domain.ID(args[0])
				owner, found := projectOfTask(svc.Projects(), id)
				if err := svc.DeleteTask(cmd.Context(), id); err != nil {
					return err
				}
				if found {
					return a.showProject(svc, owner)
				}
				return nil
			},
		},
	)
	return cmd
}

func (a *app) exportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the serialized project tree to stdout or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			blob, err := svc.Export()
			if err != nil {
				return err
			}
			if out == "" {
				_, err = fmt.Fprintln(a.stdout, blob)
				return err
			}
			return os.WriteFile(out, []byte(blob), 0o600)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every project with the contents of a snapshot file",
		Long: `Replace every project with the contents of a snapshot file. Both the
versioned document written by export and the legacy top-level array format
with numeric identifiers are accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Import(cmd.Context(), string(data)); err != nil {
				return err
			}
			renderProjects(a.stdout, svc.Projects())
			return nil
		},
	}
}

func (a *app) showProject(svc *core.Service, id domain.ID) error {
	p, ok := svc.FindProject(id)
	if !ok {
		return domain.NotFoundError{Entity: domain.KindProject, Key: id.String()}
	}
	renderProject(a.stdout, p)
	return nil
}

func (a *app) showTaskProject(svc *core.Service, taskID domain.ID) error {
	owner, ok := projectOfTask(svc.Projects(), taskID)
	if !ok {
		return domain.NotFoundError{Entity: domain.KindTask, Key: taskID.String()}
	}
	return a.showProject(svc, owner)
}

func projectOfTask(projects []domain.Project, taskID domain.ID) (domain.ID, bool) {
	for _, p := range projects {
		for _, w := range p.Weeks {
			for _, c := range w.Categories {
				if _, ok := domain.FindTask(c.Tasks, taskID); ok {
					return p.ID, true
				}
			}
		}
	}
	return "", false
}

func weekAddress(args []string) (domain.Address, error) {
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return domain.Address{}, fmt.Errorf("week must be a positive number, got %q", args[1])
	}
	return domain.Address{ProjectID: domain.ID(args[0]), WeekNumber: n}, nil
}

func joinArgs(args []string) string { return strings.Join(args, " ") }

func (a *app) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored snapshot so the next run starts from the sample project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gw, err := a.storage(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := gw.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintln(a.stdout, "Snapshot removed.")
			} else {
				fmt.Fprintln(a.stdout, "Nothing stored.")
			}
			return nil
		},
	}
}
