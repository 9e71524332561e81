package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"folio/internal/format"
	"folio/internal/model"
	"folio/internal/order"
	"folio/internal/portfolio"

	"github.com/spf13/cobra"
)

func projectsShelf(s *portfolio.Service) *portfolio.Shelf[model.Project] { return s.Projects }
func skillsShelf(s *portfolio.Service) *portfolio.Shelf[model.Skill]     { return s.Skills }
func certificationsShelf(s *portfolio.Service) *portfolio.Shelf[model.Certification] {
	return s.Certifications
}

// withShelf opens the data dir for the duration of fn.
func withShelf[T model.Record[T]](cmd *cobra.Command, app *App, shelfOf func(*portfolio.Service) *portfolio.Shelf[T], fn func(*portfolio.Shelf[T]) error) error {
	svc, err := app.openService(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer svc.Close()
	if err := fn(shelfOf(svc)); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func newKindCmd[T model.Record[T]](app *App, kind model.Kind, shelfOf func(*portfolio.Service) *portfolio.Shelf[T]) *cobra.Command {
	name := string(kind)
	cmd := &cobra.Command{
		Use:   name,
		Short: "Manage " + name + " (list, add, update, move, categories)",
	}

	var (
		sortBy  string
		admin   bool
		grouped bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List " + name + " in the public (default) or admin sort mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				var v portfolio.View[T]
				switch {
				case admin:
					var err error
					if v, err = shelf.AdminView(sortBy); err != nil {
						return err
					}
				case strings.TrimSpace(sortBy) != "":
					mode, err := model.ParseSortMode(sortBy)
					if err != nil {
						return err
					}
					v = shelf.ViewAs(mode)
				default:
					v = shelf.PublicView()
				}
				if grouped {
					return writeData(cmd, app, map[string]any{"sort_by": v.SortBy, "groups": v.Groups}, groupsTable(v.Groups))
				}
				return writeData(cmd, app, map[string]any{"sort_by": v.SortBy, "records": v.Records}, recordsTable(v.Records))
			})
		},
	}
	listCmd.Flags().StringVar(&sortBy, "sort", "", "Sort mode (manual|id|date); with --admin it is also remembered")
	listCmd.Flags().BoolVar(&admin, "admin", false, "Use the admin sort mode")
	listCmd.Flags().BoolVar(&grouped, "grouped", false, "Group records by category")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("id", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				rec, err := shelf.Get(id)
				if err != nil {
					return err
				}
				return writeData(cmd, app, rec, recordsTable([]T{rec}))
			})
		},
	}

	var (
		addJSON string
		addID   int
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Append a record (next free id unless --id or an \"id\" field is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readJSONFlag(cmd, addJSON)
			if err != nil {
				return writeErr(cmd, err)
			}
			var explicit *int
			if cmd.Flags().Changed("id") {
				explicit = &addID
			}
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				rec, err := shelf.AddJSON(body, explicit)
				if err != nil {
					return err
				}
				return writeData(cmd, app, rec, recordsTable([]T{rec}),
					fmt.Sprintf("folio %s move %d previous", name, rec.RecordID()))
			})
		},
	}
	addCmd.Flags().StringVar(&addJSON, "json", "", "Record as a JSON object (\"-\" reads stdin)")
	addCmd.Flags().IntVar(&addID, "id", 0, "Explicit id (must be >= 1 and unused)")
	_ = addCmd.MarkFlagRequired("json")

	var patchJSON string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Merge a JSON patch into a record (null removes a field)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("id", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			body, err := readJSONFlag(cmd, patchJSON)
			if err != nil {
				return writeErr(cmd, err)
			}
			patch := map[string]any{}
			if err := json.Unmarshal(body, &patch); err != nil {
				return writeErr(cmd, fmt.Errorf("%w: patch: %v", model.ErrInvalidInput, err))
			}
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				rec, err := shelf.Update(id, patch)
				if err != nil {
					return err
				}
				return writeData(cmd, app, rec, recordsTable([]T{rec}))
			})
		},
	}
	updateCmd.Flags().StringVar(&patchJSON, "json", "", "Patch as a JSON object (\"-\" reads stdin)")
	_ = updateCmd.MarkFlagRequired("json")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a record (its id is not reused)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("id", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				rec, err := shelf.Delete(id)
				if err != nil {
					return err
				}
				return writeData(cmd, app, rec, recordsTable([]T{rec}))
			})
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move <id> <previous|next>",
		Short: "Swap a record with its neighbour in the same category (admin order); public order becomes manual",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("id", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := model.ParseDirection(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				moved, err := shelf.Move(id, dir)
				if err != nil {
					return err
				}
				pub, adm := shelf.SortModes()
				return writeOut(cmd, app, envelope{Data: map[string]any{
					"id":          id,
					"direction":   dir.String(),
					"moved":       moved,
					"public_sort": pub,
					"admin_sort":  adm,
				}})
			})
		},
	}

	swapCmd := &cobra.Command{
		Use:   "swap <a> <b>",
		Short: "Swap the stored positions of two records",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseIDArg("a", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := parseIDArg("b", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				if err := shelf.Swap(a, b); err != nil {
					return err
				}
				return writeOut(cmd, app, envelope{Data: map[string]any{"swapped": []int{a, b}}})
			})
		},
	}

	reorderCmd := &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Put the named records first in the given order; the rest keep their relative order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, s := range args {
				id, err := parseIDArg("id", s)
				if err != nil {
					return writeErr(cmd, err)
				}
				ids = append(ids, id)
			}
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				recs, err := shelf.Reorder(ids)
				if err != nil {
					return err
				}
				return writeData(cmd, app, recs, recordsTable(recs))
			})
		},
	}

	usedCmd := &cobra.Command{
		Use:   "categories-used",
		Short: "List the distinct categories set on records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				used := shelf.CategoriesUsed()
				tab := format.Table{Head: []string{"CATEGORY"}}
				for _, c := range used {
					tab.Body = append(tab.Body, []string{c})
				}
				return writeData(cmd, app, used, tab)
			})
		},
	}

	cmd.AddCommand(listCmd, getCmd, addCmd, updateCmd, deleteCmd, moveCmd, swapCmd, reorderCmd, usedCmd)
	cmd.AddCommand(newCategoriesCmd(app, shelfOf))
	return cmd
}

func newCategoriesCmd[T model.Record[T]](app *App, shelfOf func(*portfolio.Service) *portfolio.Shelf[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the ordered category registry",
	}

	apply := func(cmd *cobra.Command, a order.RegistryAction) error {
		return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
			reg, err := shelf.ApplyCategory(a)
			if err != nil {
				return err
			}
			return writeData(cmd, app, reg, registryTable(reg))
		})
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the registry in group order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShelf(cmd, app, shelfOf, func(shelf *portfolio.Shelf[T]) error {
				reg := shelf.Registry()
				return writeData(cmd, app, reg, registryTable(reg))
			})
		},
	}
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Append a category (names are unique ignoring case)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apply(cmd, order.RegistryAction{Op: order.OpAdd, Name: args[0]})
		},
	}
	editCmd := &cobra.Command{
		Use:   "edit <id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("category id", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return apply(cmd, order.RegistryAction{Op: order.OpEdit, ID: id, Name: args[1]})
		},
	}
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a category; records keep their category string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("category id", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return apply(cmd, order.RegistryAction{Op: order.OpDelete, ID: id})
		},
	}
	moveCmd := &cobra.Command{
		Use:   "move <id> <previous|next>",
		Short: "Move a category one step in group order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("category id", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := model.ParseDirection(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return apply(cmd, order.RegistryAction{Op: order.OpMove, ID: id, Direction: dir})
		},
	}

	cmd.AddCommand(listCmd, addCmd, editCmd, deleteCmd, moveCmd)
	return cmd
}

func readJSONFlag(cmd *cobra.Command, v string) ([]byte, error) {
	v = strings.TrimSpace(v)
	if v == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		v = strings.TrimSpace(string(b))
	}
	if v == "" {
		return nil, errors.New("missing --json")
	}
	return []byte(v), nil
}

func recordRow[T model.Record[T]](r T) []string {
	return []string{strconv.Itoa(r.RecordID()), r.RecordCategory(), r.RecordDate(), r.RecordLabel()}
}

func recordsTable[T model.Record[T]](recs []T) format.Table {
	tab := format.Table{Head: []string{"ID", "CATEGORY", "DATE", "LABEL"}}
	for _, r := range recs {
		tab.Body = append(tab.Body, recordRow(r))
	}
	return tab
}

func groupsTable[T model.Record[T]](groups []order.Group[T]) format.Table {
	tab := format.Table{Head: []string{"GROUP", "ID", "DATE", "LABEL"}}
	for _, g := range groups {
		for _, r := range g.Records {
			tab.Body = append(tab.Body, []string{g.Category, strconv.Itoa(r.RecordID()), r.RecordDate(), r.RecordLabel()})
		}
	}
	return tab
}

func registryTable(reg []model.CategoryEntry) format.Table {
	tab := format.Table{Head: []string{"ID", "NAME"}}
	for _, e := range reg {
		tab.Body = append(tab.Body, []string{strconv.Itoa(int(e.ID)), e.Name})
	}
	return tab
}
