package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/notes/internal/editor"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/notebook"
	"github.com/idilsaglam/notes/internal/ui"
)

// categoryFilter resolves a --category value (id or name) against store.
// An empty ref means All.
func categoryFilter(store *notebook.Store, ref string) (model.CategoryFilter, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, "all") {
		return model.AllCategories(), nil
	}
	c, ok := store.FindCategory(ref)
	if !ok {
		return model.CategoryFilter{}, usageError("unknown category %q, see `notes categories`", ref)
	}
	return model.OnlyCategory(c.ID), nil
}

func (a *App) lsCmd() *cobra.Command {
	var (
		category string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List notes, newest first",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openNotebook(cmd.Context())
			if err != nil {
				return err
			}
			filter, err := categoryFilter(store, category)
			if err != nil {
				return err
			}
			store.SelectCategory(filter)
			notes := store.Filtered()

			if asJSON {
				if notes == nil {
					notes = []model.Note{}
				}
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(notes)
			}
			a.printNotes(store, notes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only notes in this category (name or id)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print notes as JSON")
	return cmd
}

func (a *App) printNotes(store *notebook.Store, notes []model.Note) {
	t := ui.Current()
	total := len(store.Notes())
	name := model.AllCategoriesName
	if id, ok := store.Selected().CategoryID(); ok {
		name = store.Resolve(id).Name
	}

	header := fmt.Sprintf("%s  %s  %s %d/%d",
		ui.C(t.Title, "Notes"),
		ui.C(t.Accent, name),
		ui.C(t.Muted, "shown"), len(notes), total,
	)
	lines := []string{header, ui.C(t.Muted, ui.ShareBar(len(notes), total, 28)), ""}

	if len(notes) == 0 {
		lines = append(lines, ui.C(t.Muted, "no notes"))
	}
	now := a.session.Now()
	for _, n := range notes {
		cat := store.Resolve(n.CategoryID)
		lines = append(lines, fmt.Sprintf("%s %s %s  %s",
			ui.Dim(fmt.Sprintf("%4s", n.ID)),
			ui.Swatch(cat.Color),
			ui.Truncate(n.Title, 60),
			ui.C(t.Muted, model.DateLabel(n.UpdatedAt, now)+" · "+cat.Name),
		))
	}
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `notes add \"Buy milk\"`"))
	ui.Panel(a.out, lines)
}

func (a *App) addCmd() *cobra.Command {
	var content, category string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a note (title may be several words)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openNotebook(cmd.Context())
			if err != nil {
				return err
			}
			filter, err := categoryFilter(store, category)
			if err != nil {
				return err
			}

			ed := editor.New(store)
			if err := ed.OpenCreate(filter); err != nil {
				return err
			}
			ed.SetTitle(strings.TrimSpace(strings.Join(args, " ")))
			ed.SetContent(content)
			n, err := ed.Submit(cmd.Context())
			if errors.Is(err, editor.ErrNothingToSave) {
				return usageError("add: title or --content required")
			}
			if err != nil {
				return a.remote(err)
			}
			ui.OK(a.out, fmt.Sprintf("added %q to %s (id %s)", n.Title, store.Resolve(n.CategoryID).Name, n.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "note body")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name or id (default: first category)")
	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var title, content, category string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note's title, content or category",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openNotebook(cmd.Context())
			if err != nil {
				return err
			}
			note, ok := store.Find(args[0])
			if !ok {
				return a.remote(fmt.Errorf("%w: %s", notebook.ErrNotFound, args[0]))
			}

			ed := editor.New(store)
			if err := ed.OpenEdit(note); err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				ed.SetTitle(title)
			}
			if flags.Changed("content") {
				ed.SetContent(content)
			}
			if flags.Changed("category") {
				filter, err := categoryFilter(store, category)
				if err != nil {
					return err
				}
				ed.SetCategory(filter)
			}
			if !ed.Dirty() {
				ui.OK(a.out, "no changes")
				return nil
			}
			n, err := ed.Submit(cmd.Context())
			if errors.Is(err, editor.ErrNothingToSave) {
				return usageError("edit: a note needs a title or content")
			}
			if err != nil {
				return a.remote(err)
			}
			ui.OK(a.out, fmt.Sprintf("updated %q", n.Title))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new body")
	cmd.Flags().StringVarP(&category, "category", "c", "", "move to category (name or id)")
	return cmd
}

func (a *App) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openNotebook(cmd.Context())
			if err != nil {
				return err
			}
			n, _ := store.Find(args[0])
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return a.remote(err)
			}
			ui.OK(a.out, fmt.Sprintf("removed %q", n.Title))
			return nil
		},
	}
}
