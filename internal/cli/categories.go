package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/notes/internal/ui"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

func (a *App) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List categories with their note counts",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openNotebook(cmd.Context())
			if err != nil {
				return err
			}
			t := ui.Current()
			total := len(store.Notes())
			lines := []string{
				fmt.Sprintf("%s  %s %d", ui.C(t.Title, "Categories"), ui.C(t.Muted, "notes"), total),
				"",
			}
			fallback, _ := store.Fallback()
			for _, c := range store.Categories() {
				n := store.Count(c.ID)
				line := fmt.Sprintf("%s %-18s %s  %s",
					ui.Swatch(c.Color),
					ui.Truncate(c.Name, 18),
					ui.C(t.Muted, ui.ShareBar(n, total, 16)),
					ui.Dim(fmt.Sprintf("%d · id %s", n, c.ID)),
				)
				if c.ID == fallback.ID {
					line += " " + ui.C(t.Accent, "(default)")
				}
				lines = append(lines, line)
			}
			ui.Panel(a.out, lines)
			return nil
		},
	}
	cmd.AddCommand(a.categoryAddCmd())
	return cmd
}

func (a *App) categoryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <color>",
		Short: "Create a category, e.g. `notes categories add Work '#6A9C89'`",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, color := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			if name == "" {
				return usageError("category name required")
			}
			if !hexColor.MatchString(color) {
				return usageError("color must be a hex value like #78ABA8, got %q", color)
			}
			store, err := a.openNotebook(cmd.Context())
			if err != nil {
				return err
			}
			if c, ok := store.FindCategory(name); ok && strings.EqualFold(c.Name, name) {
				return usageError("category %q already exists (id %s)", c.Name, c.ID)
			}
			c, err := store.AddCategory(cmd.Context(), name, color)
			if err != nil {
				return a.remote(err)
			}
			ui.OK(a.out, fmt.Sprintf("added category %s %s (id %s)", ui.Swatch(c.Color), c.Name, c.ID))
			return nil
		},
	}
}
