package model

// Category groups notes. Categories are immutable once created.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // RGB hex, e.g. "#EF9C66"
}

const (
	// AllCategoriesName labels the synthetic sidebar entry for the All filter.
	AllCategoriesName = "All Categories"
	// AllCategoriesColor is the accent used for the All entry.
	AllCategoriesColor = "#8B4513"

	// UnknownCategoryName and UnknownCategoryColor are shown for notes whose
	// category does not resolve.
	UnknownCategoryName  = "Uncategorized"
	UnknownCategoryColor = "#000000"
)

// DefaultCategories are created when the remote store has none. Order matters:
// the first one becomes the fallback for drafts saved under All.
var DefaultCategories = []Category{
	{Name: "Random Thoughts", Color: "#EF9C66"},
	{Name: "School", Color: "#FCDC94"},
	{Name: "Personal", Color: "#78ABA8"},
}

// UnknownCategory is the safe default returned when a category id
// does not resolve.
func UnknownCategory(id string) Category {
	return Category{ID: id, Name: UnknownCategoryName, Color: UnknownCategoryColor}
}

// CategoryFilter selects which notes are visible: either all of them or
// the ones in one specific category. The zero value means All.
type CategoryFilter struct {
	id string
}

// AllCategories returns the filter that matches every note.
func AllCategories() CategoryFilter { return CategoryFilter{} }

// OnlyCategory returns a filter matching notes in the given category.
// An empty id yields the All filter.
func OnlyCategory(id string) CategoryFilter { return CategoryFilter{id: id} }

func (f CategoryFilter) IsAll() bool { return f.id == "" }

// CategoryID returns the concrete category id and false for All.
func (f CategoryFilter) CategoryID() (string, bool) {
	return f.id, f.id != ""
}

// Matches reports whether a note in categoryID is visible under f.
func (f CategoryFilter) Matches(categoryID string) bool {
	return f.IsAll() || f.id == categoryID
}

func (f CategoryFilter) String() string {
	if f.IsAll() {
		return "all"
	}
	return f.id
}

// SidebarEntry is one selectable row of the category sidebar.
type SidebarEntry struct {
	Filter CategoryFilter
	Name   string
	Color  string
}

// AllEntry is the synthetic sidebar row placed ahead of the real categories.
func AllEntry() SidebarEntry {
	return SidebarEntry{Filter: AllCategories(), Name: AllCategoriesName, Color: AllCategoriesColor}
}
