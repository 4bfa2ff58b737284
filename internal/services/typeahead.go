package services

import "github.com/tawasol/web/internal/models"

// Keys understood by the type-ahead.
const (
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
)

// TypeAhead is the suggestion list of one lookup field.
type TypeAhead struct {
	dir         *Directory
	suggestions []models.Organization
	// highlight is the keyboard cursor, -1 when nothing is highlighted.
	highlight int
	open      bool
}

func NewTypeAhead(dir *Directory) *TypeAhead {
	return &TypeAhead{dir: dir, highlight: -1}
}

// Input refilters against the directory for the text now in the field.
func (t *TypeAhead) Input(text string) {
	t.suggestions = t.dir.Suggest(text)
	t.open = len(t.suggestions) > 0
	t.highlight = -1
}

// Key applies one keyboard event. It returns the organization to commit when
// Enter lands on a highlighted suggestion. Keys are ignored while the list is
// closed.
func (t *TypeAhead) Key(key string) (models.Organization, bool) {
	n := len(t.suggestions)
	if !t.open || n == 0 {
		return models.Organization{}, false
	}
	switch key {
	case KeyArrowDown:
		t.highlight = (t.highlight + 1) % n
	case KeyArrowUp:
		if t.highlight <= 0 {
			t.highlight = n - 1
		} else {
			t.highlight--
		}
	case KeyEnter:
		if t.highlight >= 0 {
			return t.Select(t.highlight)
		}
	case KeyEscape:
		t.Close()
	}
	return models.Organization{}, false
}

// Select commits suggestion i, as a pointer click does.
func (t *TypeAhead) Select(i int) (models.Organization, bool) {
	if !t.open || i < 0 || i >= len(t.suggestions) {
		return models.Organization{}, false
	}
	org := t.suggestions[i]
	t.Close()
	return org, true
}

func (t *TypeAhead) Close() {
	t.open = false
	t.highlight = -1
}

type TypeAheadView struct {
	Open        bool                  `json:"open"`
	Suggestions []models.Organization `json:"suggestions,omitempty"`
	Highlight   int                   `json:"highlight"`
}

func (t *TypeAhead) View() TypeAheadView {
	if !t.open {
		return TypeAheadView{Highlight: -1}
	}
	return TypeAheadView{Open: true, Suggestions: t.suggestions, Highlight: t.highlight}
}
