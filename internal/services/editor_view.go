package services

import (
	"github.com/ecodeclub/ekit/slice"
)

type FieldView struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Control  Control  `json:"control"`
	Required bool     `json:"required"`
	Options  []Option `json:"options,omitempty"`
	Value    string   `json:"value"`
	Error    string   `json:"error,omitempty"`
	// Logo is set on a lookup field bound to a directory entry.
	Logo        string         `json:"logo,omitempty"`
	Suggestions *TypeAheadView `json:"suggestions,omitempty"`
}

type EditorView struct {
	State             EditorState `json:"state"`
	Mode              EditorMode  `json:"mode,omitempty"`
	Title             string      `json:"title,omitempty"`
	Fields            []FieldView `json:"fields,omitempty"`
	CanDelete         bool        `json:"canDelete"`
	SaveDisabled      bool        `json:"saveDisabled"`
	ConfirmingDiscard bool        `json:"confirmingDiscard"`
	ConfirmingDelete  bool        `json:"confirmingDelete"`
}

// View renders the modal. A closed editor renders its state only.
func (e *Editor) View() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed {
		return EditorView{State: StateClosed}
	}

	verb := "Add "
	if e.mode == ModeEdit {
		verb = "Edit "
	}
	saving := e.state == StateSaving || (e.state == StateConfirmingDiscard && e.prev == StateSaving)
	return EditorView{
		State:             e.state,
		Mode:              e.mode,
		Title:             verb + e.spec.Label,
		Fields:            slice.Map(FieldSet(e.opts.Kind, e.opts.Clock()), e.fieldView),
		CanDelete:         e.canDelete(),
		SaveDisabled:      saving,
		ConfirmingDiscard: e.state == StateConfirmingDiscard,
		ConfirmingDelete:  e.state == StateConfirmingDelete,
	}
}

// fieldView is called with mu held.
func (e *Editor) fieldView(_ int, fs FieldSpec) FieldView {
	fv := FieldView{
		Name:     fs.Name,
		Label:    fs.Label,
		Control:  fs.Control,
		Required: fs.Required,
		Options:  fs.Options,
		Value:    e.form.Get(fs.Name),
		Error:    e.errs[fs.Name],
	}
	if fs.Control == ControlLookup && e.lookup != nil {
		ta := e.lookup.View()
		fv.Suggestions = &ta
		fv.Logo = e.form.CompanyLogo
	}
	return fv
}
