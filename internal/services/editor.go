// Editor is the record modal. Its states:
//
//	closed ──► open-clean ◄──► open-dirty ──► confirming-discard ──► closed
//	               │   │            │  │
//	               │   └────────────┼──┴──► confirming-delete ──► saving
//	               └────────────────┴─────► saving ──► closed
//
// A save or a confirmed delete passes through saving and always ends closed.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/tawasol/web/internal/models"
)

var (
	ErrIllegalTransition = errors.New("editor: action not available in the current state")
	ErrSaveInFlight      = errors.New("editor: a save is already in progress")
	ErrValidation        = errors.New("editor: form has errors")
	ErrNotLookupField    = errors.New("editor: field has no suggestions")
	// ErrDiscarded is the cancellation cause of a request the editor abandoned
	// through a discard or a forced close.
	ErrDiscarded = errors.New("editor: request discarded")
)

type EditorState string

const (
	StateClosed            EditorState = "closed"
	StateOpenClean         EditorState = "open-clean"
	StateOpenDirty         EditorState = "open-dirty"
	StateConfirmingDiscard EditorState = "confirming-discard"
	StateConfirmingDelete  EditorState = "confirming-delete"
	StateSaving            EditorState = "saving"
)

type EditorMode string

const (
	ModeAdd  EditorMode = "add"
	ModeEdit EditorMode = "edit"
)

var editorTransitions = map[EditorState][]EditorState{
	StateClosed:            {StateOpenClean},
	StateOpenClean:         {StateOpenClean, StateOpenDirty, StateClosed, StateConfirmingDelete, StateSaving},
	StateOpenDirty:         {StateOpenClean, StateOpenDirty, StateConfirmingDiscard, StateConfirmingDelete, StateSaving},
	StateConfirmingDiscard: {StateClosed, StateOpenDirty, StateSaving},
	StateConfirmingDelete:  {StateOpenClean, StateOpenDirty, StateSaving},
	StateSaving:            {StateClosed, StateConfirmingDiscard},
}

func isEditorTransitionAllowed(from, to EditorState) bool {
	for _, s := range editorTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SaveRequest is handed to the save callback. Original is nil when adding.
type SaveRequest struct {
	Mode     EditorMode
	Record   models.Record
	Original models.Record
}

type (
	SaveFunc   func(ctx context.Context, req SaveRequest) error
	DeleteFunc func(ctx context.Context, rec models.Record) error
)

type EditorOptions struct {
	Kind models.Kind
	// AllowDelete enables the delete action in edit mode.
	AllowDelete bool
	Directory   *Directory
	Clock       func() time.Time
	OnSave      SaveFunc
	OnDelete    DeleteFunc
}

type Editor struct {
	mu   sync.Mutex
	opts EditorOptions
	spec models.KindSpec

	state EditorState
	// prev is where a cancelled confirmation returns to.
	prev     EditorState
	mode     EditorMode
	original models.Record
	form     Form
	snapshot Form
	errs     FieldErrors
	lookup   *TypeAhead

	// gen changes on every open so a late completion can tell it is stale.
	gen    uint64
	cancel context.CancelCauseFunc
}

func NewEditor(opts EditorOptions) *Editor {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Editor{
		opts:  opts,
		spec:  models.Spec(opts.Kind),
		state: StateClosed,
	}
}

func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) transition(to EditorState) error {
	if !isEditorTransitionAllowed(e.state, to) {
		return errors.Wrapf(ErrIllegalTransition, "%s -> %s", e.state, to)
	}
	e.state = to
	return nil
}

// OpenAdd opens an empty form.
func (e *Editor) OpenAdd() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open(ModeAdd, nil, Form{})
}

// OpenEdit opens a form prefilled from rec.
func (e *Editor) OpenEdit(rec models.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open(ModeEdit, rec, FormFromRecord(rec))
}

func (e *Editor) open(mode EditorMode, rec models.Record, f Form) error {
	if err := e.transition(StateOpenClean); err != nil {
		return err
	}
	e.gen++
	e.mode = mode
	e.original = rec
	e.form = f
	e.snapshot = f
	e.errs = FieldErrors{}
	e.lookup = nil
	if e.spec.Lookup != "" {
		e.lookup = NewTypeAhead(e.opts.Directory)
	}
	return nil
}

func (e *Editor) editable() error {
	if e.state != StateOpenClean && e.state != StateOpenDirty {
		return errors.Wrapf(ErrIllegalTransition, "edit in %s", e.state)
	}
	return nil
}

func (e *Editor) settle() {
	if e.form == e.snapshot {
		e.state = StateOpenClean
	} else {
		e.state = StateOpenDirty
	}
}

// Input replaces the value of one field. Typing into the lookup field unbinds
// any organization chosen earlier.
func (e *Editor) Input(field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable(); err != nil {
		return err
	}
	if err := e.form.Set(field, value); err != nil {
		return err
	}
	if field == e.spec.Lookup {
		e.form.OrgRef = models.OrgRef{}
		e.lookup.Input(value)
	}
	delete(e.errs, field)
	e.settle()
	return nil
}

// Key forwards a keyboard event to the lookup field's suggestion list.
func (e *Editor) Key(field, key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable(); err != nil {
		return err
	}
	if field == "" || field != e.spec.Lookup {
		return errors.Wrapf(ErrNotLookupField, "%q", field)
	}
	if org, ok := e.lookup.Key(key); ok {
		e.commit(org)
	}
	return nil
}

// SelectSuggestion commits suggestion i of the lookup field.
func (e *Editor) SelectSuggestion(field string, i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable(); err != nil {
		return err
	}
	if field == "" || field != e.spec.Lookup {
		return errors.Wrapf(ErrNotLookupField, "%q", field)
	}
	if org, ok := e.lookup.Select(i); ok {
		e.commit(org)
	}
	return nil
}

func (e *Editor) commit(org models.Organization) {
	_ = e.form.Set(e.spec.Lookup, org.Name)
	e.form.OrgRef = org.Ref()
	delete(e.errs, e.spec.Lookup)
	e.settle()
}

// RequestClose closes a clean form and asks for confirmation on a dirty one.
// While saving, a clean form closes at once and cancels the request.
func (e *Editor) RequestClose() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	dirty := e.form != e.snapshot
	switch e.state {
	case StateOpenClean:
		return e.transition(StateClosed)
	case StateOpenDirty:
		e.prev = e.state
		return e.transition(StateConfirmingDiscard)
	case StateSaving:
		if dirty {
			e.prev = e.state
			return e.transition(StateConfirmingDiscard)
		}
		e.abort()
		return e.transition(StateClosed)
	}
	return errors.Wrapf(ErrIllegalTransition, "close in %s", e.state)
}

// ConfirmDiscard drops the unsaved changes and closes.
func (e *Editor) ConfirmDiscard() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateConfirmingDiscard {
		return errors.Wrapf(ErrIllegalTransition, "discard in %s", e.state)
	}
	e.abort()
	return e.transition(StateClosed)
}

// KeepEditing backs out of the discard confirmation.
func (e *Editor) KeepEditing() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateConfirmingDiscard {
		return errors.Wrapf(ErrIllegalTransition, "keep editing in %s", e.state)
	}
	return e.transition(e.prev)
}

func (e *Editor) canDelete() bool {
	return e.opts.AllowDelete && e.mode == ModeEdit && e.opts.OnDelete != nil
}

// RequestDelete asks for confirmation before deleting the edited record.
func (e *Editor) RequestDelete() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable(); err != nil {
		return err
	}
	if !e.canDelete() {
		return errors.Wrap(ErrIllegalTransition, "delete is not available")
	}
	e.prev = e.state
	return e.transition(StateConfirmingDelete)
}

func (e *Editor) CancelDelete() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateConfirmingDelete {
		return errors.Wrapf(ErrIllegalTransition, "cancel delete in %s", e.state)
	}
	return e.transition(e.prev)
}

// ConfirmDelete runs the delete callback. The editor closes afterwards
// whatever the outcome; the callback's error is returned.
func (e *Editor) ConfirmDelete(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateConfirmingDelete {
		e.mu.Unlock()
		return errors.Wrapf(ErrIllegalTransition, "confirm delete in %s", e.state)
	}
	opCtx, gen := e.begin(ctx)
	rec := e.original
	e.mu.Unlock()

	err := e.opts.OnDelete(opCtx, rec)
	e.finish(gen)
	return err
}

// Save validates the form and hands the normalized record to the save
// callback. Validation failures keep the editor open and return ErrValidation;
// otherwise the editor closes after the callback returns, even on error.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateSaving || (e.state == StateConfirmingDiscard && e.prev == StateSaving) {
		e.mu.Unlock()
		return ErrSaveInFlight
	}
	if err := e.editable(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.errs = Validate(e.opts.Kind, e.form, e.opts.Clock())
	if len(e.errs) > 0 {
		e.mu.Unlock()
		return ErrValidation
	}
	req := SaveRequest{
		Mode:     e.mode,
		Record:   Normalize(e.opts.Kind, e.form, e.original),
		Original: e.original,
	}
	opCtx, gen := e.begin(ctx)
	e.mu.Unlock()

	err := e.opts.OnSave(opCtx, req)
	e.finish(gen)
	return err
}

// begin enters saving and derives the cancellable context of the request.
// Callers hold mu.
func (e *Editor) begin(ctx context.Context) (context.Context, uint64) {
	e.state = StateSaving
	opCtx, cancel := context.WithCancelCause(ctx)
	e.cancel = cancel
	return opCtx, e.gen
}

func (e *Editor) finish(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return
	}
	e.abort()
	e.state = StateClosed
}

// abort cancels the in-flight request, if any. Callers hold mu.
func (e *Editor) abort() {
	if e.cancel != nil {
		e.cancel(ErrDiscarded)
		e.cancel = nil
	}
}

// Close force-closes the editor, cancelling any in-flight request. Used when
// the owning view goes away.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.abort()
	e.state = StateClosed
}

// Errors returns a copy of the current field errors.
func (e *Editor) Errors() FieldErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := make(FieldErrors, len(e.errs))
	for k, v := range e.errs {
		res[k] = v
	}
	return res
}

// Form returns the current form values.
func (e *Editor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}
