package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tawasol/web/internal/models"
)

// Shape selects how a collection is presented.
type Shape string

const (
	// ShapeSection is the compact preview embedded in the profile page.
	ShapeSection Shape = "section"
	// ShapePage is the full list reached through the section's overflow link.
	ShapePage Shape = "page"
)

// sectionPreview is how many cards a section shows before linking to the page.
const sectionPreview = 2

const (
	MsgDuplicateSkill = "This skill already exists"
	MsgSaveFailed     = "Failed to save. Please try again."
	MsgDeleteFailed   = "Failed to delete. Please try again."
)

var (
	ErrDuplicateSkill = errors.New("skill already exists")
	ErrNotOwner       = errors.New("viewer does not own this profile")
	ErrNoSuchRecord   = errors.New("no record at that position")
	ErrViewClosed     = errors.New("view was unmounted")
)

func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case ShapeSection, ShapePage:
		return Shape(s), nil
	}
	return "", errors.Errorf("unknown view shape %q", s)
}

// PageHref is the browser route of the full list for kind.
func PageHref(userID string, kind models.Kind) string {
	return "/profile/" + userID + "/details/" + models.Spec(kind).Path
}

type MountOptions struct {
	UserID string
	Kind   models.Kind
	Shape  Shape
	// Owner is true when the viewer is the profile's owner.
	Owner bool
}

type CollectionDeps struct {
	API     ProfileAPI
	Logger  *zap.Logger
	Metrics *Metrics
	Clock   func() time.Time
}

// Collection owns the list of one kind of record on one profile, together with
// the editor used to change it. Network calls never run under mu.
type Collection struct {
	api     ProfileAPI
	logger  *zap.Logger
	metrics *Metrics

	userID string
	kind   models.Kind
	spec   models.KindSpec
	shape  Shape
	owner  bool
	editor *Editor

	mu      sync.Mutex
	records []models.Record
	saving  bool
	notice  string
	closed  bool
}

// MountCollection loads the profile and, for the owner, the organization
// directory in parallel. Only a profile failure fails the mount.
func MountCollection(ctx context.Context, deps CollectionDeps, opts MountOptions) (*Collection, error) {
	spec := models.Spec(opts.Kind)
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("user_id", opts.UserID), zap.String("kind", string(opts.Kind)))

	var (
		prof *models.Profile
		dir  *Directory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := deps.API.GetProfile(gctx, opts.UserID)
		if err != nil {
			return errors.Wrapf(err, "load profile %s", opts.UserID)
		}
		prof = p
		return nil
	})
	if opts.Owner {
		g.Go(func() error {
			dir = LoadDirectory(gctx, deps.API, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Collection{
		api:     deps.API,
		logger:  logger,
		metrics: deps.Metrics,
		userID:  opts.UserID,
		kind:    opts.Kind,
		spec:    spec,
		shape:   opts.Shape,
		owner:   opts.Owner,
		records: prof.Records(opts.Kind),
	}
	c.editor = NewEditor(EditorOptions{
		Kind:        opts.Kind,
		AllowDelete: opts.Shape == ShapePage,
		Directory:   dir,
		Clock:       deps.Clock,
		OnSave:      c.persist,
		OnDelete:    c.remove,
	})
	return c, nil
}

func (c *Collection) Kind() models.Kind { return c.kind }
func (c *Collection) Shape() Shape      { return c.shape }
func (c *Collection) UserID() string    { return c.userID }
func (c *Collection) IsOwner() bool     { return c.owner }

// Editor exposes the modal for field-level events. Callers check IsOwner.
func (c *Collection) Editor() *Editor { return c.editor }

// Records returns a copy of the cached list.
func (c *Collection) Records() []models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Record(nil), c.records...)
}

// Notice is the last user-facing error message, empty if none.
func (c *Collection) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// OpenAdd opens the editor on an empty record.
func (c *Collection) OpenAdd() error {
	if !c.owner {
		return ErrNotOwner
	}
	c.clearNotice()
	return c.editor.OpenAdd()
}

// OpenEdit opens the editor on the record at index. Only the page offers
// per-record editing.
func (c *Collection) OpenEdit(index int) error {
	if !c.owner {
		return ErrNotOwner
	}
	if c.shape != ShapePage {
		return errors.Wrap(ErrIllegalTransition, "sections do not edit single records")
	}
	c.mu.Lock()
	if index < 0 || index >= len(c.records) || c.records[index].IsEmpty() {
		c.mu.Unlock()
		return errors.Wrapf(ErrNoSuchRecord, "index %d", index)
	}
	rec := c.records[index]
	c.notice = ""
	c.mu.Unlock()
	return c.editor.OpenEdit(rec)
}

// Save submits the editor. A save while another save or delete of this list is
// outstanding is refused before the editor is touched.
func (c *Collection) Save(ctx context.Context) error {
	if !c.owner {
		return ErrNotOwner
	}
	if c.isSaving() {
		return ErrSaveInFlight
	}
	return c.editor.Save(ctx)
}

// ConfirmDelete deletes the record open in the editor.
func (c *Collection) ConfirmDelete(ctx context.Context) error {
	if !c.owner {
		return ErrNotOwner
	}
	if c.isSaving() {
		return ErrSaveInFlight
	}
	return c.editor.ConfirmDelete(ctx)
}

// Unmount cancels in-flight work. Results arriving afterwards are dropped.
func (c *Collection) Unmount() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.editor.Close()
}

func (c *Collection) isSaving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

func (c *Collection) clearNotice() {
	c.mu.Lock()
	c.notice = ""
	c.mu.Unlock()
}

// begin checks and sets the saving flag.
func (c *Collection) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrViewClosed
	}
	if c.saving {
		return ErrSaveInFlight
	}
	c.saving = true
	c.notice = ""
	return nil
}

// end clears the saving flag and, unless the view or its modal went away
// meanwhile, applies the result to the list. It reports whether the view is
// still listening. A deadline or cancellation coming from the caller does not
// count as going away.
func (c *Collection) end(ctx context.Context, op string, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	if c.closed || errors.Is(context.Cause(ctx), ErrDiscarded) {
		c.logger.Info("discarding late result", zap.String("op", op))
		c.metrics.Operation(c.kind, op, ResultDiscarded)
		return false
	}
	if apply != nil {
		apply()
	}
	return true
}

// persist is the editor's save callback.
func (c *Collection) persist(ctx context.Context, req SaveRequest) error {
	op := "create"
	if req.Mode == ModeEdit {
		op = "update"
	}
	if c.kind == models.KindSkills && c.hasSkill(req.Record.RecordID(), req.Original) {
		c.mu.Lock()
		c.notice = MsgDuplicateSkill
		c.mu.Unlock()
		c.metrics.Operation(c.kind, op, ResultDuplicate)
		return ErrDuplicateSkill
	}
	if err := c.begin(); err != nil {
		return err
	}

	var (
		apply func()
		err   error
	)
	switch {
	case req.Mode == ModeEdit && c.shape == ShapePage:
		apply, err = c.update(ctx, req)
	case req.Mode == ModeEdit:
		err = errors.Wrap(ErrIllegalTransition, "sections do not edit single records")
	case c.shape == ShapePage:
		apply, err = c.create(ctx, req.Record)
	default:
		apply, err = c.createInSection(ctx, req.Record)
	}

	if err != nil {
		if !c.end(ctx, op, nil) {
			return ErrViewClosed
		}
		c.fail(op, err, c.saveMessage(err))
		return err
	}
	if !c.end(ctx, op, apply) {
		return ErrViewClosed
	}
	c.metrics.Operation(c.kind, op, ResultOK)
	return nil
}

// remove is the editor's delete callback.
func (c *Collection) remove(ctx context.Context, rec models.Record) error {
	const op = "delete"
	if err := c.begin(); err != nil {
		return err
	}
	id := rec.RecordID()
	err := c.api.DeleteRecord(ctx, c.userID, c.kind, id)
	if err != nil {
		if !c.end(ctx, op, nil) {
			return ErrViewClosed
		}
		c.fail(op, err, MsgDeleteFailed)
		return err
	}
	if !c.end(ctx, op, func() {
		if i := c.indexOf(id); i >= 0 {
			c.records = append(c.records[:i:i], c.records[i+1:]...)
		}
	}) {
		return ErrViewClosed
	}
	c.metrics.Operation(c.kind, op, ResultOK)
	return nil
}

func (c *Collection) create(ctx context.Context, rec models.Record) (func(), error) {
	stored, err := c.api.CreateRecord(ctx, c.userID, rec)
	if err != nil {
		return nil, err
	}
	return func() { c.records = append(c.records, stored) }, nil
}

// createInSection posts to the section endpoint, which answers without the
// stored record, then resyncs the list from the refreshed profile.
func (c *Collection) createInSection(ctx context.Context, rec models.Record) (func(), error) {
	if err := c.api.CreateSectionRecord(ctx, rec); err != nil {
		return nil, err
	}
	prof, err := c.api.GetProfile(ctx, c.userID)
	if err != nil {
		c.logger.Warn("profile refresh after create failed", zap.Error(err))
		return nil, nil
	}
	return func() { c.records = prof.Records(c.kind) }, nil
}

func (c *Collection) update(ctx context.Context, req SaveRequest) (func(), error) {
	id := req.Original.RecordID()
	stored, err := c.api.UpdateRecord(ctx, c.userID, id, req.Record)
	if err != nil {
		return nil, err
	}
	return func() {
		if i := c.indexOf(id); i >= 0 {
			c.records[i] = stored
			return
		}
		c.logger.Warn("updated record no longer in list", zap.String("id", id))
	}, nil
}

func (c *Collection) fail(op string, err error, msg string) {
	result := ResultFailed
	if IsConflict(err) {
		result = ResultConflict
	}
	c.logger.Error("record operation failed", zap.String("op", op), zap.Error(err))
	c.metrics.Operation(c.kind, op, result)
	c.mu.Lock()
	c.notice = msg
	c.mu.Unlock()
}

func (c *Collection) saveMessage(err error) string {
	if !IsConflict(err) {
		return MsgSaveFailed
	}
	if msg := ConflictMessage(err); msg != "" {
		return msg
	}
	if c.kind == models.KindSkills {
		return MsgDuplicateSkill
	}
	return MsgSaveFailed
}

// hasSkill reports whether another skill already uses name, ignoring case.
// original is the skill being edited, nil when adding.
func (c *Collection) hasSkill(name string, original models.Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, found := slice.Find(c.records, func(r models.Record) bool {
		if original != nil && r.RecordID() == original.RecordID() {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(r.RecordID()), name)
	})
	return found
}

// indexOf is called with mu held.
func (c *Collection) indexOf(id string) int {
	for i, r := range c.records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type CollectionView struct {
	Kind        models.Kind `json:"kind"`
	Shape       Shape       `json:"shape"`
	UserID      string      `json:"userId"`
	Owner       bool        `json:"owner"`
	Hidden      bool        `json:"hidden"`
	Title       string      `json:"title,omitempty"`
	Cards       []CardView  `json:"cards"`
	EmptyPrompt string      `json:"emptyPrompt,omitempty"`
	CanAdd      bool        `json:"canAdd"`
	EditAllHref string      `json:"editAllHref,omitempty"`
	Overflow    *Link       `json:"overflow,omitempty"`
	Notice      string      `json:"notice,omitempty"`
	Saving      bool        `json:"saving"`
	Editor      EditorView  `json:"editor"`
}

// View renders the collection. A non-owner looking at an empty list gets a
// hidden view with nothing else in it.
func (c *Collection) View() CollectionView {
	c.mu.Lock()
	cards := make([]CardView, 0, len(c.records))
	for i, r := range c.records {
		card, ok := RenderCard(r)
		if !ok {
			continue
		}
		card.Index = i
		card.Editable = c.owner && c.shape == ShapePage
		cards = append(cards, card)
	}
	v := CollectionView{
		Kind:   c.kind,
		Shape:  c.shape,
		UserID: c.userID,
		Owner:  c.owner,
		Title:  c.spec.Title,
		Notice: c.notice,
		Saving: c.saving,
	}
	c.mu.Unlock()

	if len(cards) == 0 && !c.owner {
		return CollectionView{Kind: c.kind, Shape: c.shape, UserID: c.userID, Hidden: true, Cards: []CardView{}}
	}

	v.CanAdd = c.owner
	if len(cards) == 0 {
		v.EmptyPrompt = fmt.Sprintf("No %s added yet. Click + to add your first %s.", c.spec.Label, c.spec.Label)
	}
	if c.shape == ShapeSection {
		if c.owner && len(cards) > 0 {
			v.EditAllHref = PageHref(c.userID, c.kind)
		}
		if len(cards) > sectionPreview {
			v.Overflow = &Link{
				Label: fmt.Sprintf("Show all %d %s", len(cards), c.spec.Plural),
				Href:  PageHref(c.userID, c.kind),
			}
			cards = cards[:sectionPreview]
		}
	}
	v.Cards = cards
	if c.owner {
		v.Editor = c.editor.View()
	} else {
		v.Editor = EditorView{State: StateClosed}
	}
	return v
}
