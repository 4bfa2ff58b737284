package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tawasol/web/internal/middleware"
	"github.com/tawasol/web/internal/models"
	"github.com/tawasol/web/internal/services"
)

var errBadRequest = errors.New("invalid request body")

// ProfileHandler serves the profile section views: mounting a Section or Page
// for one record kind and forwarding editor events to it.
type ProfileHandler struct {
	views   *services.ViewStore
	deps    services.CollectionDeps
	logger  *zap.Logger
	timeout time.Duration
}

func NewProfileHandler(views *services.ViewStore, deps services.CollectionDeps, timeout time.Duration) *ProfileHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{views: views, deps: deps, logger: logger, timeout: timeout}
}

// Routes registers the view endpoints. Callers put them behind JWTAuth.
func (h *ProfileHandler) Routes(r chi.Router) {
	r.Route("/views", func(r chi.Router) {
		r.Post("/", h.Mount)

		r.Route("/{viewId}", func(r chi.Router) {
			r.Get("/", h.GetView)
			r.Delete("/", h.Unmount)

			r.Route("/editor", func(r chi.Router) {
				r.Post("/add", h.OpenAdd)
				r.Post("/edit/{index}", h.OpenEdit)
				r.Post("/input", h.Input)
				r.Post("/key", h.Key)
				r.Post("/suggestions/{index}", h.SelectSuggestion)
				r.Post("/close", h.RequestClose)
				r.Post("/discard", h.ConfirmDiscard)
				r.Post("/keep", h.KeepEditing)
				r.Post("/delete", h.RequestDelete)
				r.Post("/delete/confirm", h.ConfirmDelete)
				r.Post("/delete/cancel", h.CancelDelete)
				r.Post("/save", h.Save)
			})
		})
	})
}

type mountRequest struct {
	UserID string `json:"userId"`
	Kind   string `json:"kind"`
	Shape  string `json:"shape"`
}

type viewResponse struct {
	ViewID string                  `json:"viewId"`
	View   services.CollectionView `json:"view"`
}

func (h *ProfileHandler) Mount(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	if viewerID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req mountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("userId is required"))
		return
	}
	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		return
	}
	if req.Shape == "" {
		req.Shape = string(services.ShapeSection)
	}
	shape, err := services.ParseShape(req.Shape)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		return
	}

	ctx, cancel := contextWithTimeout(services.WithAuthToken(r.Context(), middleware.GetToken(r.Context())), h.timeout)
	defer cancel()

	c, err := services.MountCollection(ctx, h.deps, services.MountOptions{
		UserID: req.UserID,
		Kind:   kind,
		Shape:  shape,
		Owner:  viewerID == req.UserID,
	})
	if err != nil {
		h.logger.Error("mount view failed",
			zap.String("viewer_id", viewerID), zap.String("user_id", req.UserID), zap.Error(err))
		if services.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Failed to load profile"))
		return
	}

	id := h.views.Add(viewerID, c)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(viewResponse{ViewID: id, View: c.View()}))
}

func (h *ProfileHandler) GetView(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(viewResponse{ViewID: id, View: c.View()}))
}

func (h *ProfileHandler) Unmount(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	if err := h.views.Remove(chi.URLParam(r, "viewId"), viewerID); err != nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("View not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) OpenAdd(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		return c.OpenAdd()
	})
}

func (h *ProfileHandler) OpenEdit(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			return services.ErrNoSuchRecord
		}
		return c.OpenEdit(index)
	})
}

type inputRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *ProfileHandler) Input(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		var req inputRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return errBadRequest
		}
		return c.Editor().Input(req.Field, req.Value)
	})
}

type keyRequest struct {
	Field string `json:"field"`
	Key   string `json:"key"`
}

func (h *ProfileHandler) Key(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		var req keyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return errBadRequest
		}
		return c.Editor().Key(req.Field, req.Key)
	})
}

type fieldRequest struct {
	Field string `json:"field"`
}

func (h *ProfileHandler) SelectSuggestion(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			return errBadRequest
		}
		var req fieldRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return errBadRequest
		}
		return c.Editor().SelectSuggestion(req.Field, index)
	})
}

func (h *ProfileHandler) RequestClose(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		return c.Editor().RequestClose()
	})
}

func (h *ProfileHandler) ConfirmDiscard(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		return c.Editor().ConfirmDiscard()
	})
}

func (h *ProfileHandler) KeepEditing(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		return c.Editor().KeepEditing()
	})
}

func (h *ProfileHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		return c.Editor().RequestDelete()
	})
}

func (h *ProfileHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		return c.Editor().CancelDelete()
	})
}

func (h *ProfileHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		ctx, cancel := contextWithTimeout(services.WithAuthToken(r.Context(), middleware.GetToken(r.Context())), h.timeout)
		defer cancel()
		return c.ConfirmDelete(ctx)
	})
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, func(c *services.Collection) error {
		ctx, cancel := contextWithTimeout(services.WithAuthToken(r.Context(), middleware.GetToken(r.Context())), h.timeout)
		defer cancel()
		return c.Save(ctx)
	})
}

func (h *ProfileHandler) lookup(w http.ResponseWriter, r *http.Request) (string, *services.Collection, bool) {
	viewerID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "viewId")
	c, err := h.views.Get(id, viewerID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("View not found"))
		return "", nil, false
	}
	return id, c, true
}

// event runs an owner-only editor action and answers with the resulting view.
func (h *ProfileHandler) event(w http.ResponseWriter, r *http.Request, fn func(c *services.Collection) error) {
	id, c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if !c.IsOwner() {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Only the profile owner can edit this section"))
		return
	}

	err := fn(c)
	resp := viewResponse{ViewID: id, View: c.View()}
	if err == nil {
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(resp))
		return
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, models.NewValidationErrorResponse(c.Editor().Errors(), resp))
	case errors.Is(err, errBadRequest), errors.Is(err, services.ErrUnknownField), errors.Is(err, services.ErrNotLookupField):
		writeJSON(w, http.StatusBadRequest, models.NewFailureResponse(err.Error(), resp))
	case errors.Is(err, services.ErrNoSuchRecord):
		writeJSON(w, http.StatusNotFound, models.NewFailureResponse("Record not found", resp))
	case errors.Is(err, services.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, models.NewFailureResponse("Only the profile owner can edit this section", resp))
	case errors.Is(err, services.ErrSaveInFlight):
		writeJSON(w, http.StatusConflict, models.NewFailureResponse("A save is already in progress", resp))
	case errors.Is(err, services.ErrDuplicateSkill), services.IsConflict(err):
		writeJSON(w, http.StatusConflict, models.NewFailureResponse(c.Notice(), resp))
	case errors.Is(err, services.ErrIllegalTransition):
		writeJSON(w, http.StatusConflict, models.NewFailureResponse(err.Error(), resp))
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, models.NewFailureResponse(c.Notice(), resp))
	case errors.Is(err, services.ErrViewClosed):
		writeJSON(w, http.StatusGone, models.NewErrorResponse("View was closed"))
	default:
		msg := c.Notice()
		if msg == "" {
			msg = services.MsgSaveFailed
		}
		writeJSON(w, http.StatusBadGateway, models.NewFailureResponse(msg, resp))
	}
}
