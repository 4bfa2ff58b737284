package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tawasol/web/internal/models"
)

// ProfileAPI is the upstream Tawasol REST backend as seen by the editor.
//
//go:generate mockgen -source=./profile_client.go -destination=./mocks/profile_api.mock.go -package=svcmocks ProfileAPI
type ProfileAPI interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	// CreateSectionRecord is POST /profile/{section}; the caller re-reads the
	// profile afterwards.
	CreateSectionRecord(ctx context.Context, rec models.Record) error
	// CreateRecord is POST /profile/{userId}/{type} and returns the stored record.
	CreateRecord(ctx context.Context, userID string, rec models.Record) (models.Record, error)
	// UpdateRecord is PATCH /profile/{userId}/{type}/{id}. id is the stored
	// record's id, which for a renamed skill differs from rec's.
	UpdateRecord(ctx context.Context, userID, id string, rec models.Record) (models.Record, error)
	DeleteRecord(ctx context.Context, userID string, kind models.Kind, id string) error
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("profile api http %d", e.Status)
	}
	return fmt.Sprintf("profile api http %d: %s", e.Status, e.Message)
}

// IsConflict reports a 409 anywhere in err's chain.
func IsConflict(err error) bool {
	return statusOf(err) == http.StatusConflict
}

func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ConflictMessage returns the backend message of a 409, if it sent one.
func ConflictMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return apiErr.Message
	}
	return ""
}

type tokenKey struct{}

// WithAuthToken attaches the viewer's bearer token for forwarding upstream.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func authToken(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

type ProfileClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewProfileClient(baseURL string, timeout time.Duration) *ProfileClient {
	return &ProfileClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *ProfileClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var prof models.Profile
	if err := c.do(ctx, http.MethodGet, "/profile/"+url.PathEscape(userID), nil, &prof); err != nil {
		return nil, err
	}
	return &prof, nil
}

func (c *ProfileClient) CreateSectionRecord(ctx context.Context, rec models.Record) error {
	return c.do(ctx, http.MethodPost, "/profile/"+models.Spec(rec.Kind()).Path, rec, nil)
}

func (c *ProfileClient) CreateRecord(ctx context.Context, userID string, rec models.Record) (models.Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, recordsPath(userID, rec.Kind()), models.WithoutID(rec), &raw); err != nil {
		return nil, err
	}
	return decodeStored(rec.Kind(), raw)
}

func (c *ProfileClient) UpdateRecord(ctx context.Context, userID, id string, rec models.Record) (models.Record, error) {
	var raw json.RawMessage
	path := recordsPath(userID, rec.Kind()) + "/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, rec, &raw); err != nil {
		return nil, err
	}
	return decodeStored(rec.Kind(), raw)
}

func (c *ProfileClient) DeleteRecord(ctx context.Context, userID string, kind models.Kind, id string) error {
	return c.do(ctx, http.MethodDelete, recordsPath(userID, kind)+"/"+url.PathEscape(id), nil, nil)
}

// ListOrganizations fetches the whole directory in one page. The backend
// requires a name filter, so the broadest one is sent.
func (c *ProfileClient) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("limit", "1000")
	q.Set("name", "a")

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/companies?"+q.Encode(), nil, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	var orgs []models.Organization
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &orgs); err != nil {
			return nil, errors.Wrap(err, "decode companies")
		}
		return orgs, nil
	}
	var page struct {
		Companies []models.Organization `json:"companies"`
		Data      []models.Organization `json:"data"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, errors.Wrap(err, "decode companies")
	}
	if page.Companies != nil {
		return page.Companies, nil
	}
	return page.Data, nil
}

func recordsPath(userID string, kind models.Kind) string {
	return "/profile/" + url.PathEscape(userID) + "/" + string(kind)
}

func decodeStored(kind models.Kind, raw json.RawMessage) (models.Record, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.Errorf("empty %s response", kind)
	}
	rec, err := models.DecodeRecord(kind, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode stored %s", kind)
	}
	return rec, nil
}

func (c *ProfileClient) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := authToken(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

// readMessage pulls the human message out of an error body, which the backend
// sends as {"message": ...} and older routes as {"error": ...}.
func readMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(b) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
