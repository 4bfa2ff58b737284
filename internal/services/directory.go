package services

import (
	"context"
	"strings"

	"github.com/ecodeclub/ekit/slice"
	"go.uber.org/zap"

	"github.com/tawasol/web/internal/models"
)

// Directory is the organization list used for type-ahead suggestions. It is
// fetched once and never mutated afterwards, so it is safe to share.
type Directory struct {
	orgs []models.Organization
}

// LoadDirectory fetches the directory. A failure is logged and yields an empty
// directory: suggestions disappear but free-text entry keeps working.
func LoadDirectory(ctx context.Context, api ProfileAPI, l *zap.Logger) *Directory {
	orgs, err := api.ListOrganizations(ctx)
	if err != nil {
		l.Warn("organization directory unavailable", zap.Error(err))
		return &Directory{}
	}
	return &Directory{orgs: orgs}
}

// NewDirectory wraps an already fetched list.
func NewDirectory(orgs []models.Organization) *Directory {
	return &Directory{orgs: orgs}
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.orgs)
}

// Suggest returns entries whose name contains query, ignoring case. An empty
// query suggests nothing.
func (d *Directory) Suggest(query string) []models.Organization {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || d == nil {
		return nil
	}
	return slice.FindAll(d.orgs, func(o models.Organization) bool {
		return strings.Contains(strings.ToLower(o.Name), q)
	})
}
