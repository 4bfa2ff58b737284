package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tawasol/web/internal/models"
	svcmocks "github.com/tawasol/web/internal/services/mocks"
)

var testOrgs = []models.Organization{
	{ID: "o1", Name: "Acme Corp", Logo: "https://cdn/acme.png"},
	{ID: "o2", Name: "Globex", Logo: "https://cdn/globex.png"},
	{ID: "o3", Name: "Acme Labs"},
	{ID: "o4", Name: "Initech"},
}

func TestDirectory_Suggest(t *testing.T) {
	dir := NewDirectory(testOrgs)
	testCases := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query", query: "", want: nil},
		{name: "blank query", query: "  ", want: nil},
		{name: "case insensitive", query: "aCmE", want: []string{"o1", "o3"}},
		{name: "substring", query: "tech", want: []string{"o4"}},
		{name: "no match", query: "umbrella", want: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := dir.Suggest(tc.query)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			ids := make([]string, 0, len(got))
			for _, o := range got {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	testCases := []struct {
		name    string
		mock    func(ctrl *gomock.Controller) ProfileAPI
		wantLen int
	}{
		{
			name: "loaded",
			mock: func(ctrl *gomock.Controller) ProfileAPI {
				api := svcmocks.NewMockProfileAPI(ctrl)
				api.EXPECT().ListOrganizations(gomock.Any()).Return(testOrgs, nil)
				return api
			},
			wantLen: len(testOrgs),
		},
		{
			name: "failure degrades to empty",
			mock: func(ctrl *gomock.Controller) ProfileAPI {
				api := svcmocks.NewMockProfileAPI(ctrl)
				api.EXPECT().ListOrganizations(gomock.Any()).Return(nil, errors.New("connection refused"))
				return api
			},
			wantLen: 0,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			dir := LoadDirectory(context.Background(), tc.mock(ctrl), zap.NewNop())
			require.NotNil(t, dir)
			assert.Equal(t, tc.wantLen, dir.Len())
			if tc.wantLen == 0 {
				assert.Empty(t, dir.Suggest("acme"))
			}
		})
	}
}

func TestTypeAhead_KeyboardWraps(t *testing.T) {
	ta := NewTypeAhead(NewDirectory(testOrgs))
	ta.Input("acme")
	require.True(t, ta.View().Open)
	require.Len(t, ta.View().Suggestions, 2)
	assert.Equal(t, -1, ta.View().Highlight)

	ta.Key(KeyArrowDown)
	assert.Equal(t, 0, ta.View().Highlight)
	ta.Key(KeyArrowDown)
	assert.Equal(t, 1, ta.View().Highlight)
	ta.Key(KeyArrowDown)
	assert.Equal(t, 0, ta.View().Highlight, "down past the last wraps to the first")
	ta.Key(KeyArrowUp)
	assert.Equal(t, 1, ta.View().Highlight, "up before the first wraps to the last")
}

func TestTypeAhead_ArrowUpFromNothingSelectsLast(t *testing.T) {
	ta := NewTypeAhead(NewDirectory(testOrgs))
	ta.Input("acme")
	ta.Key(KeyArrowUp)
	assert.Equal(t, 1, ta.View().Highlight)
}

func TestTypeAhead_EnterCommitsHighlighted(t *testing.T) {
	ta := NewTypeAhead(NewDirectory(testOrgs))
	ta.Input("acme")

	_, ok := ta.Key(KeyEnter)
	assert.False(t, ok, "enter without a highlight commits nothing")

	ta.Key(KeyArrowDown)
	ta.Key(KeyArrowDown)
	org, ok := ta.Key(KeyEnter)
	require.True(t, ok)
	assert.Equal(t, "o3", org.ID)
	assert.False(t, ta.View().Open)
}

func TestTypeAhead_EscapeCloses(t *testing.T) {
	ta := NewTypeAhead(NewDirectory(testOrgs))
	ta.Input("glo")
	ta.Key(KeyArrowDown)
	_, ok := ta.Key(KeyEscape)
	assert.False(t, ok)
	assert.False(t, ta.View().Open)

	_, ok = ta.Key(KeyEnter)
	assert.False(t, ok, "keys are ignored while closed")
}

func TestTypeAhead_EmptyDirectory(t *testing.T) {
	ta := NewTypeAhead(nil)
	ta.Input("acme")
	assert.False(t, ta.View().Open)
	_, ok := ta.Select(0)
	assert.False(t, ok)
}
