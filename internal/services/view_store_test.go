package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tawasol/web/internal/models"
	svcmocks "github.com/tawasol/web/internal/services/mocks"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newStoreCollection(t *testing.T, ctrl *gomock.Controller) *Collection {
	t.Helper()
	api := svcmocks.NewMockProfileAPI(ctrl)
	return mountForTest(t, api, models.KindSkills, ShapePage, false, &models.Profile{})
}

func TestViewStore_OnlyTheMountingViewerSeesAView(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := NewViewStore(nil, nil)
	c := newStoreCollection(t, ctrl)

	id := s.Add("viewer-1", c)
	got, err := s.Get(id, "viewer-1")
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = s.Get(id, "viewer-2")
	assert.ErrorIs(t, err, ErrViewNotFound)
	assert.ErrorIs(t, s.Remove(id, "viewer-2"), ErrViewNotFound)

	require.NoError(t, s.Remove(id, "viewer-1"))
	_, err = s.Get(id, "viewer-1")
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestViewStore_Sweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	clock := &fakeClock{now: testNow}
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	s := NewViewStore(clock.Now, metrics)

	idle := s.Add("v", newStoreCollection(t, ctrl))
	clock.Advance(20 * time.Minute)
	active := s.Add("v", newStoreCollection(t, ctrl))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.views))

	clock.Advance(15 * time.Minute)
	_, err := s.Get(active, "v")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Sweep(30*time.Minute))
	_, err = s.Get(idle, "v")
	assert.ErrorIs(t, err, ErrViewNotFound)
	_, err = s.Get(active, "v")
	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.views))
}

func TestViewStore_CloseAllCancelsInFlightSaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := svcmocks.NewMockProfileAPI(ctrl)
	c := mountForTest(t, api, models.KindSkills, ShapePage, true, &models.Profile{})
	s := NewViewStore(nil, nil)
	s.Add("u1", c)

	started := make(chan struct{})
	api.EXPECT().CreateRecord(gomock.Any(), testUser, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, rec models.Record) (models.Record, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
	require.NoError(t, c.OpenAdd())
	require.NoError(t, c.Editor().Input(models.FieldSkillName, "Go"))

	done := make(chan error, 1)
	go func() { done <- c.Save(context.Background()) }()
	<-started
	s.CloseAll()

	assert.ErrorIs(t, <-done, ErrViewClosed)
	assert.Equal(t, 0, s.Len())
}

func TestSweeper_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	clock := &fakeClock{now: testNow}
	s := NewViewStore(clock.Now, nil)
	s.Add("v", newStoreCollection(t, ctrl))

	sw := NewSweeper(s, "@every 1m", time.Minute, zap.NewNop())
	sw.Run()
	assert.Equal(t, 1, s.Len())

	clock.Advance(2 * time.Minute)
	sw.Run()
	assert.Equal(t, 0, s.Len())
}

func TestSweeper_RejectsBadSpec(t *testing.T) {
	sw := NewSweeper(NewViewStore(nil, nil), "every minute please", time.Minute, zap.NewNop())
	assert.Error(t, sw.Start())
}

func TestSweeper_NilLogger(t *testing.T) {
	sw := NewSweeper(NewViewStore(nil, nil), "@every 1h", time.Minute, nil)
	require.NoError(t, sw.Start())
	sw.Run()
	sw.Stop()
}
