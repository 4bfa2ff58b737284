package services

import (
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically unmounts views nobody has touched for ttl.
type Sweeper struct {
	cron   *cron.Cron
	store  *ViewStore
	spec   string // cron spec, e.g. "@every 1m"
	ttl    time.Duration
	logger *zap.Logger
}

func NewSweeper(store *ViewStore, spec string, ttl time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		cron:   cron.New(cron.WithLogger(cronLogger{logger.Sugar()})),
		store:  store,
		spec:   spec,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Run); err != nil {
		return errors.Wrapf(err, "schedule view sweep %q", s.spec)
	}
	s.cron.Start()
	s.logger.Info("view sweeper started", zap.String("spec", s.spec), zap.Duration("ttl", s.ttl))
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("view sweeper stopped")
}

// Run performs one sweep.
func (s *Sweeper) Run() {
	if n := s.store.Sweep(s.ttl); n > 0 {
		s.logger.Info("unmounted idle views", zap.Int("count", n), zap.Int("remaining", s.store.Len()))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
