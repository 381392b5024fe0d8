package alert

import (
	"context"
	"runtime"
	"time"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
)

// Service drives the evaluator on a fixed interval. Passes run on a single
// goroutine, so they never overlap: a slow pass delays the next tick rather
// than racing it.
type Service struct {
	eval     *Evaluator
	clock    clock.Clock
	interval time.Duration
	done     chan struct{}
	stopped  chan struct{}
}

func NewService(eval *Evaluator, clk clock.Clock, interval time.Duration) *Service {
	return &Service{
		eval:     eval,
		clock:    clk,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the pass loop. The first pass runs immediately.
func (s *Service) Start(ctx context.Context) {
	go s.run(ctx)
	log.Infof("alert service started, checking every %s", s.interval)
}

// Stop ends the loop and waits for an in-flight pass to finish.
func (s *Service) Stop() {
	close(s.done)
	<-s.stopped
	log.Info("alert service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.stopped)

	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	s.pass(ctx)
	for {
		select {
		case <-ticker.C:
			s.pass(ctx)
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) pass(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			log.Errorf("recovered from panic in evaluation pass: %v\n%s", r, stackBuf[:stackSize])
		}
	}()
	s.eval.RunPass(ctx)
}
