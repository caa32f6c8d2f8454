// Package workflow sequences unreliable engine primitives into composite
// workflows with defined partial-failure semantics: full timeline
// assembly, single-scene replacement, and batch pairwise transitions.
// Steps fail independently; the run logs and continues except where a
// step has no meaningful partial result.
package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"kdenlive-mcp/internal/discovery"
	"kdenlive-mcp/internal/kdenlive"
	"kdenlive-mcp/internal/logging"
	"kdenlive-mcp/pkg/models"
)

// Options carries the policy knobs workflows need.
type Options struct {
	// InsertSettle is the wait after inserting a clip before querying it.
	InsertSettle time.Duration
	// DefaultClipDuration (frames) substitutes when the engine reports a
	// placement with no duration, so sequencing never stalls.
	DefaultClipDuration int
	// DefaultTransition (frames) is used when a request passes 0.
	DefaultTransition int
}

// Service runs composite workflows against one engine. The engine is a
// single stateful resource and concurrent primitive calls against it are
// unsafe, so invocations serialize on an internal mutex and each runs to
// completion on the caller's goroutine.
type Service struct {
	mu     sync.Mutex
	client kdenlive.Client
	disc   *discovery.Discoverer
	opts   Options
	sleep  discovery.SleepFunc
	log    *logging.Logger
}

// NewService wires a workflow service.
func NewService(client kdenlive.Client, disc *discovery.Discoverer, opts Options, log *logging.Logger) *Service {
	if opts.DefaultClipDuration <= 0 {
		opts.DefaultClipDuration = 125
	}
	if opts.DefaultTransition <= 0 {
		opts.DefaultTransition = 13
	}
	return &Service{
		client: client,
		disc:   disc,
		opts:   opts,
		sleep:  discovery.Sleep,
		log:    log.Component("workflow"),
	}
}

// WithSleep overrides the insert settle wait, for tests.
func (s *Service) WithSleep(sleep discovery.SleepFunc) *Service {
	s.sleep = sleep
	return s
}

func newOutcome() *models.Outcome {
	return &models.Outcome{RunID: uuid.New().String()}
}

// settleInsert waits for an insert's effects to become observable.
func (s *Service) settleInsert(ctx context.Context) error {
	return s.sleep(ctx, s.opts.InsertSettle)
}
