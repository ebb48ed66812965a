package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"signaldesk/src/connectors"
	"signaldesk/src/consensus"
	"signaldesk/src/model"
	"signaldesk/src/utils"
)

const (
	maxPairLength          = 32
	defaultProviderTimeout = 30 * time.Second
	exceptionService       = "signal_generator"
)

// SignalStore is the persistence the generator needs.
type SignalStore interface {
	FindAll(ctx context.Context) ([]model.Signal, error)
	FindLatest(ctx context.Context) (*model.Signal, error)
	Create(ctx context.Context, signal *model.Signal) error
	DeleteAll(ctx context.Context) error
}

// Publisher is notified after a signal is stored.
type Publisher interface {
	Publish(ctx context.Context, signal *model.Signal) error
}

// Recorder receives generation metrics.
type Recorder interface {
	RecordProviderResult(provider model.ProviderName, outcome string)
	RecordSignal(action string, branch string)
	RecordGenerationLatency(seconds float64)
	RecordError(kind string)
}

// ExceptionSink persists provider failures for auditing.
type ExceptionSink interface {
	Create(ctx context.Context, exception *model.Exception) error
}

type noopRecorder struct{}

func (noopRecorder) RecordProviderResult(model.ProviderName, string) {}
func (noopRecorder) RecordSignal(string, string) {}
func (noopRecorder) RecordGenerationLatency(float64) {}
func (noopRecorder) RecordError(string) {}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithPublisher(p Publisher) Option {
	return func(g *Generator) { g.publisher = p }
}

func WithRecorder(r Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

func WithExceptionSink(s ExceptionSink) Option {
	return func(g *Generator) { g.exceptions = s }
}

func WithProviderTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.providerTimeout = d
		}
	}
}

// Generator turns a pair into a stored consensus signal.
type Generator struct {
	logger          *logrus.Entry
	providers       [3]connectors.Provider
	store           SignalStore
	publisher       Publisher
	recorder        Recorder
	exceptions      ExceptionSink
	providerTimeout time.Duration
	now             func() time.Time
}

func NewGenerator(logger *logrus.Entry, providers [3]connectors.Provider, store SignalStore, opts ...Option) *Generator {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	g := &Generator{
		logger:          logger.WithField("component", "generator"),
		providers:       providers,
		store:           store,
		recorder:        noopRecorder{},
		providerTimeout: defaultProviderTimeout,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ValidatePair trims the pair and checks its length in characters.
func ValidatePair(pair string) (string, error) {
	pair = strings.TrimSpace(pair)
	if pair == "" || utf8.RuneCountInString(pair) > maxPairLength {
		return "", ErrInvalidPair
	}
	return pair, nil
}

// Generate asks all providers in parallel, votes, and inserts exactly one signal.
// A provider that fails contributes an empty opinion. When every provider fails
// to answer, nothing is stored and ErrAllProvidersFailed is returned.
func (g *Generator) Generate(ctx context.Context, pair string) (*model.Signal, error) {
	started := g.now()

	pair, err := ValidatePair(pair)
	if err != nil {
		g.recorder.RecordError(ErrorKind(err))
		return nil, err
	}

	log := g.logger.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"pair":   pair,
	})
	log.Info("generating signal")

	prompt := connectors.BuildPrompt(pair, started)
	opinions, failures := g.collect(ctx, log, pair, prompt)

	if err := ctx.Err(); err != nil {
		log.WithError(err).Warn("request canceled before persisting")
		return nil, fmt.Errorf("generate canceled: %w", err)
	}

	if fetchFailures(failures) == len(g.providers) {
		errs := []error{ErrAllProvidersFailed}
		for _, f := range failures {
			errs = append(errs, f)
		}
		err := errors.Join(errs...)
		log.WithError(err).Error("no provider answered")
		g.recorder.RecordError(ErrorKind(err))
		return nil, err
	}

	decision := consensus.Aggregate(opinions)
	start, end := utils.NextSignalWindow(g.now())

	signal := &model.Signal{
		Pair:       pair,
		Action:     decision.Action,
		Confidence: decision.Confidence,
		StartTime:  utils.FormatWindowBound(start),
		EndTime:    utils.FormatWindowBound(end),
		Status:     model.SignalStatusActive,
		Analysis:   decision.Analysis,
		Verifiers:  model.VerifierNames(decision.Verifiers),
	}

	if err := g.store.Create(ctx, signal); err != nil {
		perr := &PersistenceError{Op: "create", Err: err}
		log.WithError(err).Error("failed to store signal")
		g.recorder.RecordError(ErrorKind(perr))
		return nil, perr
	}

	if g.publisher != nil {
		if err := g.publisher.Publish(ctx, signal); err != nil {
			log.WithError(err).Warn("failed to publish signal")
		}
	}

	g.recorder.RecordSignal(signal.Action, string(decision.Branch))
	g.recorder.RecordGenerationLatency(g.now().Sub(started).Seconds())

	log.WithFields(logrus.Fields{
		"signal_id":  signal.ID,
		"action":     signal.Action,
		"confidence": signal.Confidence,
		"branch":     decision.Branch,
		"verifiers":  decision.Verifiers,
		"failures":   len(failures),
	}).Info("signal generated")

	return signal, nil
}

// collect fans out one query per provider. Each goroutine writes only its own
// slot, so the arrays need no locking; the group never returns an error so a
// failing provider cannot cancel the others.
func (g *Generator) collect(ctx context.Context, log *logrus.Entry, pair, prompt string) ([3]model.ProviderOpinion, []*ProviderError) {
	var opinions [3]model.ProviderOpinion
	var errs [3]*ProviderError

	var group errgroup.Group
	for i, provider := range g.providers {
		name := model.ProviderOrder[i]
		if provider != nil {
			name = provider.Name()
		}
		group.Go(func() error {
			opinions[i], errs[i] = g.query(ctx, provider, name, pair, prompt)
			return nil
		})
	}
	_ = group.Wait()

	var failures []*ProviderError
	for i, perr := range errs {
		if perr == nil {
			g.recorder.RecordProviderResult(opinions[i].Provider, "ok")
			continue
		}
		failures = append(failures, perr)
		g.recorder.RecordProviderResult(perr.Provider, string(perr.Stage)+"_error")
		log.WithError(perr.Err).WithFields(logrus.Fields{
			"provider": perr.Provider,
			"stage":    perr.Stage,
		}).Warn("provider failed, using empty opinion")
		g.recordException(ctx, log, pair, perr)
	}
	return opinions, failures
}

func (g *Generator) query(ctx context.Context, provider connectors.Provider, name model.ProviderName, pair, prompt string) (model.ProviderOpinion, *ProviderError) {
	if provider == nil {
		return model.EmptyOpinion(name), &ProviderError{Provider: name, Stage: StageFetch, Err: connectors.ErrNotConfigured}
	}

	qctx, cancel := context.WithTimeout(ctx, g.providerTimeout)
	defer cancel()

	opinion, err := provider.Query(qctx, pair, prompt)
	if err != nil {
		stage := StageFetch
		var parseErr *connectors.ParseError
		if errors.As(err, &parseErr) {
			stage = StageParse
		}
		return model.EmptyOpinion(name), &ProviderError{Provider: name, Stage: stage, Err: err}
	}
	opinion.Provider = name
	return opinion, nil
}

func (g *Generator) recordException(ctx context.Context, log *logrus.Entry, pair string, perr *ProviderError) {
	if g.exceptions == nil {
		return
	}

	raw, err := json.Marshal(map[string]string{"pair": pair})
	if err != nil {
		return
	}
	exception := &model.Exception{
		Service: exceptionService,
		Module:  string(perr.Provider),
		Method:  string(perr.Stage),
		Message: perr.Err.Error(),
		Level:   "warn",
		Context: datatypes.JSON(raw),
	}
	// the request context may already be gone; the audit row should still land
	if err := g.exceptions.Create(context.WithoutCancel(ctx), exception); err != nil {
		log.WithError(err).Warn("failed to persist provider exception")
	}
}

func fetchFailures(failures []*ProviderError) int {
	n := 0
	for _, f := range failures {
		if f.Stage == StageFetch {
			n++
		}
	}
	return n
}

// List returns every stored signal, newest first.
func (g *Generator) List(ctx context.Context) ([]model.Signal, error) {
	signals, err := g.store.FindAll(ctx)
	if err != nil {
		g.recorder.RecordError("persistence")
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return signals, nil
}

// Latest returns the newest signal, or nil when none exist.
func (g *Generator) Latest(ctx context.Context) (*model.Signal, error) {
	signal, err := g.store.FindLatest(ctx)
	if err != nil {
		g.recorder.RecordError("persistence")
		return nil, &PersistenceError{Op: "latest", Err: err}
	}
	return signal, nil
}

// Clear removes all signals.
func (g *Generator) Clear(ctx context.Context) error {
	if err := g.store.DeleteAll(ctx); err != nil {
		g.recorder.RecordError("persistence")
		return &PersistenceError{Op: "clear", Err: err}
	}
	g.logger.Info("all signals cleared")
	return nil
}
