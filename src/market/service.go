package market

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"signaldesk/src/model"
)

// Cache lookup outcomes reported to the CacheRecorder.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// CacheRecorder counts cache lookups by outcome.
type CacheRecorder interface {
	RecordCacheResult(result string)
}

type Option func(*Service)

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.ttl = ttl
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPoints(points int) Option {
	return func(s *Service) {
		if points > 0 {
			s.points = points
		}
	}
}

func WithRecorder(r CacheRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// Service serves the synthetic chart series.
type Service struct {
	logger   *logrus.Entry
	cache    Cache
	ttl      time.Duration
	points   int
	recorder CacheRecorder
	now      func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func NewService(logger *logrus.Entry, opts ...Option) *Service {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Service{
		logger: logger.WithField("component", "market"),
		points: DefaultPoints,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Series returns the chart points for pair. Cache failures fall back to a
// freshly generated series.
func (s *Service) Series(ctx context.Context, pair string) []model.MarketPoint {
	key := "market:" + strings.ToUpper(strings.TrimSpace(pair))
	log := s.logger.WithField("pair", pair)

	if s.cache != nil {
		series, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.WithError(err).Warn("market cache read failed")
			s.recordCache(CacheError)
		case ok:
			s.recordCache(CacheHit)
			return series
		default:
			s.recordCache(CacheMiss)
		}
	}

	s.mu.Lock()
	series := RandomWalk(s.now(), s.points, s.rng)
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, series, s.ttl); err != nil {
			log.WithError(err).Warn("market cache write failed")
		}
	}
	return series
}

func (s *Service) recordCache(result string) {
	if s.recorder != nil {
		s.recorder.RecordCacheResult(result)
	}
}
