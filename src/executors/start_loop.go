package executors

import (
	"context"
	"errors"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"signaldesk/src/model"
	"signaldesk/src/risk"
	"signaldesk/src/strategy"
)

type signalGenerator interface {
	Generate(ctx context.Context, pair string) (*model.Signal, error)
}

// StartLoop runs the autopilot with configuration from the environment.
func StartLoop(ctx context.Context, gen signalGenerator) error {
	return RunLoop(ctx, gen, GetConfig(), time.Now)
}

// RunLoop generates a signal for every configured pair on each tick until ctx
// is done. Ticks inside the New York no-trade window are skipped unless
// IgnoreNoTrade is set. A failed pair is logged and does not stop the loop.
func RunLoop(ctx context.Context, gen signalGenerator, config Config, now func() time.Time) error {
	pairs := normalizePairs(config.Pairs)
	if len(pairs) == 0 {
		return errors.New("autopilot pairs not set")
	}
	if config.LoopPeriod <= 0 {
		return errors.New("autopilot period must be positive")
	}

	ticker := time.NewTicker(config.LoopPeriod) // Set up a ticker that fires periodically
	defer ticker.Stop()

	logger.WithFields(map[string]interface{}{
		"pairs":  pairs,
		"period": config.LoopPeriod.String(),
	}).Info("autopilot started")

	if config.RunImmediately {
		runTick(ctx, gen, pairs, config, now())
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("autopilot stopped")
			return nil

		case <-ticker.C:
			logger.Debug("autopilot tick")
			runTick(ctx, gen, pairs, config, now())
		}
	}
}

// runTick returns how many signals were generated.
func runTick(ctx context.Context, gen signalGenerator, pairs []string, config Config, at time.Time) int {
	if !config.IgnoreNoTrade && risk.IsNoTradeWindow(at) {
		logger.WithField("phase", risk.PhaseNoTrade).Warn("no trade window, skipping tick")
		return 0
	}

	generated := 0
	for _, pair := range pairs {
		if ctx.Err() != nil {
			return generated
		}

		signal, err := gen.Generate(ctx, pair)
		if err != nil {
			logger.WithError(err).WithFields(map[string]interface{}{
				"pair": pair,
				"kind": strategy.ErrorKind(err),
			}).Error("autopilot generation failed")
			continue
		}

		generated++
		logger.WithFields(map[string]interface{}{
			"pair":       pair,
			"action":     signal.Action,
			"confidence": signal.Confidence,
			"window":     signal.StartTime + " - " + signal.EndTime,
		}).Info("autopilot signal")
	}
	return generated
}

func normalizePairs(pairs []string) []string {
	out := make([]string, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
