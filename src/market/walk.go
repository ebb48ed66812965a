package market

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"signaldesk/src/model"
)

const (
	DefaultPoints    = 20
	PointSpacing     = 5 * time.Minute
	StartPrice       = 100.0
	maxStepMagnitude = 0.5
	pricePlaces      = 4
)

// RandomWalk builds a synthetic series ending one spacing before now, oldest
// first. Each point moves the price by (u-0.5)*0.5 for u uniform in [0,1), so
// the first value already includes one step.
func RandomWalk(now time.Time, points int, rng *rand.Rand) []model.MarketPoint {
	if points <= 0 {
		return []model.MarketPoint{}
	}

	price := decimal.NewFromFloat(StartPrice)
	step := decimal.NewFromFloat(maxStepMagnitude)
	half := decimal.NewFromFloat(0.5)

	now = now.UTC()
	series := make([]model.MarketPoint, 0, points)
	for i := points; i > 0; i-- {
		u := decimal.NewFromFloat(rng.Float64())
		price = price.Add(u.Sub(half).Mul(step))

		value, _ := price.Round(pricePlaces).Float64()
		series = append(series, model.MarketPoint{
			Time:  now.Add(-time.Duration(i) * PointSpacing).Format("15:04"),
			Value: value,
		})
	}
	return series
}
