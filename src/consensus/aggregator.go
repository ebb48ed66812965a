package consensus

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"signaldesk/src/model"
)

// Class is the voting bucket an opinion's action falls into.
type Class int

const (
	ClassNone Class = iota
	ClassBuy
	ClassSell
)

func (c Class) String() string {
	switch c {
	case ClassBuy:
		return "buy"
	case ClassSell:
		return "sell"
	default:
		return "none"
	}
}

// Branch records which rule produced the final action.
type Branch string

const (
	BranchBuyMajority  Branch = "buy_majority"
	BranchSellMajority Branch = "sell_majority"
	BranchFallback     Branch = "fallback"
)

// AnalysisSeparator joins the per-provider rationales.
const AnalysisSeparator = " | "

const majority = 2

// Bounds of a stored signal confidence.
const (
	MinConfidence = 0
	MaxConfidence = 100
)

var (
	buyTokens  = []string{"BUY", "CALL"}
	sellTokens = []string{"SELL", "PUT"}
)

// Decision is the outcome of a vote over three opinions.
type Decision struct {
	Action     string
	Confidence int
	Verifiers  []model.ProviderName
	Analysis   string
	Branch     Branch
}

// Classify buckets an action by substring match. Buy tokens are checked first,
// so an action mentioning both directions counts as buy.
func Classify(action *string) Class {
	if action == nil {
		return ClassNone
	}

	upper := strings.ToUpper(*action)
	switch {
	case containsAny(upper, buyTokens):
		return ClassBuy
	case containsAny(upper, sellTokens):
		return ClassSell
	default:
		return ClassNone
	}
}

// Aggregate runs the 2-of-3 vote. Opinions must be in model.ProviderOrder.
//
// Confidence is the rounded mean of all three opinions (missing counts as 0)
// whichever branch wins, and the analysis always carries all three rationales.
func Aggregate(opinions [3]model.ProviderOpinion) Decision {
	var buyers, sellers []model.ProviderName
	for _, op := range opinions {
		switch Classify(op.Action) {
		case ClassBuy:
			buyers = append(buyers, op.Provider)
		case ClassSell:
			sellers = append(sellers, op.Provider)
		}
	}

	decision := Decision{
		Confidence: meanConfidence(opinions),
		Analysis:   joinAnalysis(opinions),
	}

	switch {
	case len(buyers) >= majority:
		decision.Action = model.ActionBuy
		decision.Verifiers = buyers
		decision.Branch = BranchBuyMajority
	case len(sellers) >= majority:
		decision.Action = model.ActionSell
		decision.Verifiers = sellers
		decision.Branch = BranchSellMajority
	default:
		best := mostConfident(opinions)
		decision.Action = model.ActionBuy
		if best.Action != nil && *best.Action != "" {
			decision.Action = *best.Action
		}
		decision.Verifiers = []model.ProviderName{best.Provider}
		decision.Branch = BranchFallback
	}

	return decision
}

// mostConfident picks the highest confidence; equal values keep provider order.
func mostConfident(opinions [3]model.ProviderOpinion) model.ProviderOpinion {
	ranked := opinions
	sort.SliceStable(ranked[:], func(i, j int) bool {
		return ranked[i].ConfidenceOrZero() > ranked[j].ConfidenceOrZero()
	})
	return ranked[0]
}

// meanConfidence is clamped to [MinConfidence, MaxConfidence]. Each term is
// divided before summing so huge inputs cannot overflow.
func meanConfidence(opinions [3]model.ProviderOpinion) int {
	var mean float64
	for _, op := range opinions {
		c := op.ConfidenceOrZero()
		if math.IsNaN(c) {
			continue
		}
		mean += c / float64(len(opinions))
	}
	return int(math.Round(math.Max(MinConfidence, math.Min(MaxConfidence, mean))))
}

func joinAnalysis(opinions [3]model.ProviderOpinion) string {
	parts := make([]string, 0, len(opinions))
	for _, op := range opinions {
		parts = append(parts, fmt.Sprintf("%s: %s", op.Provider, op.AnalysisOrEmpty()))
	}
	return strings.Join(parts, AnalysisSeparator)
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
