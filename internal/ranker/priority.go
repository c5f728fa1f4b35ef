// Package ranker orders analysis records by action priority and price.
package ranker

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"StockPulse/internal/model"
)

// ErrUnmappedAction means an action label has no rank in the priority table.
var ErrUnmappedAction = errors.New("action has no priority")

// UnmappedActionError lists the labels missing from a priority table.
type UnmappedActionError struct {
	Actions []model.Action
}

func (e *UnmappedActionError) Error() string {
	names := make([]string, len(e.Actions))
	for i, a := range e.Actions {
		names[i] = fmt.Sprintf("%q", a)
	}
	return fmt.Sprintf("%v: %s", ErrUnmappedAction, strings.Join(names, ", "))
}

func (e *UnmappedActionError) Unwrap() error { return ErrUnmappedAction }

// PriorityTable maps action labels to ranks, lower first. It is read-only after construction.
type PriorityTable struct {
	ranks map[model.Action]int
}

// NewPriorityTable copies ranks into a new table.
func NewPriorityTable(ranks map[model.Action]int) PriorityTable {
	m := make(map[model.Action]int, len(ranks))
	for a, r := range ranks {
		m[a] = r
	}
	return PriorityTable{ranks: m}
}

// Rank looks up the priority of an action.
func (t PriorityTable) Rank(a model.Action) (int, bool) {
	r, ok := t.ranks[a]
	return r, ok
}

// Len is the number of mapped actions.
func (t PriorityTable) Len() int { return len(t.ranks) }

// Missing returns the actions of vocabulary without a rank, sorted.
func (t PriorityTable) Missing(vocabulary []model.Action) []model.Action {
	var out []model.Action
	for _, a := range vocabulary {
		if _, ok := t.ranks[a]; !ok {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultPriorities returns the standard ranking: buy labels first, watch labels in the
// middle, sell labels last. Some labels are only kept so older stored results still rank.
func DefaultPriorities() PriorityTable {
	return NewPriorityTable(map[model.Action]int{
		model.ActionBullishCandleUptrend:    10,
		model.ActionBottomingWick:           15,
		model.ActionVolumeSurgeRise:         20,
		model.ActionReboundVolumeSurge:      25,
		model.ActionReboundLikely:           30,
		model.ActionNearLowerBand:           40,
		model.ActionMovingAveragesRising:    50,
		model.ActionSlopeAgreement:          60,
		model.ActionOversoldRebound:         70,
		model.ActionWaitOversoldLowVolume:   80,
		model.ActionWaitOversizedDecline:    85,
		model.ActionWaitBreakout:            90,
		model.ActionWaitRSIRising:           100,
		model.ActionWatchUpperBandNeutral:   110,
		model.ActionWatchOverboughtLowVol:   120,
		model.ActionWatchConfirmTrend:       130,
		model.ActionWatchTrendMayStrengthen: 140,
		model.ActionWatchRSIOverheating:     145,
		model.ActionWatchSurgeDuringDecline: 150,
		model.ActionWatchShortTermDecline:   160,
		model.ActionWatchMiddleBand:         170,
		model.ActionWatchUpperBandNoSignal:  175,
		model.ActionWatchLowerBandNoSignal:  180,
		model.ActionWatchVolumeDeclining:    190,
		model.ActionWatchTrendWeakening:     200,
		model.ActionWatchWeakDowntrend:      205,
		model.ActionWatchCorrectionRisk:     210,
		model.ActionWatchAwaitingSignal:     215,
		model.ActionWatchFurtherDecline:     220,
		model.ActionSellOverboughtSurge:     230,
		model.ActionSellOverbought:          235,
		model.ActionSellPressureWick:        240,
		model.ActionSellRallyExhaustion:     250,
	})
}
