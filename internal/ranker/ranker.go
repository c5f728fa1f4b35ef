package ranker

import (
	"sort"

	"StockPulse/internal/model"
)

// Ranker sorts records with a priority table proven total over a vocabulary.
type Ranker struct {
	table PriorityTable
}

// New fails with *UnmappedActionError when any action in vocabulary has no rank.
func New(table PriorityTable, vocabulary []model.Action) (*Ranker, error) {
	if missing := table.Missing(vocabulary); len(missing) > 0 {
		return nil, &UnmappedActionError{Actions: missing}
	}
	return &Ranker{table: table}, nil
}

// Rank returns a sorted copy of records: priority ascending, current price descending, then
// code and name. A record whose action has no rank fails the whole call.
func (r *Ranker) Rank(records []model.AnalysisRecord) ([]model.AnalysisRecord, error) {
	var missing []model.Action
	seen := map[model.Action]bool{}
	for _, rec := range records {
		if _, ok := r.table.Rank(rec.Action); !ok && !seen[rec.Action] {
			seen[rec.Action] = true
			missing = append(missing, rec.Action)
		}
	}
	if len(missing) > 0 {
		return nil, &UnmappedActionError{Actions: missing}
	}

	out := append([]model.AnalysisRecord(nil), records...)
	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		pa, _ := r.table.Rank(a.Action)
		pb, _ := r.table.Rank(b.Action)
		if pa != pb {
			return pa < pb
		}
		if a.CurrentPrice != b.CurrentPrice {
			return a.CurrentPrice > b.CurrentPrice
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Name < b.Name
	})
	return out, nil
}

// Priority exposes the rank of an action for reporting.
func (r *Ranker) Priority(a model.Action) (int, bool) { return r.table.Rank(a) }
