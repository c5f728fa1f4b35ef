package ranker

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
)

func TestDefaultPriorities_CoverRuleTable(t *testing.T) {
	if _, err := New(DefaultPriorities(), strategy.Default().Actions()); err != nil {
		t.Fatalf("default table must be total over the rule table: %v", err)
	}
}

func TestNew_UnmappedAction(t *testing.T) {
	table := NewPriorityTable(map[model.Action]int{model.ActionSellOverbought: 235})
	_, err := New(table, []model.Action{model.ActionSellOverbought, "made-up action"})
	if !errors.Is(err, ErrUnmappedAction) {
		t.Fatalf("expected ErrUnmappedAction, got %v", err)
	}
	var ue *UnmappedActionError
	if !errors.As(err, &ue) || len(ue.Actions) != 1 || ue.Actions[0] != "made-up action" {
		t.Errorf("unexpected error detail: %v", err)
	}
}

func TestNewPriorityTable_CopiesInput(t *testing.T) {
	src := map[model.Action]int{model.ActionSellOverbought: 235}
	table := NewPriorityTable(src)
	src[model.ActionSellOverbought] = 1
	if r, _ := table.Rank(model.ActionSellOverbought); r != 235 {
		t.Errorf("table changed with its source map: %d", r)
	}
}

func records() []model.AnalysisRecord {
	return []model.AnalysisRecord{
		{Name: "Gamma", Code: "000003", CurrentPrice: 500, Action: model.ActionSellOverbought},
		{Name: "Alpha", Code: "000001", CurrentPrice: 100, Action: model.ActionBullishCandleUptrend},
		{Name: "Beta", Code: "000002", CurrentPrice: 300, Action: model.ActionBullishCandleUptrend},
		{Name: "Delta", Code: "000004", CurrentPrice: 200, Action: model.ActionWatchAwaitingSignal},
		{Name: "Echo", Code: "000005", CurrentPrice: 200, Action: model.ActionWatchAwaitingSignal},
	}
}

func TestRank_PriorityThenPrice(t *testing.T) {
	r, err := New(DefaultPriorities(), strategy.Default().Actions())
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.Rank(records())
	if err != nil {
		t.Fatal(err)
	}
	var codes []string
	for _, rec := range got {
		codes = append(codes, rec.Code)
	}
	want := []string{"000002", "000001", "000004", "000005", "000003"}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("order = %v, want %v", codes, want)
	}
}

func TestRank_StableUnderReordering(t *testing.T) {
	r, err := New(DefaultPriorities(), strategy.Default().Actions())
	if err != nil {
		t.Fatal(err)
	}
	first, err := r.Rank(records())
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(int64(9)))
	for i := 0; i < 20; i++ {
		in := records()
		rng.Shuffle(len(in), func(a, b int) { in[a], in[b] = in[b], in[a] })
		got, err := r.Rank(in)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("shuffle %d changed the order", i)
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	r, _ := New(DefaultPriorities(), nil)
	in := records()
	if _, err := r.Rank(in); err != nil {
		t.Fatal(err)
	}
	if in[0].Code != "000003" {
		t.Error("input slice was reordered")
	}
}

func TestRank_UnmappedRecordFails(t *testing.T) {
	r, _ := New(DefaultPriorities(), nil)
	in := append(records(), model.AnalysisRecord{Name: "X", Action: "unknown"})
	if _, err := r.Rank(in); !errors.Is(err, ErrUnmappedAction) {
		t.Errorf("expected ErrUnmappedAction, got %v", err)
	}
}
