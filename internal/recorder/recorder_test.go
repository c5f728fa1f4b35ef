package recorder

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/model"
)

func strPtr(s string) *string { return &s }

func sampleRun() *model.RunResult {
	asOf := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	a := model.AnalysisRecord{
		Name: "Alpha", Code: "000001", AsOf: asOf, CurrentPrice: 1234.5, PriceChange: 1.234,
		PriceChangeStatus: "rising", Volume: 15000, VolumeChangeRate: model.Some(12.5),
		Action: model.ActionBullishCandleUptrend, CandlePattern: model.CandleLargeBullish,
		Slope5: model.SlopeRising, Slope20: model.SlopeRising, Slope60: model.SlopeInsufficient, Slope120: model.SlopeInsufficient,
		MaxVolumeDay: model.MaxVolumeDay{Date: asOf, Trend: "rising", Volume: 15000, PctChange: 1.234},
	}
	a.Supports[0] = strPtr("1200.00 (2024-04-30)")
	b := model.AnalysisRecord{
		Name: "Beta", Code: "000002", AsOf: asOf, CurrentPrice: 50,
		Action: model.ActionWatchAwaitingSignal, VolumeChangeRate: model.None,
	}
	return &model.RunResult{
		RunID:      "run-1",
		StartedAt:  asOf,
		FinishedAt: asOf.Add(time.Minute),
		Records:    []model.AnalysisRecord{a, b},
		Failures:   []model.SymbolFailure{{Name: "Gamma", Code: "000003", Err: errors.New("empty")}},
	}
}

func TestValues_MatchColumns(t *testing.T) {
	run := sampleRun()
	if got := len(Values(&run.Records[0])); got != len(Columns) {
		t.Fatalf("values = %d, columns = %d", got, len(Columns))
	}
}

func TestStrings_Formatting(t *testing.T) {
	run := sampleRun()
	row := Strings(&run.Records[0])
	col := func(name string) string {
		for i, c := range Columns {
			if c == name {
				return row[i]
			}
		}
		t.Fatalf("no column %s", name)
		return ""
	}
	tests := map[string]string{
		"current_price":          "1234.50",
		"price_change_value":     "1.23",
		"volume":                 "15000",
		"volume_change_rate":     "12.50",
		"recent_max_volume_date": "2024-05-10",
		"support_1":              "1200.00 (2024-04-30)",
		"support_2":              "",
	}
	for name, want := range tests {
		if got := col(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	blank := Strings(&run.Records[1])
	if blank[6] != "" {
		t.Errorf("undefined volume change rate should be empty, got %q", blank[6])
	}

	ties := Strings(&model.AnalysisRecord{CurrentPrice: 10.125, PriceChange: 2.675})
	if ties[2] != "10.12" || ties[3] != "2.67" {
		t.Errorf("price, change = %q, %q; want 10.12, 2.67", ties[2], ties[3])
	}
}

func TestCSVRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")
	rec := NewCSVRecorder(path)
	if err := rec.RecordRun(context.Background(), sampleRun()); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || strings.Join(rows[0], ",") != strings.Join(Columns, ",") {
		t.Fatalf("unexpected report: %v", rows)
	}
	if rows[1][0] != "Alpha" || rows[2][0] != "Beta" {
		t.Errorf("rank order lost: %v %v", rows[1][0], rows[2][0])
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()
	ctx := context.Background()

	if id, err := rec.LatestRunID(ctx); err != nil || id != "" {
		t.Fatalf("empty db: id %q err %v", id, err)
	}

	run := sampleRun()
	if err := rec.RecordRun(ctx, run); err != nil {
		t.Fatal(err)
	}
	second := sampleRun()
	second.RunID = "run-2"
	second.FinishedAt = run.FinishedAt.Add(time.Hour)
	second.Records = second.Records[1:]
	if err := rec.RecordRun(ctx, second); err != nil {
		t.Fatal(err)
	}

	id, err := rec.LatestRunID(ctx)
	if err != nil || id != "run-2" {
		t.Fatalf("latest = %q, %v", id, err)
	}
	rows, err := rec.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Rank != 1 || rows[0].Code != "000001" || rows[0].Action != model.ActionBullishCandleUptrend {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[0].CurrentPrice != 1234.5 || rows[0].Support1.String != "1200.00 (2024-04-30)" {
		t.Errorf("first row values = %+v", rows[0])
	}
	if rows[1].Support1.Valid {
		t.Error("empty support slot should be NULL")
	}

	// duplicate run id violates the primary key and rolls back
	if err := rec.RecordRun(ctx, run); err == nil {
		t.Error("expected duplicate run to fail")
	}
	rows, _ = rec.LoadRun(ctx, "run-1")
	if len(rows) != 2 {
		t.Errorf("failed write must not add rows, got %d", len(rows))
	}
}

type stubRecorder struct {
	name   string
	err    error
	calls  int
	closed bool
}

func (s *stubRecorder) Name() string { return s.name }
func (s *stubRecorder) RecordRun(context.Context, *model.RunResult) error {
	s.calls++
	return s.err
}
func (s *stubRecorder) Close() error {
	s.closed = true
	return nil
}

func TestMulti_AttemptsEveryWriter(t *testing.T) {
	boom := errors.New("boom")
	bad := &stubRecorder{name: "bad", err: boom}
	good := &stubRecorder{name: "good"}
	var reported []string
	m := NewMulti(bad, good)
	m.OnError = func(name string, _ error) { reported = append(reported, name) }

	err := m.RecordRun(context.Background(), sampleRun())
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if good.calls != 1 || bad.calls != 1 {
		t.Errorf("calls: bad %d good %d", bad.calls, good.calls)
	}
	if len(reported) != 1 || reported[0] != "bad" {
		t.Errorf("reported = %v", reported)
	}
	if err := m.Close(); err != nil || !good.closed || !bad.closed {
		t.Errorf("close: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRun())
	if s.Records != 2 || s.Failures != 1 || s.TopCode != "000001" || s.TopAction != model.ActionBullishCandleUptrend {
		t.Errorf("summary = %+v", s)
	}
	if empty := Summarize(&model.RunResult{RunID: "x"}); empty.TopCode != "" {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestJSONRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.json")
	if res, err := LoadJSONRun(path); err != nil || res != nil {
		t.Fatalf("missing file: %v %v", res, err)
	}
	run := sampleRun()
	if err := NewJSONRecorder(path).RecordRun(context.Background(), run); err != nil {
		t.Fatal(err)
	}
	got, err := LoadJSONRun(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.RunID != "run-1" || len(got.Records) != 2 || got.Records[0].Code != "000001" {
		t.Fatalf("got %+v", got)
	}
	if *got.Records[0].Supports[0] != "1200.00 (2024-04-30)" || got.Records[1].VolumeChangeRate.Valid {
		t.Errorf("record fields lost: %+v", got.Records)
	}
	if len(got.Failures) != 1 {
		t.Fatalf("failures = %v", got.Failures)
	}
	if f := got.Failures[0]; f.Name != "Gamma" || f.Code != "000003" || f.Err == nil || f.Err.Error() != "empty" {
		t.Errorf("failure = %+v", f)
	}
}
