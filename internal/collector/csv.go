package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockPulse/internal/model"
)

const codeWidth = 6

var (
	ErrMissingColumn = errors.New("missing column")
	ErrBadRow        = errors.New("bad row")
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"20060102",
}

// column aliases, matched case-insensitively
var columnAliases = map[string][]string{
	"date":   {"date"},
	"name":   {"stockname", "name"},
	"code":   {"stockcode", "code"},
	"open":   {"open"},
	"high":   {"high"},
	"low":    {"low"},
	"close":  {"close"},
	"volume": {"volume"},
}

// CSVSource reads every *.csv file in Dir. A file may hold several symbols; rows are
// grouped by stock code and sorted by date.
type CSVSource struct {
	Dir string
}

func NewCSVSource(dir string) *CSVSource { return &CSVSource{Dir: dir} }

func (c *CSVSource) Name() string { return "csv" }

type symbolRows struct {
	series model.SymbolSeries
	err    error
}

// fileRows holds the symbols parsed from one file in first-appearance order.
type fileRows struct {
	order    []string
	bySymbol map[string]*symbolRows
}

// merge adds the rows of one fully read file. A symbol that failed in any file stays failed.
func (f *fileRows) merge(other *fileRows) {
	for _, key := range other.order {
		in := other.bySymbol[key]
		rows, ok := f.bySymbol[key]
		if !ok {
			f.bySymbol[key] = in
			f.order = append(f.order, key)
			continue
		}
		if rows.err != nil {
			continue
		}
		if in.err != nil {
			rows.err = in.err
			continue
		}
		rows.series.Points = append(rows.series.Points, in.series.Points...)
	}
}

func (c *CSVSource) Load(ctx context.Context) ([]model.SymbolSeries, []model.SymbolFailure, error) {
	files, err := filepath.Glob(filepath.Join(c.Dir, "*.csv"))
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", c.Dir, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		slog.Warn("no csv files found", "dir", c.Dir)
	}

	var (
		all      = &fileRows{bySymbol: make(map[string]*symbolRows)}
		failures []model.SymbolFailure
	)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		rows, err := readFile(path)
		if err != nil {
			slog.Warn("csv file skipped", "file", path, "err", err)
			failures = append(failures, model.SymbolFailure{Name: filepath.Base(path), Err: err})
			continue
		}
		all.merge(rows)
	}

	series := make([]model.SymbolSeries, 0, len(all.order))
	for _, key := range all.order {
		rows := all.bySymbol[key]
		if rows.err != nil {
			failures = append(failures, model.SymbolFailure{Name: rows.series.Name, Code: rows.series.Code, Err: rows.err})
			continue
		}
		sort.SliceStable(rows.series.Points, func(i, j int) bool {
			return rows.series.Points[i].Date.Before(rows.series.Points[j].Date)
		})
		series = append(series, rows.series)
	}
	slog.Info("csv source loaded", "files", len(files), "symbols", len(series), "failures", len(failures))
	return series, failures, nil
}

// readFile parses one file. Nothing is returned unless the whole file could be read.
func readFile(path string) (*fileRows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	out := &fileRows{bySymbol: make(map[string]*symbolRows)}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		name := field(rec, cols["name"])
		code := PadCode(field(rec, cols["code"]))
		key := code
		if key == "" {
			key = name
		}
		rows, ok := out.bySymbol[key]
		if !ok {
			rows = &symbolRows{series: model.SymbolSeries{Name: name, Code: code}}
			out.bySymbol[key] = rows
			out.order = append(out.order, key)
		}
		if rows.err != nil {
			continue
		}
		pt, err := parseRow(rec, cols)
		if err != nil {
			rows.err = fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
			continue
		}
		rows.series.Points = append(rows.series.Points, pt)
	}
}

func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make(map[string]int, len(columnAliases))
	var missing []string
	for col, aliases := range columnAliases {
		cols[col] = -1
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				cols[col] = i
				break
			}
		}
		if cols[col] < 0 && col != "name" && col != "code" {
			missing = append(missing, col)
		}
	}
	if cols["name"] < 0 && cols["code"] < 0 {
		missing = append(missing, "code")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseRow(rec []string, cols map[string]int) (model.PricePoint, error) {
	var pt model.PricePoint
	date, err := parseDate(field(rec, cols["date"]))
	if err != nil {
		return pt, err
	}
	pt.Date = date
	targets := []struct {
		col string
		dst *float64
	}{
		{"open", &pt.Open},
		{"high", &pt.High},
		{"low", &pt.Low},
		{"close", &pt.Close},
		{"volume", &pt.Volume},
	}
	for _, t := range targets {
		raw := strings.ReplaceAll(field(rec, cols[t.col]), ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return pt, fmt.Errorf("%w: %s %q", ErrBadRow, t.col, raw)
		}
		*t.dst = v
	}
	return pt, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrBadRow, s)
}

// PadCode left-pads numeric stock codes to six digits. Other codes are returned as is.
func PadCode(code string) string {
	if code == "" || len(code) >= codeWidth {
		return code
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return code
		}
	}
	return strings.Repeat("0", codeWidth-len(code)) + code
}
