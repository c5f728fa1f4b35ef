package calculator

import (
	"fmt"

	"StockPulse/internal/model"
)

// CalculateMACD returns the MACD line (EMA(short) - EMA(long)) and its EMA signal line.
func CalculateMACD(closes []float64, short, long, signal int) (macd, sig []model.Float, err error) {
	if short >= long {
		return nil, nil, fmt.Errorf("macd short span %d must be below long span %d", short, long)
	}
	shortEMA, err := EMA(closes, short)
	if err != nil {
		return nil, nil, fmt.Errorf("short ema: %w", err)
	}
	longEMA, err := EMA(closes, long)
	if err != nil {
		return nil, nil, fmt.Errorf("long ema: %w", err)
	}
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = shortEMA[i] - longEMA[i]
	}
	signalLine, err := EMA(line, signal)
	if err != nil {
		return nil, nil, fmt.Errorf("signal ema: %w", err)
	}

	macd = make([]model.Float, len(closes))
	sig = make([]model.Float, len(closes))
	for i := range closes {
		macd[i] = model.Some(line[i])
		sig[i] = model.Some(signalLine[i])
	}
	return macd, sig, nil
}
