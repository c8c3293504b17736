package models

// DataPoint is a single stock price observation or prediction.
// Timestamp is a DD-MM-YYYY calendar date.
type DataPoint struct {
	StockID    string  `json:"stock_id" validate:"required"`
	Timestamp  string  `json:"timestamp" validate:"required"`
	StockPrice float64 `json:"stock_price"`
}

// PredictionEvent is emitted downstream after a successful prediction.
type PredictionEvent struct {
	StockID      string      `json:"stock_id"`
	ObservedLast DataPoint   `json:"observed_last"`
	Predictions  []DataPoint `json:"predictions"`
}
