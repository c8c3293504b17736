package models

// Requests and responses for the price HTTP endpoints.
// Field names are part of the public contract.

type FileRequest struct {
	ExchangeName string `json:"exchange_name" validate:"required"`
	FileName     string `json:"file_name" validate:"required"`
}

type PredictionRequest struct {
	StockID    string      `json:"stock_id" validate:"required"`
	DataPoints []DataPoint `json:"data_points" validate:"dive"`
}

type FileProcessingRequest struct {
	ExchangeName        string      `json:"exchange_name" validate:"required"`
	DataPoints          []DataPoint `json:"data_points" validate:"dive"`
	PredictedDataPoints []DataPoint `json:"predicted_data_points" validate:"dive"`
}

type ProcessFileResponse struct {
	Message    string `json:"message"`
	OutputFile string `json:"output_file"`
}
