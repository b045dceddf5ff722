package domain

import (
	"context"
	"time"
)

// RawMessage represents an unprocessed message from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// AnalysisRequest asks for a location analysis and crop advice. Either the
// coordinates or the address must be set; the other is resolved by geocoding
// when a geocoder is configured.
type AnalysisRequest struct {
	ID      string     `json:"id"`
	Lat     Coordinate `json:"lat"`
	Lon     Coordinate `json:"long"`
	Address string     `json:"address"`

	// Crops optionally requests yield predictions alongside the advice.
	Crops []CropArea `json:"crops,omitempty"`
}

// HasCoordinates reports whether both coordinates were supplied.
func (r AnalysisRequest) HasCoordinates() bool {
	return r.Lat.Valid && r.Lon.Valid
}

// CropArea names a crop and the area planted, in acres.
type CropArea struct {
	Crop  string  `json:"crop"`
	Acres float64 `json:"acres"`
}

// Advisory is the result of processing one AnalysisRequest. Error is set when
// the analysis could not be produced; the advisory is still emitted so the
// requester learns about the failure.
type Advisory struct {
	RequestID       string            `json:"request_id"`
	Location        Location          `json:"location"`
	Report          *LocationReport   `json:"report,omitempty"`
	Recommendations []Recommendation  `json:"recommendations"`
	Yields          []YieldPrediction `json:"yield_predictions,omitempty"`
	TotalIncome     float64           `json:"total_income,omitempty"`
	Error           string            `json:"error,omitempty"`
	ProcessedAt     time.Time         `json:"processed_at"`
}

// OutputMessage is the serialized form destined for the sink topic.
type OutputMessage struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
