package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRequest marks a request that can never be analysed, such as one
// with neither coordinates nor an address.
var ErrInvalidRequest = errors.New("invalid analysis request")

// Coordinate is a latitude or longitude that decodes from either a JSON
// number or a numeric string. Valid is false when the field was absent,
// null or empty.
type Coordinate struct {
	Value float64
	Valid bool
}

// NewCoordinate returns a valid Coordinate.
func NewCoordinate(v float64) Coordinate {
	return Coordinate{Value: v, Valid: true}
}

// UnmarshalJSON accepts 12.5, "12.5", "", and null. NaN and infinities are
// rejected.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Coordinate{}
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*c = Coordinate{}
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("coordinate %q: %w", s, err)
	}
	if !finite(v) {
		return fmt.Errorf("coordinate %q: not a finite number", s)
	}
	*c = NewCoordinate(v)
	return nil
}

// MarshalJSON writes a number, or null when the coordinate is not set.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// ParseAnalysisRequest deserializes a RawMessage's value into an
// AnalysisRequest and validates it. Requests without an id get one derived
// from the message key, or failing that from the message position.
func ParseAnalysisRequest(raw RawMessage) (AnalysisRequest, error) {
	var req AnalysisRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return AnalysisRequest{}, fmt.Errorf("parse analysis request: %w", err)
	}
	req.Address = strings.TrimSpace(req.Address)

	if err := ValidateRequest(req); err != nil {
		return AnalysisRequest{}, err
	}

	if req.ID == "" {
		if len(raw.Key) > 0 {
			req.ID = string(raw.Key)
		} else {
			req.ID = generateID(raw.Topic, raw.Partition, raw.Offset)
		}
	}
	return req, nil
}

// ValidateRequest checks that a request names a location and that any
// coordinates are within range.
func ValidateRequest(req AnalysisRequest) error {
	if !req.HasCoordinates() && req.Address == "" {
		return fmt.Errorf("%w: coordinates or address required", ErrInvalidRequest)
	}
	if (req.Lat.Valid && !finite(req.Lat.Value)) || (req.Lon.Valid && !finite(req.Lon.Value)) {
		return fmt.Errorf("%w: coordinates must be finite numbers", ErrInvalidRequest)
	}
	if req.Lat.Valid && (req.Lat.Value < -90 || req.Lat.Value > 90) {
		return fmt.Errorf("%w: latitude %g out of range", ErrInvalidRequest, req.Lat.Value)
	}
	if req.Lon.Valid && (req.Lon.Value < -180 || req.Lon.Value > 180) {
		return fmt.Errorf("%w: longitude %g out of range", ErrInvalidRequest, req.Lon.Value)
	}
	for _, c := range req.Crops {
		if strings.TrimSpace(c.Crop) == "" {
			return fmt.Errorf("%w: crop name required", ErrInvalidRequest)
		}
		if c.Acres <= 0 {
			return fmt.Errorf("%w: acres for %q must be positive", ErrInvalidRequest, c.Crop)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SerializeAdvisory converts an Advisory into an OutputMessage keyed by
// request id.
func SerializeAdvisory(a Advisory) (OutputMessage, error) {
	value, err := json.Marshal(a)
	if err != nil {
		return OutputMessage{}, fmt.Errorf("serialize advisory: %w", err)
	}

	headers := map[string]string{
		"processed_at": a.ProcessedAt.UTC().Format(time.RFC3339),
	}
	if a.Location.Address != "" {
		headers["region"] = a.Location.Address
	}
	if a.Error != "" {
		headers["error"] = "true"
	}

	return OutputMessage{
		Key:     []byte(a.RequestID),
		Value:   value,
		Headers: headers,
	}, nil
}

// generateID produces a deterministic id from the message position so that
// replaying the same message yields the same request id.
func generateID(topic string, partition int, offset int64) string {
	input := fmt.Sprintf("%s|%d|%d", topic, partition, offset)
	hash := sha256.Sum256([]byte(input))
	return "req-" + hex.EncodeToString(hash[:8])
}
