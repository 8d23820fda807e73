package standards

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bounds for SendLimit and ReceiveLimit, in megabytes.
const (
	MinLimitMB = 1
	MaxLimitMB = 150
)

// ValidationError reports which setting was rejected.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: Invalid %s parameter set", StandardName, e.Field)
}

// Settings is the validated configuration for one run.
type Settings struct {
	SendLimitMB    int    `json:"send_limit_mb"`
	ReceiveLimitMB int    `json:"receive_limit_mb"`
	Remediate      bool   `json:"remediate"`
	Alert          bool   `json:"alert"`
	Report         bool   `json:"report"`
	StandardID     string `json:"standard_id,omitempty"`
}

// Validate checks both limits. SendLimit is checked first so at most one field is reported.
func (s Settings) Validate() error {
	if !inRange(s.SendLimitMB) {
		return &ValidationError{Field: "SendLimit"}
	}
	if !inRange(s.ReceiveLimitMB) {
		return &ValidationError{Field: "ReceiveLimit"}
	}
	return nil
}

// Limits returns the byte limits for the configured megabyte values.
func (s Settings) Limits() Limits {
	return LimitsFromMB(s.SendLimitMB, s.ReceiveLimitMB)
}

func inRange(mb int) bool {
	return mb >= MinLimitMB && mb <= MaxLimitMB
}

// RawSettings is loosely typed caller input. Limits may be JSON numbers or numeric strings.
type RawSettings struct {
	SendLimit    any    `json:"SendLimit"`
	ReceiveLimit any    `json:"ReceiveLimit"`
	Remediate    any    `json:"remediate"`
	Alert        any    `json:"alert"`
	Report       any    `json:"report"`
	StandardID   string `json:"standardId"`
}

// ToSettings converts raw input into validated Settings.
func (r RawSettings) ToSettings() (Settings, error) {
	send, err := ParseLimitMB(r.SendLimit)
	if err != nil {
		return Settings{}, &ValidationError{Field: "SendLimit"}
	}
	receive, err := ParseLimitMB(r.ReceiveLimit)
	if err != nil {
		return Settings{}, &ValidationError{Field: "ReceiveLimit"}
	}

	s := Settings{
		SendLimitMB:    send,
		ReceiveLimitMB: receive,
		Remediate:      parseFlag(r.Remediate),
		Alert:          parseFlag(r.Alert),
		Report:         parseFlag(r.Report),
		StandardID:     r.StandardID,
	}
	return s, s.Validate()
}

// ParseLimitMB accepts an integer, an integral float or a numeric string.
func ParseLimitMB(raw any) (int, error) {
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("limit not set")
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return limitFromFloat(v)
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("parse limit %q: %w", v, err)
		}
		return limitFromFloat(f)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("parse limit %q: %w", v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported limit type %T", raw)
	}
}

func limitFromFloat(v float64) (int, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("limit %v is not an integer", v)
	}
	return int(v), nil
}

// parseFlag treats any non-zero number as true so 1 and 1.0 behave the same
// whether or not the decoder kept numbers as json.Number.
func parseFlag(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		}
	case int:
		return v != 0
	case float64:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	}
	return false
}
