package standards

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name      string
		settings  Settings
		wantField string
	}{
		{name: "lower bound", settings: Settings{SendLimitMB: 1, ReceiveLimitMB: 1}},
		{name: "upper bound", settings: Settings{SendLimitMB: 150, ReceiveLimitMB: 150}},
		{name: "send zero", settings: Settings{SendLimitMB: 0, ReceiveLimitMB: 35}, wantField: "SendLimit"},
		{name: "receive too large", settings: Settings{SendLimitMB: 35, ReceiveLimitMB: 151}, wantField: "ReceiveLimit"},
		{name: "both invalid reports send", settings: Settings{SendLimitMB: 200, ReceiveLimitMB: -1}, wantField: "SendLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "SendLimit"}
	assert.Equal(t, "SendReceiveLimitTenant: Invalid SendLimit parameter set", err.Error())
}

func TestParseLimitMB(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    int
		wantErr bool
	}{
		{name: "int", raw: 35, want: 35},
		{name: "json float", raw: float64(36), want: 36},
		{name: "string", raw: " 40 ", want: 40},
		{name: "json number", raw: json.Number("25"), want: 25},
		{name: "json number integral float", raw: json.Number("35.0"), want: 35},
		{name: "json number exponent", raw: json.Number("1e2"), want: 100},
		{name: "json number fractional", raw: json.Number("35.5"), wantErr: true},
		{name: "fractional", raw: 35.5, wantErr: true},
		{name: "word", raw: "thirty", wantErr: true},
		{name: "nil", raw: nil, wantErr: true},
		{name: "bool", raw: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLimitMB(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawSettings_ToSettings(t *testing.T) {
	var raw RawSettings
	require.NoError(t, json.Unmarshal([]byte(`{
		"SendLimit": "35",
		"ReceiveLimit": 36,
		"remediate": true,
		"alert": "yes",
		"report": false,
		"standardId": "std-1"
	}`), &raw))

	settings, err := raw.ToSettings()
	require.NoError(t, err)
	assert.Equal(t, Settings{
		SendLimitMB:    35,
		ReceiveLimitMB: 36,
		Remediate:      true,
		Alert:          true,
		Report:         false,
		StandardID:     "std-1",
	}, settings)
}

func TestRawSettings_ToSettingsRejects(t *testing.T) {
	tests := []struct {
		name      string
		raw       RawSettings
		wantField string
	}{
		{name: "unparseable send", raw: RawSettings{SendLimit: "abc", ReceiveLimit: 10}, wantField: "SendLimit"},
		{name: "missing receive", raw: RawSettings{SendLimit: 10}, wantField: "ReceiveLimit"},
		{name: "out of range receive", raw: RawSettings{SendLimit: 10, ReceiveLimit: "151"}, wantField: "ReceiveLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.raw.ToSettings()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want bool
	}{
		{name: "bool", raw: true, want: true},
		{name: "string yes", raw: "Yes", want: true},
		{name: "string no", raw: "no"},
		{name: "float one", raw: float64(1), want: true},
		{name: "float zero", raw: float64(0)},
		{name: "int one", raw: 1, want: true},
		{name: "json number one", raw: json.Number("1"), want: true},
		{name: "json number one float", raw: json.Number("1.0"), want: true},
		{name: "json number zero", raw: json.Number("0")},
		{name: "nil", raw: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFlag(tt.raw))
		})
	}
}

func TestRawSettings_ToSettingsWithJSONNumbers(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"SendLimit": 35.0, "ReceiveLimit": 36, "remediate": 1, "alert": 0, "report": 1}`))
	dec.UseNumber()
	var raw RawSettings
	require.NoError(t, dec.Decode(&raw))

	settings, err := raw.ToSettings()
	require.NoError(t, err)
	assert.Equal(t, Settings{
		SendLimitMB:    35,
		ReceiveLimitMB: 36,
		Remediate:      true,
		Alert:          false,
		Report:         true,
	}, settings)
}
