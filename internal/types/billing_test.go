package types

import (
	"encoding/json"
	"testing"
	"time"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBillingAnchor_Resolve(t *testing.T) {
	start := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		anchor   BillingAnchor
		interval BillingInterval
		want     int
	}{
		{name: "day of creation month", anchor: BillingAnchorDayOfCreation, interval: BillingIntervalMonth, want: 15},
		{name: "day of creation year", anchor: BillingAnchorDayOfCreation, interval: BillingIntervalYear, want: 6},
		{name: "month anchor", anchor: 10, interval: BillingIntervalMonth, want: 10},
		{name: "month anchor clamps to 31", anchor: 40, interval: BillingIntervalMonth, want: 31},
		{name: "year anchor clamps to 12", anchor: 31, interval: BillingIntervalYear, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.anchor.Resolve(tt.interval, start))
		})
	}
}

func TestBillingAnchor_Encoding(t *testing.T) {
	out, err := json.Marshal(BillingAnchor(15))
	require.NoError(t, err)
	assert.Equal(t, "15", string(out))

	out, err = json.Marshal(BillingAnchorDayOfCreation)
	require.NoError(t, err)
	assert.Equal(t, `"dayOfCreation"`, string(out))

	tests := []struct {
		name    string
		json    string
		want    BillingAnchor
		wantErr bool
	}{
		{name: "number", json: `15`, want: 15},
		{name: "quoted number", json: `"15"`, want: 15},
		{name: "day of creation", json: `"dayOfCreation"`, want: BillingAnchorDayOfCreation},
		{name: "null", json: `null`, want: BillingAnchorDayOfCreation},
		{name: "zero", json: `0`, wantErr: true},
		{name: "garbage", json: `"first"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got BillingAnchor
			err := json.Unmarshal([]byte(tt.json), &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBillingAnchor_YAML(t *testing.T) {
	var cfg struct {
		Anchor  BillingAnchor `yaml:"anchor"`
		Default BillingAnchor `yaml:"default"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("anchor: 31\ndefault: dayOfCreation\n"), &cfg))
	assert.Equal(t, BillingAnchor(31), cfg.Anchor)
	assert.True(t, cfg.Default.IsDayOfCreation())
}

func TestBillingEnums_Validate(t *testing.T) {
	assert.NoError(t, BillingIntervalYear.Validate())
	assert.True(t, ierr.IsValidation(BillingInterval("week").Validate()))
	assert.NoError(t, PlanTypeOnetime.Validate())
	assert.True(t, ierr.IsValidation(PlanType("lifetime").Validate()))
	assert.NoError(t, BillingAnchor(0).Validate())
	assert.True(t, ierr.IsValidation(BillingAnchor(-1).Validate()))

	assert.True(t, BillingIntervalMonth.IsCalendar())
	assert.False(t, BillingIntervalDay.IsCalendar())

	assert.NoError(t, ProrationActionDowngrade.Validate())
	assert.True(t, ierr.IsValidation(ProrationAction("pause").Validate()))
	assert.NoError(t, LogLevelWarn.Validate())
	assert.True(t, ierr.IsValidation(LogLevel("trace").Validate()))
}
