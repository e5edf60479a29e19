package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEventType(t *testing.T) {
	for _, v := range []string{"mariage", "anniversaire", "soiree-privee", "corporate", "festival", "autre"} {
		assert.True(t, IsValidEventType(v), v)
	}
	assert.False(t, IsValidEventType("bar-mitzvah"))
	assert.False(t, IsValidEventType(""))
	assert.False(t, IsValidEventType("Mariage"))
}

func TestIsValidPlatform(t *testing.T) {
	for _, v := range []string{"hearthis", "youtube", "mixcloud"} {
		assert.True(t, IsValidPlatform(v), v)
	}
	assert.False(t, IsValidPlatform("soundcloud"))
	assert.False(t, IsValidPlatform(""))
}

func TestIsValidMixType(t *testing.T) {
	for _, v := range []string{"original_track", "mix", "podcast", "live_set"} {
		assert.True(t, IsValidMixType(v), v)
	}
	assert.False(t, IsValidMixType("remix"))
}

func TestExtraOption_PriceJSONKey(t *testing.T) {
	opt := ExtraOption{
		Name:      "Photobooth",
		UnitPrice: decimal.NewFromInt(250),
		Selected:  true,
		Quantity:  1,
	}

	data, err := json.Marshal(opt)
	require.NoError(t, err)

	// the stored JSON uses "price", matching what the back office edits
	assert.Contains(t, string(data), `"price":"250"`)

	var back ExtraOption
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.UnitPrice.Equal(opt.UnitPrice))
}

func TestNotificationPayload_OmitsEmptyOptionalFields(t *testing.T) {
	p := NotificationPayload{
		Name:      "Jean",
		Email:     "jean@example.com",
		EventType: "mariage",
		Message:   "Un mariage en septembre.",
		Type:      NotificationTypeBooking,
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	s := string(data)
	assert.NotContains(t, s, "duration_hours")
	assert.NotContains(t, s, "special_requests")
	assert.Contains(t, s, `"type":"booking"`)
}

func TestPresetOptions(t *testing.T) {
	require.Len(t, PresetOptions, 4)
	assert.Equal(t, "Photobooth", PresetOptions[0].Name)
	assert.True(t, PresetOptions[0].Price.Equal(decimal.NewFromInt(250)))
	assert.True(t, PresetOptions[3].Price.Equal(decimal.NewFromInt(120)))
}
