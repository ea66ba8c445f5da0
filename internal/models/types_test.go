package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_UnmarshalAcceptsNumberAndString(t *testing.T) {
	cases := map[string]Distance{
		`500`:    500,
		`12.5`:   12.5,
		`"350"`:  350,
		`" 40 "`: 40,
		`""`:     0,
		`"far"`:  0,
		`null`:   0,
		`-10`:    0,
		`"-3"`:   0,
		`true`:   0,
	}
	for raw, want := range cases {
		var d Distance
		require.NoError(t, json.Unmarshal([]byte(raw), &d), raw)
		assert.Equal(t, want, d, raw)
	}
}

func TestOptionInput_WithDefaults(t *testing.T) {
	in := OptionInput{Name: "Sushi"}.WithDefaults()
	assert.Equal(t, DefaultType, in.Type)
	assert.Equal(t, Distance(0), in.Distance)
	assert.False(t, in.IsFavorite)

	kept := OptionInput{Name: "Sushi", Type: "japanese", Distance: 80, IsFavorite: true}.WithDefaults()
	assert.Equal(t, "japanese", kept.Type)
	assert.Equal(t, Distance(80), kept.Distance)
	assert.True(t, kept.IsFavorite)
}

func TestOptionInput_Validate(t *testing.T) {
	require.NoError(t, OptionInput{Name: "Pho"}.Validate())
	require.EqualError(t, OptionInput{Name: "  "}.Validate(), "option name is required")
	require.EqualError(t, OptionInput{Name: "Pho", Distance: -1}.Validate(), "distance must not be negative")
}

func TestLunchOption_JSONLayout(t *testing.T) {
	ts := time.Date(2026, 10, 14, 11, 45, 0, 250_000_000, time.UTC)
	o := LunchOption{ID: "lunch_1", Name: "Pho", Type: "other", Distance: 500, LastEaten: &ts}

	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":"lunch_1","name":"Pho","type":"other","distance":500,"isFavorite":false,"lastEaten":"2026-10-14T11:45:00.25Z"}`,
		string(b))
	assert.True(t, o.Eaten())

	o.LastEaten = nil
	b, err = json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"lastEaten":null`)
	assert.False(t, o.Eaten())
}

func TestLunchOption_UnmarshalLooseFields(t *testing.T) {
	raw := `{"id":1700000000000,"name":"Pho","type":"noodles","distance":"350","isFavorite":true,` +
		`"lastEaten":"Wed May 01 2024 12:30:00 GMT+0200 (Central European Summer Time)"}`

	var o LunchOption
	require.NoError(t, json.Unmarshal([]byte(raw), &o))
	assert.Equal(t, "1700000000000", o.ID)
	assert.Equal(t, "Pho", o.Name)
	assert.Equal(t, Distance(350), o.Distance)
	assert.True(t, o.IsFavorite)
	require.NotNil(t, o.LastEaten)
	assert.True(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC).Equal(*o.LastEaten))

	cases := map[string]*time.Time{
		`null`:                       nil,
		`"yesterday"`:                nil,
		`"2024-05-01T04:30:00.000Z"`: ptrTime(time.Date(2024, 5, 1, 4, 30, 0, 0, time.UTC)),
		`1714537800000`:              ptrTime(time.Date(2024, 5, 1, 4, 30, 0, 0, time.UTC)),
	}
	for in, want := range cases {
		var got LunchOption
		require.NoError(t, json.Unmarshal([]byte(`{"id":"x","name":"n","lastEaten":`+in+`}`), &got), in)
		if want == nil {
			assert.Nil(t, got.LastEaten, in)
			continue
		}
		require.NotNil(t, got.LastEaten, in)
		assert.True(t, want.Equal(*got.LastEaten), in)
	}

	require.Error(t, json.Unmarshal([]byte(`"not a record"`), &o))
}

func ptrTime(t time.Time) *time.Time { return &t }
