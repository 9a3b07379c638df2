package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudEventEnvelope(t *testing.T) {
	ce, err := NewCloudEvent("service-quote", "quote.distance_resolved", map[string]any{"source": "rough"})
	require.NoError(t, err)

	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)
	assert.False(t, ce.Time.IsZero())

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ce.ID, parsed.ID)

	var data struct {
		Source string `json:"source"`
	}
	require.NoError(t, parsed.ParseData(&data))
	assert.Equal(t, "rough", data.Source)
}

func TestParseCloudEventRejectsGarbage(t *testing.T) {
	_, err := ParseCloudEvent([]byte("not json"))
	assert.Error(t, err)
}

func TestNewCloudEventUnmarshalableData(t *testing.T) {
	_, err := NewCloudEvent("s", "t", make(chan int))
	assert.Error(t, err)
}
