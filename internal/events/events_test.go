package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
}

func TestEventRoundTrip(t *testing.T) {
	created := NewCreateEvent(7, item{ProductID: 7, Name: "widget"})

	payload, err := created.Encode()
	require.NoError(t, err)

	decoded, err := Decode[item](payload)
	require.NoError(t, err)
	assert.Equal(t, created.ID, decoded.ID)
	assert.Equal(t, TypeCreate, decoded.Type)
	assert.Equal(t, 7, decoded.Key)
	require.NotNil(t, decoded.Data)
	assert.Equal(t, "widget", decoded.Data.Name)
	assert.True(t, created.CreatedAt.Equal(decoded.CreatedAt))
}

func TestEventWireFormat(t *testing.T) {
	payload, err := NewDeleteEvent[item](3).Encode()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Equal(t, "DELETE", raw["eventType"])
	assert.EqualValues(t, 3, raw["key"])
	assert.Nil(t, raw["data"])
	assert.Contains(t, raw, "eventId")
	assert.Contains(t, raw, "eventCreatedAt")
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"not json", `{"eventType":`, ErrMalformedEvent},
		{"create without data", `{"eventType":"CREATE","key":1,"data":null}`, ErrMalformedEvent},
		{"unknown type", `{"eventType":"UPSERT","key":1}`, ErrUnsupportedEventType},
		{"missing type", `{"key":1}`, ErrUnsupportedEventType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[item]([]byte(tt.payload))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeDeleteWithoutData(t *testing.T) {
	e, err := Decode[item]([]byte(`{"eventType":"DELETE","key":4}`))

	require.NoError(t, err)
	assert.Equal(t, TypeDelete, e.Type)
	assert.Nil(t, e.Data)
}

func TestPartitionFor(t *testing.T) {
	assert.Equal(t, 0, PartitionFor(5, 1))
	assert.Equal(t, 0, PartitionFor(5, 0))
	assert.Equal(t, 1, PartitionFor(5, 2))
	assert.Equal(t, 2, PartitionFor(-1, 3))
	assert.Equal(t, "products.dlq", DeadLetterTopic("products"))
}
