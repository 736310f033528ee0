package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRoundTrip(t *testing.T) {
	evt := Event{
		Kind:        KindRequestDecided,
		RequestID:   "r1",
		RecipientID: "s1",
		Body:        "Your collaboration request was accepted",
	}
	data, err := evt.Encode()
	require.NoError(t, err)

	got, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, evt, got)
}

func TestDecodeEvent_BadPayload(t *testing.T) {
	_, err := DecodeEvent([]byte("not json"))
	require.Error(t, err)
}
