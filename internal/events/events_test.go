package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e := New(EntityProduct, "created", 7, "lamp")

	assert.Equal(t, "product_created", e.Type)
	assert.Equal(t, "product:7", e.Key())
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.OccurredAt.IsZero())
}

func TestMessage(t *testing.T) {
	e := New(EntityTag, "deleted", 3, "")
	e.ActorID = 1

	msg, err := Message(e)
	require.NoError(t, err)
	assert.Equal(t, "tag:3", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "tag_deleted", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "tag_deleted", decoded["type"])
	assert.EqualValues(t, 3, decoded["entity_id"])
	assert.EqualValues(t, 1, decoded["actor_id"])
	assert.NotContains(t, decoded, "name")
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.Publish(context.Background(), New(EntityUser, "created", 1, "u")))
	require.NoError(t, p.Close())
}
