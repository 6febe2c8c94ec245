package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

func TestEncode(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := Encode(BuildCompleted{BuildID: "b1", Status: StatusSuccess, Rendered: 3, DurationMS: 42, Timestamp: at})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, "b1", got["build_id"])
	require.Equal(t, "success", got["status"])
	require.InDelta(t, 3, got["rendered"], 0)
	require.Equal(t, "2024-05-01T12:00:00Z", got["timestamp"])
	require.NotContains(t, got, "error")
	require.NotContains(t, got, "revision")
}

func TestEncode_StampsTime(t *testing.T) {
	data, err := Encode(BuildCompleted{BuildID: "b2"})
	require.NoError(t, err)
	var got BuildCompleted
	require.NoError(t, json.Unmarshal(data, &got))
	require.False(t, got.Timestamp.IsZero())
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	require.NoError(t, p.Publish(context.Background(), BuildCompleted{}))
	require.NoError(t, p.Close())
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "sitegen.build")
	require.Error(t, err)
	require.Equal(t, ferrors.CategoryNetwork, ferrors.GetCategory(err))
}
