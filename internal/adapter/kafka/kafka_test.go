package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/river-conditions/internal/config"
	"github.com/couchcryptid/river-conditions/internal/domain"
	"github.com/couchcryptid/river-conditions/internal/observability"
	"github.com/couchcryptid/river-conditions/internal/report"
)

func TestSerializeToMessage(t *testing.T) {
	observed := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	generated := time.Date(2023, 6, 1, 13, 0, 0, 0, time.UTC)
	res := domain.ClassifySingleStation(domain.Reading{Value: 60, Timestamp: observed}, report.LabelFarmoor)

	msg, err := serializeToMessage(report.TableFlow, res, generated)
	require.NoError(t, err)

	assert.Equal(t, []byte("flow/Farmoor"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "tier", msg.Headers[0].Key)
	assert.Equal(t, []byte("red"), msg.Headers[0].Value)
	assert.Equal(t, "observed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2023-06-01T12:00:00Z"), msg.Headers[1].Value)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "flow", decoded["table"])
	assert.Equal(t, "Farmoor", decoded["label"])
	assert.Equal(t, "60.000 m³/s", decoded["value"])
	assert.Equal(t, "red", decoded["tier"])
	assert.Equal(t, "2023-06-01T12:00:00Z", decoded["observed_at"])
	assert.Equal(t, "2023-06-01T13:00:00Z", decoded["generated_at"])
	assert.NotContains(t, decoded, "advice")
}

func TestSerializeToMessage_BoardAdvice(t *testing.T) {
	res, err := domain.BoardResult(domain.LockOsney, "caution stream increasing", time.Now())
	require.NoError(t, err)

	msg, err := serializeToMessage(report.TableBoards, res, time.Now())
	require.NoError(t, err)

	assert.Equal(t, []byte("boards/Osney"), msg.Key)
	assert.Contains(t, string(msg.Value), `"advice":"caution stream increasing"`)
}

func TestPublish_EmptyReport(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaTopic: "t"}, observability.DiscardLogger())
	defer w.Close()

	assert.NoError(t, w.Publish(context.Background(), report.Report{}))
}
