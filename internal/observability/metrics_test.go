package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.FetchErrors.WithLabelValues("flags").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.FetchErrors.WithLabelValues("flags")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.FetchErrors.WithLabelValues("flags")), 0)
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Classification.WithLabelValues("flow", "Farmoor", "red").Set(1)
	m.FlowRate.WithLabelValues("Farmoor").Set(60)

	path := filepath.Join(t.TempDir(), "river.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, `river_conditions_classification{label="Farmoor",table="flow",tier="red"} 1`), out)
	assert.Contains(t, out, `river_conditions_flow_cubic_metres_per_second{label="Farmoor"} 60`)
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	m := NewMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "river.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics textfile")
}
