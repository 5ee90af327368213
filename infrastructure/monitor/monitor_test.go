package monitor

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_Counters(t *testing.T) {
	m := New(DefaultConfig())

	m.ObserveTick(3 * time.Millisecond)
	m.ObserveTick(time.Millisecond)
	m.ObserveQuote("STARFRUIT", "BUY")
	m.ObserveQuote("STARFRUIT", "BUY")
	m.ObserveQuote("STARFRUIT", "SELL")
	m.ObserveSkip("ORCHIDS", "empty_book")
	m.ObservePosition("AMETHYSTS", -7)
	m.ObserveTelemetry(1800, 2, nil)
	m.ObserveTelemetry(0, 0, errors.New("nan"))
	m.RecordWSConnection()
	m.RecordSpoolFile("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.quotes.WithLabelValues("STARFRUIT", "BUY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.quotes.WithLabelValues("STARFRUIT", "SELL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skips.WithLabelValues("ORCHIDS", "empty_book")))
	assert.Equal(t, -7.0, testutil.ToFloat64(m.position.WithLabelValues("AMETHYSTS")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.truncations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.telemetryErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wsConnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.spoolFiles.WithLabelValues("ok")))
}

func TestMonitor_Handler(t *testing.T) {
	m := New(DefaultConfig())
	m.ObserveTick(time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tick_trader_ticks_total 1"))
}

func TestMonitor_PrivateRegistry(t *testing.T) {
	// 两个实例互不冲突
	a, b := New(DefaultConfig()), New(DefaultConfig())
	a.ObserveTick(time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ticks))

	n, err := testutil.GatherAndCount(a.Registry(), "tick_trader_ticks_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
