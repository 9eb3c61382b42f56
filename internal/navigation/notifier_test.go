package navigation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyasagar/navsync/internal/events"
)

const testEvent = "test:locationChange"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder registers testEvent with attrs and collects every firing.
type recorder struct {
	reg   *events.Registry
	fired []events.Fired
}

func newRecorder(attrs ...string) *recorder {
	r := &recorder{reg: events.NewRegistry()}
	r.reg.Register(events.Def{Name: testEvent, Attributes: attrs})
	r.reg.Handle(testEvent, func(f events.Fired) {
		r.fired = append(r.fired, f)
	})
	return r
}

func (r *recorder) last() events.Fired {
	if len(r.fired) == 0 {
		return events.Fired{}
	}
	return r.fired[len(r.fired)-1]
}

func newTestNotifier(src events.Source) (*Notifier, *Metrics) {
	m := NewMetrics(nil)
	return NewNotifier(src, testEvent, NewParser(4), discardLogger(), nil, m), m
}

func TestNotifyFiltersDeclaredAttributes(t *testing.T) {
	rec := newRecorder("q", "sort")
	n, m := newTestNotifier(rec.reg)

	require.NoError(t, n.Notify(context.Background(), "#search?q=widgets&page=2"))

	require.Len(t, rec.fired, 1)
	assert.Equal(t, map[string]string{"q": "widgets"}, rec.last().Params)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications))
}

func TestNotifyReservedAttributes(t *testing.T) {
	rec := newRecorder("token", "querystring", "id")
	n, _ := newTestNotifier(rec.reg)

	require.NoError(t, n.Notify(context.Background(), "#item?id=7"))
	assert.Equal(t, map[string]string{
		"token":       "item",
		"querystring": "id=7",
		"id":          "7",
	}, rec.last().Params)

	require.NoError(t, n.Notify(context.Background(), "#plain"))
	assert.Equal(t, map[string]string{"token": "plain", "querystring": ""}, rec.last().Params)
}

func TestNotifyEmptyLocationStillFires(t *testing.T) {
	rec := newRecorder("token", "q")
	n, _ := newTestNotifier(rec.reg)

	require.NoError(t, n.Notify(context.Background(), ""))
	require.Len(t, rec.fired, 1)
	assert.Empty(t, rec.last().Params)
}

func TestNotifyUnregisteredEvent(t *testing.T) {
	n, m := newTestNotifier(events.NewRegistry())

	err := n.Notify(context.Background(), "#search")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, testEvent, cfgErr.Event)
	assert.ErrorIs(t, err, ErrEventNotRegistered)
	assert.Contains(t, err.Error(), testEvent)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifyErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.notifications))
}
