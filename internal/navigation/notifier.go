package navigation

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vidyasagar/navsync/internal/events"
)

// Notifier turns a detected change into one fired navigation event.
type Notifier struct {
	source  events.Source
	event   string
	parser  *Parser
	log     *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics
}

// NewNotifier creates a notifier firing the named event from source.
// parser, log, tracer and metrics may be nil.
func NewNotifier(source events.Source, event string, parser *Parser, log *slog.Logger, tracer trace.Tracer, metrics *Metrics) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	if tracer == nil {
		tracer = defaultTracer()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Notifier{
		source:  source,
		event:   event,
		parser:  parser,
		log:     log,
		tracer:  tracer,
		metrics: metrics,
	}
}

// Notify fires the navigation event for raw, the current location.
// Parameters are the parsed keys the event declares; an empty location
// fires with none. It fails only when the event is not registered.
func (n *Notifier) Notify(ctx context.Context, raw string) error {
	fire, err := n.prepare(ctx, raw)
	if err != nil {
		return err
	}
	fire()
	return nil
}

// prepare builds the event for raw and returns the call that fires it.
// The span stays open until the event has fired.
func (n *Notifier) prepare(ctx context.Context, raw string) (func(), error) {
	_, span := n.tracer.Start(ctx, "navigation.notify",
		trace.WithAttributes(attribute.String("navigation.event", n.event)))

	ev, ok := n.source.NewEvent(n.event)
	if !ok {
		err := &ConfigurationError{Event: n.event}
		n.metrics.notifyErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return nil, err
	}

	if raw != "" {
		loc := n.parser.Parse(raw)
		params := make(map[string]string)
		for _, name := range ev.AttributeNames() {
			if v, ok := loc.Lookup(name); ok {
				params[name] = v
			}
		}
		ev.SetParams(params)
		span.SetAttributes(
			attribute.String("navigation.token", loc.Token),
			attribute.Int("navigation.params", len(params)),
		)
	}

	return func() {
		defer span.End()
		ev.Fire()
		n.metrics.notifications.Inc()
		n.log.Debug("navigation event fired", "event", n.event, "location", raw)
	}, nil
}
