package archon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// EventKind names one of the structured event kinds optional Logger/
// HealthMonitor sinks receive.
type EventKind string

const (
	EventEntityCreate        EventKind = "EntityCreate"
	EventComponentAdd        EventKind = "ComponentAdd"
	EventArchetypeTransition EventKind = "ArchetypeTransition"
	EventQuery               EventKind = "Query"
	EventSystemExecute       EventKind = "SystemExecute"
)

// Event is the structured payload delivered to a Logger/HealthMonitor.
// CorrelationID is a slot for stitching together the events of one logical
// operation (e.g. the ComponentAdd and the ArchetypeTransition it
// triggers). The events World and QueryBuilder emit leave it at zero, so
// they carry no correlation between one another.
type Event struct {
	Kind          EventKind
	CorrelationID uint64
	Fields        map[string]any
}

// Logger receives structured events. World never requires one: a nil
// Logger field is checked at every call site before use, and NullLogger
// exists so callers who do want an explicit no-op can wire one without a
// nil check of their own.
type Logger interface {
	Log(Event)
}

// HealthMonitor receives the same structured events as Logger, for sinks
// that aggregate into counters/histograms instead of writing log lines.
type HealthMonitor interface {
	Observe(Event)
}

// NullLogger discards every event. Its Log method is a single no-op call.
// World does not install it by default: a World built without a Logger
// keeps a nil one and skips logging at each call site.
type NullLogger struct{}

func (NullLogger) Log(Event) {}

// NullHealthMonitor discards every event.
type NullHealthMonitor struct{}

func (NullHealthMonitor) Observe(Event) {}

// ZerologLogger adapts a zerolog.Logger into the Logger interface, emitting
// each event's kind, correlation id, and fields as structured log fields.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(log zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: log}
}

func (z *ZerologLogger) Log(e Event) {
	evt := z.log.Info().
		Str("kind", string(e.Kind)).
		Uint64("correlation_id", e.CorrelationID)
	for k, v := range e.Fields {
		evt = evt.Interface(k, v)
	}
	evt.Msg("archon event")
}

// PrometheusHealthMonitor counts the events it observes into prometheus
// collectors: entity creations, component adds, archetype transitions and
// query resolutions as counters, and the duration_seconds field of
// SystemExecute events as a histogram. It does not export the
// ArchetypeIndex's hit/miss/invalidation counters and records no migration
// timings.
type PrometheusHealthMonitor struct {
	entityCreates        prometheus.Counter
	componentAdds        prometheus.Counter
	archetypeTransitions prometheus.Counter
	queries              prometheus.Counter
	systemExecutions     prometheus.Histogram
}

// NewPrometheusHealthMonitor registers its collectors against reg and
// returns the monitor. Pass prometheus.NewRegistry() in tests to avoid
// colliding with the global default registerer.
func NewPrometheusHealthMonitor(reg prometheus.Registerer) *PrometheusHealthMonitor {
	m := &PrometheusHealthMonitor{
		entityCreates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archon_entity_creates_total",
			Help: "Total entities created.",
		}),
		componentAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archon_component_adds_total",
			Help: "Total AddComponent calls, including in-place overwrites.",
		}),
		archetypeTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archon_archetype_transitions_total",
			Help: "Total entity migrations between archetypes.",
		}),
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archon_queries_total",
			Help: "Total query resolutions against the ArchetypeIndex.",
		}),
		systemExecutions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "archon_system_execute_seconds",
			Help: "Duration of SystemExecute events reported by the caller.",
		}),
	}
	reg.MustRegister(m.entityCreates, m.componentAdds, m.archetypeTransitions, m.queries, m.systemExecutions)
	return m
}

func (m *PrometheusHealthMonitor) Observe(e Event) {
	switch e.Kind {
	case EventEntityCreate:
		if n, ok := e.Fields["count"].(int); ok {
			m.entityCreates.Add(float64(n))
		} else {
			m.entityCreates.Inc()
		}
	case EventComponentAdd:
		m.componentAdds.Inc()
	case EventArchetypeTransition:
		m.archetypeTransitions.Inc()
	case EventQuery:
		m.queries.Inc()
	case EventSystemExecute:
		if d, ok := e.Fields["duration_seconds"].(float64); ok {
			m.systemExecutions.Observe(d)
		}
	}
}
