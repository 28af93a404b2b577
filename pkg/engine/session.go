// Package engine orchestrates the full SCL-to-SLD pipeline behind the
// session state machine from spec.md §4.12: load (XML decode, domain
// parse, index build), build (raw graph, bus clustering, condensation,
// plan detectors, power-transformer integration, plan ordering), reset.
package engine

import (
	"time"

	"github.com/google/uuid"

	"sclsld/pkg/cluster"
	"sclsld/pkg/config"
	"sclsld/pkg/detect"
	"sclsld/pkg/errs"
	"sclsld/pkg/graph"
	"sclsld/pkg/index"
	"sclsld/pkg/logging"
	"sclsld/pkg/metrics"
	"sclsld/pkg/model"
	"sclsld/pkg/plan"
	"sclsld/pkg/sclparse"
	"sclsld/pkg/sclxml"
)

// State is one of the session's lifecycle states.
type State string

const (
	StateEmpty   State = "empty"
	StateLoaded  State = "loaded"
	StateIndexed State = "indexed"
	StateReady   State = "ready"
)

// Session holds one SCL document's full pipeline state. It is not
// safe for concurrent use: the engine is single-threaded cooperative
// per spec.md §5.
type Session struct {
	state State
	runID string

	cfg     *config.Config
	metrics *metrics.Registry

	model *model.Model
	ix    *index.Index

	rawGraph       *graph.Graph
	condensedGraph *graph.Graph
	clustering     *cluster.Clustering
	plan           *plan.Plan

	diagnostics []model.Diagnostic
}

// NewSession creates an empty session bound to the given config and
// metrics registry. Either may be nil; a nil metrics registry simply
// skips recording.
func NewSession(cfg *config.Config, registry *metrics.Registry) *Session {
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	return &Session{
		state:   StateEmpty,
		cfg:     cfg,
		metrics: registry,
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Load reads path, decodes it as SCL, parses it into the domain model, and
// builds the cross-reference index, advancing the session to indexed.
func (s *Session) Load(path string) error {
	s.runID = uuid.NewString()
	start := time.Now()

	reader := sclxml.NewReader()
	doc, err := reader.LoadPath(path)
	if err != nil {
		return err
	}

	if err := s.ingest(doc); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordLoad(time.Since(start))
	}
	logging.Info("load complete", map[string]interface{}{"runId": s.runID, "path": path})
	return nil
}

// LoadBuffer decodes data as SCL in place of a filesystem path, otherwise
// identical to Load.
func (s *Session) LoadBuffer(data []byte) error {
	s.runID = uuid.NewString()
	start := time.Now()

	reader := sclxml.NewReader()
	doc, err := reader.LoadBuffer(data)
	if err != nil {
		return err
	}

	if err := s.ingest(doc); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordLoad(time.Since(start))
	}
	logging.Info("load-buffer complete", map[string]interface{}{"runId": s.runID})
	return nil
}

func (s *Session) ingest(doc *sclxml.SCL) error {
	parser := sclparse.NewParser()
	m, err := parser.Parse(doc)
	if err != nil {
		return err
	}
	s.model = m
	s.state = StateLoaded

	builder := index.NewBuilder(s.runID)
	s.ix = builder.Build(m)
	s.diagnostics = append(s.diagnostics, s.ix.Diagnostics...)
	s.recordDiagnostics(s.ix.Diagnostics)
	s.state = StateIndexed

	return nil
}

// Build runs the raw graph builder, bus clusterer, graph condenser, plan
// detectors, power-transformer integrator, and plan ordering, advancing the
// session to ready. It fails with logic-error if the session is not
// indexed.
func (s *Session) Build() error {
	if s.state != StateIndexed && s.state != StateReady {
		return errs.New(errs.LogicError, "SCL not loaded")
	}
	start := time.Now()

	s.rawGraph = graph.NewRawBuilder().Build(s.model, s.ix)

	clusterer := cluster.NewClusterer(s.cfg.Cluster)
	clustering, clusterDiags := clusterer.Build(s.rawGraph)
	s.clustering = clustering
	s.diagnostics = append(s.diagnostics, clusterDiags...)
	s.recordDiagnostics(clusterDiags)

	s.condensedGraph = cluster.Condense(s.rawGraph, s.clustering)

	couplers := detect.DetectCouplers(s.condensedGraph)
	transLinks := detect.DetectTransformerLinks(s.rawGraph, s.clustering)
	feeders := detect.NewFeederWalker(s.cfg.Feeder).Walk(s.rawGraph, s.condensedGraph, s.clustering)

	planBuilder := plan.NewBuilder()
	s.plan = planBuilder.Build(s.model, s.rawGraph, s.condensedGraph, s.clustering, couplers, transLinks, feeders)

	s.state = StateReady

	if s.metrics != nil {
		s.metrics.RecordBuild(time.Since(start))
		s.metrics.SetPlanCounts(len(s.plan.Buses), len(s.plan.Feeders), len(s.plan.Couplers), len(s.plan.Transformers))
	}
	logging.Info("build complete", map[string]interface{}{
		"runId": s.runID, "buses": len(s.plan.Buses), "feeders": len(s.plan.Feeders),
	})

	return nil
}

// Reset discards all loaded/built state and returns the session to empty.
func (s *Session) Reset() {
	s.state = StateEmpty
	s.runID = ""
	s.model = nil
	s.ix = nil
	s.rawGraph = nil
	s.condensedGraph = nil
	s.clustering = nil
	s.plan = nil
	s.diagnostics = nil
}

func (s *Session) recordDiagnostics(diags []model.Diagnostic) {
	if s.metrics == nil {
		return
	}
	for _, d := range diags {
		s.metrics.RecordDiagnostic(d.Code)
	}
}

// MetricsRegistry returns the session's Prometheus registry, or nil if the
// session was constructed without one.
func (s *Session) MetricsRegistry() *metrics.Registry {
	return s.metrics
}

// Model returns the parsed domain model. Requires at least the loaded
// state.
func (s *Session) Model() (*model.Model, error) {
	if s.model == nil {
		return nil, errs.New(errs.LogicError, "model not available in state "+string(s.state))
	}
	return s.model, nil
}

// Index returns the built cross-reference index. Requires at least the
// indexed state.
func (s *Session) Index() (*index.Index, error) {
	if s.ix == nil {
		return nil, errs.New(errs.LogicError, "index not available in state "+string(s.state))
	}
	return s.ix, nil
}

// RawGraph returns the raw equipment/CN graph. Requires the ready state.
func (s *Session) RawGraph() (*graph.Graph, error) {
	if s.rawGraph == nil {
		return nil, errs.New(errs.LogicError, "raw graph not available in state "+string(s.state))
	}
	return s.rawGraph, nil
}

// CondensedGraph returns the condensed equipment/bus graph. Requires the
// ready state.
func (s *Session) CondensedGraph() (*graph.Graph, error) {
	if s.condensedGraph == nil {
		return nil, errs.New(errs.LogicError, "condensed graph not available in state "+string(s.state))
	}
	return s.condensedGraph, nil
}

// Plan returns the assembled SLD plan. Requires the ready state.
func (s *Session) Plan() (*plan.Plan, error) {
	if s.plan == nil {
		return nil, errs.New(errs.LogicError, "plan not available in state "+string(s.state))
	}
	return s.plan, nil
}

// Diagnostics returns every non-fatal diagnostic accumulated across index
// building and bus clustering.
func (s *Session) Diagnostics() []model.Diagnostic {
	return s.diagnostics
}

// RawJSON serializes the raw graph, or "{}" if no graph has been built yet.
func (s *Session) RawJSON() string {
	if s.rawGraph == nil {
		return "{}"
	}
	return plan.GraphJSON(s.rawGraph)
}

// CondensedJSON serializes the condensed graph, or "{}" if none exists yet.
func (s *Session) CondensedJSON() string {
	if s.condensedGraph == nil {
		return "{}"
	}
	return plan.GraphJSON(s.condensedGraph)
}

// PlanJSON serializes the assembled plan, or "{}" if none exists yet.
func (s *Session) PlanJSON() string {
	if s.plan == nil {
		return "{}"
	}
	return plan.PlanJSON(s.plan)
}
