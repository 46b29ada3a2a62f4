package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/apperrors"
	"github.com/airlift-dev/airlift/pkg/config"
	"github.com/airlift-dev/airlift/pkg/models"
	"github.com/airlift-dev/airlift/pkg/progress"
	"github.com/airlift-dev/airlift/pkg/source"
	"github.com/airlift-dev/airlift/pkg/workerpool"
)

// Engine runs one full relationship inference pass: statistics collection,
// candidate generation from both evidence sources, classification, scoring,
// reconciliation and placement planning. The engine is stateless between
// invocations and holds no connection of its own; all reads go through the
// injected store.
type Engine struct {
	store    source.Store
	cfg      config.AnalysisConfig
	reporter progress.Reporter
	pool     *workerpool.Pool

	collector  *Collector
	extractor  *SchemaLinkExtractor
	detector   *Detector
	validator  *CrossTableValidator
	scorer     *Scorer
	reconciler *Reconciler
	planner    *Planner

	logger *zap.Logger
}

// NewEngine creates an engine over the given store. A nil reporter is
// replaced with a no-op sink.
func NewEngine(store source.Store, cfg config.AnalysisConfig, reporter progress.Reporter, logger *zap.Logger) *Engine {
	if reporter == nil {
		reporter = progress.Nop()
	}
	logger = logger.Named("analysis-engine")
	return &Engine{
		store:    store,
		cfg:      cfg,
		reporter: reporter,
		pool:     workerpool.New(workerpool.Config{MaxConcurrent: cfg.MaxConcurrent}, logger),

		collector:  NewCollector(cfg.SampleCap, logger),
		extractor:  NewSchemaLinkExtractor(logger),
		detector:   NewDetector(store, cfg.SampleCap, cfg.MinMatchRatio, cfg.MinIntersection, cfg.MinSampleSize, logger),
		validator:  NewCrossTableValidator(store, logger),
		scorer:     NewScorer(cfg.MinSampleSize, logger),
		reconciler: NewReconciler(logger),
		planner:    NewPlanner(logger),

		logger: logger,
	}
}

// Analyze runs the full pipeline and assembles the report. Per-table and
// per-candidate failures are recovered locally and surfaced in the report's
// potential-issues list; only invariant violations and total data-access
// failure abort the run. Cancellation between stages yields a partial but
// valid report.
func (e *Engine) Analyze(ctx context.Context) (*models.AnalysisReport, error) {
	start := time.Now()
	progress.Emit(e.reporter, progress.StatusStarted, "analysis run started")

	infos, err := e.store.ListTables(ctx)
	if err != nil {
		progress.Emit(e.reporter, progress.StatusFailed, "could not list source tables")
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if len(infos) == 0 {
		progress.Emit(e.reporter, progress.StatusFailed, "source base has no tables")
		return nil, apperrors.ErrNoTables
	}

	var issues []string

	tables, fetchIssues := e.fetchTables(ctx, infos)
	issues = append(issues, fetchIssues...)
	if len(tables) == 0 {
		progress.Emit(e.reporter, progress.StatusFailed, "no table could be read")
		return nil, fmt.Errorf("all %d table fetches failed: %w", len(infos), apperrors.ErrNoTables)
	}

	progress.Emit(e.reporter, progress.StatusCollecting,
		fmt.Sprintf("collecting field statistics for %d tables", len(tables)))
	statsByField := e.collectStatistics(ctx, tables)

	progress.Emit(e.reporter, progress.StatusExtracting, "extracting declared schema links")
	schemaCands, extractIssues := e.extractor.Extract(tables, statsByField)
	issues = append(issues, extractIssues...)

	progress.Emit(e.reporter, progress.StatusDetecting,
		fmt.Sprintf("scanning %d table pairs for value overlap", len(tables)*(len(tables)-1)))
	dataCands, detectIssues := e.detector.Detect(ctx, tables, statsByField)
	issues = append(issues, detectIssues...)

	progress.Emit(e.reporter, progress.StatusScoring,
		fmt.Sprintf("scoring %d candidates", len(schemaCands)+len(dataCands)))
	schemaRecs, schemaIssues := e.scoreCandidates(ctx, schemaCands)
	issues = append(issues, schemaIssues...)
	dataRecs, dataIssues := e.scoreCandidates(ctx, dataCands)
	issues = append(issues, dataIssues...)

	progress.Emit(e.reporter, progress.StatusReconciling, "reconciling evidence sources")
	recs, err := e.reconciler.Reconcile(schemaRecs, dataRecs)
	if err != nil {
		// Invariant violation: logic defect, not bad input. Abort.
		progress.Emit(e.reporter, progress.StatusFailed, "reconciliation invariant violated")
		return nil, fmt.Errorf("reconcile recommendations: %w", err)
	}

	progress.Emit(e.reporter, progress.StatusPlanning, "planning foreign-key placements")
	e.planner.Plan(recs)

	// The report serializes arrays, never null, even on an issue-free run.
	if issues == nil {
		issues = []string{}
	}

	report := &models.AnalysisReport{
		RunID:           uuid.New(),
		GeneratedAt:     time.Now(),
		Relationships:   recs,
		Summary:         models.Summarize(len(tables), recs),
		PotentialIssues: issues,
	}

	progress.Emit(e.reporter, progress.StatusCompleted,
		fmt.Sprintf("analysis complete: %d relationships", len(recs)))
	e.logger.Info("analysis run complete",
		zap.Int("tables", len(tables)),
		zap.Int("relationships", len(recs)),
		zap.Int("issues", len(issues)),
		zap.Duration("duration", time.Since(start)))
	return report, nil
}

// fetchTables materializes all listed tables with bounded fan-out. Individual
// fetch failures degrade the run instead of aborting it.
func (e *Engine) fetchTables(ctx context.Context, infos []source.TableInfo) ([]*models.Table, []string) {
	tasks := make([]workerpool.Task[*models.Table], len(infos))
	for i, info := range infos {
		info := info
		tasks[i] = workerpool.Task[*models.Table]{
			ID: info.ID,
			Execute: func(ctx context.Context) (*models.Table, error) {
				return e.store.FetchTable(ctx, info.ID)
			},
		}
	}
	results := workerpool.Run(ctx, e.pool, tasks, nil)

	nameByID := make(map[string]string, len(infos))
	for _, info := range infos {
		nameByID[info.ID] = info.Name
	}

	var tables []*models.Table
	var issues []string
	for _, res := range results {
		if res.Err != nil {
			issues = append(issues, fmt.Sprintf(
				"table %q could not be read and was excluded from analysis: %v",
				nameByID[res.ID], res.Err))
			e.logger.Warn("table fetch failed",
				zap.String("table_id", res.ID), zap.Error(res.Err))
			continue
		}
		tables = append(tables, res.Value)
	}

	// Completion order is nondeterministic; restore a stable order so
	// repeated runs on identical input produce identical reports.
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	sort.Strings(issues)
	return tables, issues
}

// collectStatistics runs the collector over every table with bounded fan-out
// and indexes the results by table id and field name.
func (e *Engine) collectStatistics(ctx context.Context, tables []*models.Table) map[string]map[string]*models.FieldStatistics {
	idSets := make(map[string]map[string]struct{}, len(tables))
	for _, t := range tables {
		idSets[t.ID] = t.IDSet()
	}

	tasks := make([]workerpool.Task[[]*models.FieldStatistics], len(tables))
	for i, t := range tables {
		t := t
		tasks[i] = workerpool.Task[[]*models.FieldStatistics]{
			ID: t.ID,
			Execute: func(ctx context.Context) ([]*models.FieldStatistics, error) {
				return e.collector.Collect(t, idSets), nil
			},
		}
	}
	results := workerpool.Run(ctx, e.pool, tasks, nil)

	statsByField := make(map[string]map[string]*models.FieldStatistics, len(tables))
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		byField := make(map[string]*models.FieldStatistics, len(res.Value))
		for _, st := range res.Value {
			byField[st.FieldName] = st
		}
		statsByField[res.ID] = byField
	}
	return statsByField
}

// scoreCandidates classifies, validates and scores candidates with bounded
// per-candidate fan-out, preserving input order in the output.
func (e *Engine) scoreCandidates(ctx context.Context, cands []*models.RelationshipCandidate) ([]*models.RelationshipRecommendation, []string) {
	if len(cands) == 0 {
		return nil, nil
	}

	tasks := make([]workerpool.Task[*models.RelationshipRecommendation], len(cands))
	for i, cand := range cands {
		i, cand := i, cand
		tasks[i] = workerpool.Task[*models.RelationshipRecommendation]{
			ID: strconv.Itoa(i),
			Execute: func(ctx context.Context) (*models.RelationshipRecommendation, error) {
				cand.Cardinality = Classify(cand)

				validation := 0.0
				if cand.TargetTableID != "" {
					v, err := e.validator.Validate(ctx, candidateReferences(cand), cand.TargetTableID)
					if err != nil {
						return nil, fmt.Errorf("validate %s: %w", cand.Key(), err)
					}
					validation = v
				}
				return e.scorer.Score(cand, validation)
			},
		}
	}
	results := workerpool.Run(ctx, e.pool, tasks, nil)

	byIndex := make([]*workerpool.Result[*models.RelationshipRecommendation], len(cands))
	for i := range results {
		idx, err := strconv.Atoi(results[i].ID)
		if err != nil {
			continue
		}
		byIndex[idx] = &results[i]
	}

	var recs []*models.RelationshipRecommendation
	var issues []string
	skipped := 0
	for i, res := range byIndex {
		if res == nil {
			continue
		}
		if res.Err != nil {
			if errors.Is(res.Err, apperrors.ErrInsufficientSample) {
				skipped++
				continue
			}
			issues = append(issues, fmt.Sprintf("skipped candidate %s: %v", cands[i].Key(), res.Err))
			continue
		}
		recs = append(recs, res.Value)
	}
	if skipped > 0 {
		issues = append(issues, fmt.Sprintf(
			"%d candidate(s) skipped for insufficient sample size (minimum %d observations)",
			skipped, e.cfg.MinSampleSize))
	}
	return recs, issues
}

// candidateReferences returns the bounded sample of referenced values used
// for cross-table validation.
func candidateReferences(cand *models.RelationshipCandidate) []string {
	if cand.Overlap != nil {
		return cand.Overlap.SampleValues
	}
	if cand.Stats != nil {
		return cand.Stats.ReferencedIDs
	}
	return nil
}
