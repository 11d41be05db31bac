package httpapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"blockdebug/internal/assemble"
	"blockdebug/internal/blocker"
	"blockdebug/internal/domain"
	"blockdebug/internal/ingest"
	"blockdebug/internal/runstore"
)

// RunRequest describes one debug-run submission.
type RunRequest struct {
	LeftCSVPath    string        `json:"left_csv_path"`
	RightCSVPath   string        `json:"right_csv_path"`
	LeftKey        string        `json:"left_key"`
	RightKey       string        `json:"right_key"`
	OutputSize     int           `json:"output_size"`
	Correspondence []AttrPairDTO `json:"correspondence,omitempty"`
	Excluded       []PairDTO     `json:"excluded,omitempty"`
}

// AttrPairDTO is the wire shape of a domain.AttrPair.
type AttrPairDTO struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// PairDTO is the wire shape of a domain.CandidatePair expressed as strings.
type PairDTO struct {
	LeftKey  string `json:"left_key"`
	RightKey string `json:"right_key"`
}

// RunResultDTO is the wire shape of a completed run.
type RunResultDTO struct {
	ID              string       `json:"id"`
	Status          string       `json:"status"`
	SelectedColumns []string     `json:"selected_columns,omitempty"`
	Pairs           []PairResult `json:"pairs,omitempty"`
	ErrorMessage    string       `json:"error_message,omitempty"`
}

// PairResult is one ranked output pair.
type PairResult struct {
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	LeftKey    string  `json:"left_key"`
	RightKey   string  `json:"right_key"`
}

// RunLauncher runs one blocking-debugger request synchronously and persists
// its outcome.
type RunLauncher interface {
	Launch(ctx context.Context, req RunRequest) (*RunResultDTO, error)
	Get(ctx context.Context, id string) (*RunResultDTO, error)
	List(ctx context.Context, limit int) ([]RunResultDTO, error)
}

// Service is the default RunLauncher: it loads CSV table sources, runs
// blocker.DebugBlock, and records the outcome in runstore.
type Service struct {
	store       *runstore.Store
	maxOutput   int
	defaultK    int
	joinWorkers int
	logger      *slog.Logger
}

// NewService constructs a Service.
func NewService(store *runstore.Store, defaultK, maxOutput, joinWorkers int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, defaultK: defaultK, maxOutput: maxOutput, joinWorkers: joinWorkers, logger: logger}
}

func (s *Service) Launch(ctx context.Context, req RunRequest) (*RunResultDTO, error) {
	id := uuid.NewString()

	k := req.OutputSize
	if k <= 0 {
		k = s.defaultK
	}
	if k > s.maxOutput {
		k = s.maxOutput
	}

	if _, err := s.store.Create(ctx, id, req.LeftCSVPath, req.RightCSVPath, k); err != nil {
		return nil, err
	}

	result, err := s.run(ctx, req, k)
	if err != nil {
		_ = s.store.Fail(ctx, id, err)
		return &RunResultDTO{ID: id, Status: runstore.StatusFailed, ErrorMessage: err.Error()}, err
	}

	pairs := make([]runstore.Pair, len(result.Pairs))
	for i, p := range result.Pairs {
		pairs[i] = runstore.Pair{Rank: p.Rank, Similarity: p.Similarity, LeftKey: p.LeftKey, RightKey: p.RightKey}
	}
	if err := s.store.Complete(ctx, id, result.SelectedColumns, pairs); err != nil {
		return nil, err
	}

	return &RunResultDTO{
		ID:              id,
		Status:          runstore.StatusSucceeded,
		SelectedColumns: result.SelectedColumns,
		Pairs:           result.Pairs,
	}, nil
}

type runOutcome struct {
	SelectedColumns []string
	Pairs           []PairResult
}

func (s *Service) run(ctx context.Context, req RunRequest, k int) (*runOutcome, error) {
	ltable, err := (ingest.CSVSource{Path: req.LeftCSVPath, Key: req.LeftKey}).Load()
	if err != nil {
		return nil, err
	}
	rtable, err := (ingest.CSVSource{Path: req.RightCSVPath, Key: req.RightKey}).Load()
	if err != nil {
		return nil, err
	}

	var corres domain.Correspondence
	for _, p := range req.Correspondence {
		corres = append(corres, domain.AttrPair{Left: p.Left, Right: p.Right})
	}

	var candidates []domain.CandidatePair
	for _, p := range req.Excluded {
		candidates = append(candidates, domain.CandidatePair{LeftKey: p.LeftKey, RightKey: p.RightKey})
	}

	result, err := blocker.DebugBlock(ctx, ltable, rtable, candidates, blocker.Options{
		Correspondence:        corres,
		DefaultCorrespondence: ingest.DefaultCorrespondence,
		K:                     k,
		Parallel:              s.joinWorkers,
		Logger:                s.logger,
	})
	if err != nil {
		return nil, err
	}

	rows := assemble.Assemble(result.Pairs, ltable, rtable)
	pairs := make([]PairResult, len(rows))
	for i, row := range rows {
		pairs[i] = PairResult{
			Rank:       row.Rank,
			Similarity: row.Similarity,
			LeftKey:    toString(row.LeftKey),
			RightKey:   toString(row.RightKey),
		}
	}

	return &runOutcome{SelectedColumns: result.SelectedColumns, Pairs: pairs}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*RunResultDTO, error) {
	run, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := &RunResultDTO{
		ID:              run.ID,
		Status:          run.Status,
		SelectedColumns: run.SelectedColumns,
		ErrorMessage:    run.ErrorMessage,
	}

	if run.Status == runstore.StatusSucceeded {
		pairs, err := s.store.Pairs(ctx, id)
		if err != nil {
			return nil, err
		}
		dto.Pairs = make([]PairResult, len(pairs))
		for i, p := range pairs {
			dto.Pairs[i] = PairResult{Rank: p.Rank, Similarity: p.Similarity, LeftKey: p.LeftKey, RightKey: p.RightKey}
		}
	}

	return dto, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]RunResultDTO, error) {
	runs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RunResultDTO, len(runs))
	for i, run := range runs {
		out[i] = RunResultDTO{
			ID:              run.ID,
			Status:          run.Status,
			SelectedColumns: run.SelectedColumns,
			ErrorMessage:    run.ErrorMessage,
		}
	}
	return out, nil
}

func toString(v domain.Value) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
