// Package service orchestrates the formula pipeline and worksheet
// operations against in-memory table snapshots, keeping file and HTTP
// concerns out of the core packages.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sheetwright/sheetwright/internal/ai"
	"github.com/sheetwright/sheetwright/internal/calc"
	"github.com/sheetwright/sheetwright/internal/formula"
	"github.com/sheetwright/sheetwright/internal/schema"
	"github.com/sheetwright/sheetwright/internal/table"
)

// DefaultPreviewRows bounds the data sample shared with the oracle for
// question answering.
const DefaultPreviewRows = 5

type Service struct {
	oracle      ai.Oracle
	normalizer  *schema.Normalizer
	fallback    *formula.Fallback
	logger      *slog.Logger
	previewRows int
	textTemp    float64
}

// Options tune the oracle-facing knobs. Zero values keep the defaults.
type Options struct {
	// JSONTemperature applies to structured calls (column mapping).
	JSONTemperature float64
	// TextTemperature applies to plain-text calls (formula fallback, Q&A).
	TextTemperature float64
	// PreviewRows bounds the data sample shared with the oracle.
	PreviewRows int
}

func New(oracle ai.Oracle, logger *slog.Logger) *Service {
	return NewWithOptions(oracle, logger, Options{})
}

func NewWithOptions(oracle ai.Oracle, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	previewRows := opts.PreviewRows
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	textTemp := opts.TextTemperature
	if textTemp <= 0 {
		textTemp = 0.3
	}
	return &Service{
		oracle:      oracle,
		normalizer:  schema.NewNormalizer(oracle, logger).WithTemperature(opts.JSONTemperature),
		fallback:    formula.NewFallback(oracle, logger).WithTemperature(opts.TextTemperature),
		logger:      logger,
		previewRows: previewRows,
		textTemp:    textTemp,
	}
}

// FormulaResult carries the synthesized formula together with its
// simulated value, when one could be computed.
type FormulaResult struct {
	Formula string
	Preview string
}

// SynthesizeFormula turns input into a formula for cell. Input that
// already starts with "=" passes through verbatim. Otherwise the
// deterministic synthesizer runs first and the oracle only sees intents
// it could not handle; a failed binary-arithmetic parse is terminal.
func (s *Service) SynthesizeFormula(ctx context.Context, input string, sch schema.Schema, cell string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "=") {
		return trimmed, nil
	}

	text, err := formula.Synthesize(trimmed, sch)
	if err == nil {
		return text, nil
	}
	if errors.Is(err, formula.ErrBinaryOperands) {
		return "", err
	}

	s.logger.Info("deterministic synthesis missed, deferring to oracle",
		"intent", trimmed, "reason", err)
	if text, ok := s.fallback.Synthesize(ctx, trimmed, sch, cell); ok {
		return text, nil
	}
	return "", fmt.Errorf("could not derive a formula from %q", input)
}

// InsertFormula resolves input to a formula and previews its value
// against t. The preview is advisory: an empty preview still counts as
// success.
func (s *Service) InsertFormula(ctx context.Context, t *table.Table, cell, input string) (FormulaResult, error) {
	text, err := s.SynthesizeFormula(ctx, input, t.Schema(), cell)
	if err != nil {
		return FormulaResult{}, err
	}
	return FormulaResult{
		Formula: text,
		Preview: calc.Preview(text, t),
	}, nil
}

// CreatePivot normalizes the caller's index and value labels against
// the sheet schema before pivoting, so near-miss names like "Qty" still
// land on real columns.
func (s *Service) CreatePivot(ctx context.Context, t *table.Table, index, values []string, aggfunc string) (*table.Table, error) {
	sch := t.Schema()
	index = schema.Columns(s.normalizer.Resolve(ctx, index, sch))
	values = schema.Columns(s.normalizer.Resolve(ctx, values, sch))
	return table.Pivot(t, index, values, aggfunc)
}

func (s *Service) CleanSheet(t *table.Table) (*table.Table, table.CleanSummary) {
	return table.Clean(t)
}

func (s *Service) ProfileSheet(t *table.Table) table.Profile {
	return table.Profiled(t)
}

// QueryData answers a natural-language question about t using only the
// schema and a small row preview as context.
func (s *Service) QueryData(ctx context.Context, t *table.Table, query string) (string, error) {
	if s.oracle == nil {
		return "", errors.New("no oracle configured for data questions")
	}

	preview, err := json.Marshal(t.Preview(s.previewRows))
	if err != nil {
		return "", fmt.Errorf("encoding data preview: %w", err)
	}

	prompt := fmt.Sprintf(
		"You are a Data Analyst. Answer the user's question based on the provided data context.\n"+
			"Columns: [%s]\n"+
			"Data Preview (First %d rows): %s\n"+
			"User Question: %s\n"+
			"IMPORTANT RULES:\n"+
			"1. Do NOT write any Python code, SQL, or programming scripts.\n"+
			"2. Do NOT explain how to write code to solve it.\n"+
			"3. Provide the direct answer in plain text.\n"+
			"4. If the answer is a number found in the preview, state it directly.\n"+
			"5. If you need to estimate based on the preview, do so.\n"+
			"Example acceptable answer: 'The average quantity is 45.2 based on the preview.'\n"+
			"Example acceptable answer: 'The highest revenue comes from Electronics.'",
		t.Schema().String(), s.previewRows, preview, query)

	resp, err := s.oracle.Complete(ctx, ai.CompletionRequest{
		Prompt:      prompt,
		Temperature: s.textTemp,
	})
	if err != nil {
		s.logger.Warn("data question failed", "error", err)
		return "", fmt.Errorf("answering data question: %w", err)
	}

	answer := strings.TrimSpace(resp.Text)
	if answer == "" {
		return "", errors.New("oracle returned an empty answer")
	}
	return answer, nil
}
