package convert

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/csvqif/internal/csvread"
	"github.com/cleared-dev/csvqif/internal/mapping"
	"github.com/cleared-dev/csvqif/internal/model"
	"github.com/cleared-dev/csvqif/internal/qif"
)

// Service is the entry point used by front ends. It holds no mapping state;
// callers pass the current mapping into every call.
type Service struct {
	log zerolog.Logger
}

// NewService creates a conversion Service.
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log}
}

// Preview is what a front end shows before the user builds a mapping.
type Preview struct {
	Columns []string
	Rows    []csvread.PreviewRow
	Total   int // data rows in the file
}

// Request holds everything a conversion needs.
type Request struct {
	InputPath     string
	HeaderPresent bool
	Mapping       model.ColumnMapping
	AccountType   model.AccountType
	Sign          model.SignConvention
	OutputPath    string
}

// Result describes a finished conversion.
type Result struct {
	RunID    string
	Written  int
	Skipped  int
	Duration time.Duration
}

// OpenPreview reads the file and returns its column labels and a truncated
// sample of the first rows.
func (s *Service) OpenPreview(path string, headerPresent bool) (*Preview, error) {
	tbl, err := csvread.Open(path, headerPresent)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("file", path).
		Int("columns", len(tbl.Columns)).
		Int("rows", len(tbl.Records)).
		Msg("opened preview")

	return &Preview{
		Columns: tbl.Columns,
		Rows:    tbl.Preview(csvread.PreviewRows, csvread.PreviewWidth),
		Total:   len(tbl.Records),
	}, nil
}

// ValidateMappingEdit applies one edit, or rejects it and returns m unchanged.
func (s *Service) ValidateMappingEdit(m model.ColumnMapping, columnIndex int, f model.Field) (model.ColumnMapping, error) {
	next, err := mapping.ValidateEdit(m, columnIndex, f)
	if err != nil {
		s.log.Debug().Err(err).Int("column", columnIndex).Stringer("field", f).Msg("mapping edit rejected")
	}
	return next, err
}

// Convert reads the input, transcodes it and writes the QIF file. When the
// write pass fails the partial output is left in place and the error says so.
func (s *Service) Convert(req Request) (*Result, error) {
	runID := uuid.New().String()
	log := s.log.With().Str("run_id", runID).Str("input", req.InputPath).Str("output", req.OutputPath).Logger()
	start := time.Now()

	if err := mapping.Validate(req.Mapping); err != nil {
		return nil, err
	}

	tbl, err := csvread.Open(req.InputPath, req.HeaderPresent)
	if err != nil {
		log.Error().Err(err).Msg("reading input failed")
		return nil, err
	}
	if err := checkColumns(req.Mapping, tbl); err != nil {
		return nil, err
	}

	stats, err := s.write(req, tbl.Rows())
	res := &Result{RunID: runID, Written: stats.Written, Skipped: stats.Skipped, Duration: time.Since(start)}
	if err != nil {
		log.Error().Err(err).Int("written", stats.Written).Msg("conversion failed")
		return res, err
	}

	log.Info().
		Stringer("account_type", req.AccountType).
		Stringer("sign", req.Sign).
		Int("written", stats.Written).
		Int("skipped", stats.Skipped).
		Dur("duration", res.Duration).
		Msg("conversion complete")
	return res, nil
}

func (s *Service) write(req Request, rows []model.Row) (stats qif.Stats, err error) {
	f, err := os.Create(req.OutputPath)
	if err != nil {
		return stats, &model.IOError{Op: "create", Path: req.OutputPath, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &qif.ConversionError{Err: &model.IOError{Op: "close", Path: req.OutputPath, Err: cerr}}
		}
		if err != nil {
			err = fmt.Errorf("partial output may remain at %s: %w", req.OutputPath, err)
		}
	}()

	return qif.Transcode(f, rows, req.Mapping, req.AccountType, req.Sign)
}

// checkColumns makes sure every mapped column exists in the table.
func checkColumns(m model.ColumnMapping, tbl *csvread.Table) error {
	labels := make(map[string]bool, len(tbl.Columns))
	for _, c := range tbl.Columns {
		labels[c] = true
	}
	for _, e := range m.Used() {
		if tbl.HeaderPresent && !labels[e.Column] {
			return &mapping.UnknownColumnError{Column: e.Column}
		}
		if !tbl.HeaderPresent && (e.Index < 0 || e.Index >= len(tbl.Columns)) {
			return fmt.Errorf("%w: %q is column %d, file has %d", mapping.ErrColumnIndex, e.Column, e.Index+1, len(tbl.Columns))
		}
	}
	return nil
}
