package tabula

import (
	"context"
	"log/slog"

	errors "github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/logging"
)

// Operation is a single step which can be chained onto a Builder with To.
// Operations validate their arguments against the Builder's current columns when applied.
type Operation struct {
	name string
	do   func(p *pipeline) error
}

// Name returns the name of this Operation
func (op Operation) Name() string {
	return op.name
}

// BuilderOptions configures a Builder. The zero value is valid.
type BuilderOptions struct {
	Logger *slog.Logger // Logger receives operation and row failure messages. Defaults to discarding them.
}

// Builder composes Operations over a source Table, and finalizes them into a new Table.
// Nothing is evaluated until finalization, and the source Table is never modified.
// A Builder may be finalized only once.
type Builder struct {
	source   *Table
	pipe     pipeline
	logger   *slog.Logger
	consumed bool
}

// NewBuilder starts a pipeline over a Table
func NewBuilder(source *Table) *Builder {
	return NewBuilderWithOptions(source, nil)
}

// NewBuilderWithOptions starts a pipeline over a Table, with options
func NewBuilderWithOptions(source *Table, opts *BuilderOptions) *Builder {
	if opts == nil {
		opts = &BuilderOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Builder{
		source: source,
		pipe:   pipeline{header: source.header, rows: borrowed},
		logger: logger.With(slog.String("source", source.ID())),
	}
}

// Columns returns the columns the pipeline will produce, given the Operations applied so far
func (b *Builder) Columns() []string {
	return b.pipe.header.Columns()
}

// To chains Operations onto this Builder, in order. If any Operation fails validation,
// its error is returned and the Builder is left as it was before To was called.
func (b *Builder) To(ops ...Operation) (*Builder, error) {
	if b.consumed {
		return nil, errors.BuilderConsumedError{}
	}
	saved := b.pipe.clone()
	for _, op := range ops {
		if err := op.do(&b.pipe); err != nil {
			b.pipe = saved
			b.logger.Debug("operation rejected", slog.String("op", op.name), slog.Any("error", err))
			return nil, err
		}
		b.logger.Debug("operation registered", slog.String("op", op.name), slog.Any("columns", b.pipe.header.names))
	}
	return b, nil
}

// Build evaluates the pipeline and produces a new Table, handling per-row failures according to mode
func (b *Builder) Build(mode ErrorMode) (*Table, error) {
	return b.BuildContext(context.Background(), mode)
}

// BuildContext is like Build, but stops between rows once ctx is done
func (b *Builder) BuildContext(ctx context.Context, mode ErrorMode) (*Table, error) {
	if b.consumed {
		return nil, errors.BuilderConsumedError{}
	}
	b.consumed = true
	r := &run{ctx: ctx, mode: mode, logger: b.logger}
	b.logger.Debug("materializing", slog.Int("stages", len(b.pipe.stages)), slog.String("mode", mode.String()))
	rows, err := b.pipe.materialize(r, b.source.rows)
	if err != nil {
		b.logger.Debug("materialization failed", slog.Int("row_errors", len(r.rowErrors)), slog.Any("error", err))
		return nil, err
	}
	result := newTable(b.pipe.header, rows, r.rowErrors)
	b.logger.Debug("materialized",
		slog.String("table", result.ID()),
		slog.Int("rows", result.Count()),
		slog.Int("row_errors", len(r.rowErrors)),
	)
	return result, nil
}

// Chunk evaluates the pipeline and partitions the result into consecutive Tables of at most
// size rows each. Every chunk carries the full list of recorded row errors.
func (b *Builder) Chunk(size int, mode ErrorMode) ([]*Table, error) {
	if size <= 0 {
		return nil, errors.InvalidChunkSizeError{Size: size}
	}
	whole, err := b.Build(mode)
	if err != nil {
		return nil, err
	}
	chunks := make([]*Table, 0, (whole.Count()+size-1)/size)
	for from := 0; from < whole.Count(); from += size {
		to := from + size
		if to > whole.Count() {
			to = whole.Count()
		}
		chunks = append(chunks, newTable(whole.header, whole.rows[from:to:to], whole.errors))
	}
	return chunks, nil
}

// Transform is shorthand for chaining ops onto a new Builder over source, and building it
func Transform(source *Table, mode ErrorMode, ops ...Operation) (*Table, error) {
	b, err := NewBuilder(source).To(ops...)
	if err != nil {
		return nil, err
	}
	return b.Build(mode)
}

// checkColumns validates that every name exists in header
func checkColumns(header *Header, names []string) error {
	for _, name := range names {
		if !header.Has(name) {
			return errors.UnknownColumnError{Name: name}
		}
	}
	return nil
}

// checkUnique validates that names holds no duplicates
func checkUnique(names []string) error {
	_, err := NewHeader(names)
	return err
}
