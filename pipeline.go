package tabula

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
)

type rowStream = iter.Seq[*Row]

// ownership records whether the pipeline's rows may be mutated in place
type ownership int

const (
	borrowed ownership = iota // rows may belong to a source Table
	owned                     // rows were produced or copied by this pipeline
)

// stage is one lazy step of a pipeline
type stage struct {
	name  string
	apply func(r *run, in rowStream) rowStream
}

// pipeline is a chain of stages over a source Table, along with the column list
// produced by the last stage
type pipeline struct {
	header *Header
	stages []stage
	rows   ownership
}

func (p *pipeline) clone() pipeline {
	c := *p
	c.stages = append([]stage(nil), p.stages...)
	return c
}

func (p *pipeline) push(name string, apply func(r *run, in rowStream) rowStream) {
	p.stages = append(p.stages, stage{name: name, apply: apply})
}

// own guarantees that subsequent stages may mutate rows in place, by copying
// each row once if that has not happened yet
func (p *pipeline) own() {
	if p.rows == owned {
		return
	}
	p.push("copy", func(r *run, in rowStream) rowStream {
		return func(yield func(*Row) bool) {
			for row := range in {
				if !yield(row.Clone()) {
					return
				}
			}
		}
	})
	p.rows = owned
}

// run holds the state of a single materialization
type run struct {
	ctx       context.Context
	mode      ErrorMode
	logger    *slog.Logger
	rowErrors []*RowError
	fatal     error
}

// live returns false once the run has been aborted or cancelled
func (r *run) live() bool {
	if r.fatal != nil {
		return false
	}
	if err := r.ctx.Err(); err != nil {
		r.fatal = err
		return false
	}
	return true
}

func sliceStream(rows []*Row) rowStream {
	return func(yield func(*Row) bool) {
		for _, row := range rows {
			if !yield(row) {
				return
			}
		}
	}
}

// materialize realizes every stage over source, returning conforming rows
func (p *pipeline) materialize(r *run, source []*Row) ([]*Row, error) {
	stream := sliceStream(source)
	for _, s := range p.stages {
		stream = s.apply(r, stream)
	}
	rows := make([]*Row, 0, len(source))
	for row := range stream {
		if !r.live() {
			break
		}
		if p.rows == borrowed {
			row = row.Clone()
		}
		if !row.header.Equal(p.header) {
			return nil, fmt.Errorf("row %d has columns %v, expected %v", len(rows), row.header.names, p.header.names)
		}
		// rows from earlier stages may carry an equal but distinct Header
		row.header = p.header
		rows = append(rows, row)
	}
	if r.fatal == nil {
		r.live()
	}
	if r.fatal != nil {
		return nil, r.fatal
	}
	if r.mode == ContinueAndFail && len(r.rowErrors) > 0 {
		return nil, aggregate(r.rowErrors)
	}
	return rows, nil
}
