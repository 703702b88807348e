// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// An ApplyOption configures ApplyMethods.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	workers int
	log     *zap.Logger
}

// Workers sets the number of rows evaluated concurrently. The default
// is 1, meaning methods run sequentially in row order. With more
// workers, methods for different output rows may run in any order and
// must not share mutable state; the resulting table is identical to a
// sequential run. Each worker may hold its own copy of row inputs, so
// memory cost scales with the worker count.
func Workers(n int) ApplyOption {
	return func(c *applyConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Logger sets a logger for progress and debug output. The default
// discards everything.
func Logger(l *zap.Logger) ApplyOption {
	return func(c *applyConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// ApplyMethods applies every method in m to every row of t, producing
// a new table with one row per (row, method) combination. Each output
// row copies its input row's dataset and stage labels, appends the
// method's name under a new stage column named m.Stage(), and holds
// the method's return value as its result.
//
// Output rows are ordered with input rows varying slowest and m's
// methods, in insertion order, varying fastest. The output has
// exactly t.Len() × m.Len() rows.
//
// If m's stage name is already a column of t, ApplyMethods returns a
// *DuplicateStageError. If any method returns an error or panics, the
// whole call fails with an *ApplicationError naming the dataset,
// pipeline, and method; no partial table is returned.
func ApplyMethods(t *Table, m *Methods, opts ...ApplyOption) (*Table, error) {
	cfg := applyConfig{workers: 1, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if t.collapsed {
		return nil, fmt.Errorf("cannot apply methods to a collapsed table")
	}
	if t.hasStage(m.stage) {
		return nil, &DuplicateStageError{Stage: m.stage}
	}

	nin, nm := t.Len(), m.Len()
	nout := nin * nm
	cfg.log.Debug("applying methods",
		zap.String("stage", m.stage),
		zap.Int("rows", nin),
		zap.Int("methods", nm),
		zap.Int("workers", cfg.workers))

	data := t.Data()
	results := t.Results()
	stageCols := make([][]string, len(t.stages))
	for i, s := range t.stages {
		stageCols[i] = t.frame.Column(s).([]string)
	}

	// Expand the labeling columns. Prior columns repeat each value
	// nm times; the new column cycles through the method names once
	// per input row.
	outData := make([]string, nout)
	outStages := make([][]string, len(t.stages)+1)
	for i := range outStages {
		outStages[i] = make([]string, nout)
	}
	for i := 0; i < nin; i++ {
		for j := 0; j < nm; j++ {
			o := i*nm + j
			outData[o] = data[i]
			for k, col := range stageCols {
				outStages[k][o] = col[i]
			}
			outStages[len(stageCols)][o] = m.names[j]
		}
	}

	// Evaluate methods into the pre-allocated result column, indexed
	// by output row so the canonical order holds however the workers
	// are scheduled.
	outResults := make([]interface{}, nout)
	var firstErr error
	if cfg.workers <= 1 {
		for i := 0; i < nin && firstErr == nil; i++ {
			for j := 0; j < nm; j++ {
				out, err := callMethod(m.fns[m.names[j]], results[i])
				if err != nil {
					firstErr = t.applicationError(i, m, j, err)
					break
				}
				outResults[i*nm+j] = out
			}
		}
	} else {
		limit := make(chan struct{}, cfg.workers)
		var wg sync.WaitGroup
		var mu sync.Mutex
		for i := 0; i < nin; i++ {
			for j := 0; j < nm; j++ {
				mu.Lock()
				failed := firstErr != nil
				mu.Unlock()
				if failed {
					break
				}
				limit <- struct{}{}
				wg.Add(1)
				i, j := i, j
				go func() {
					defer func() {
						<-limit
						wg.Done()
					}()
					out, err := callMethod(m.fns[m.names[j]], results[i])
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						if firstErr == nil {
							firstErr = t.applicationError(i, m, j, err)
						}
						return
					}
					outResults[i*nm+j] = out
				}()
			}
		}
		wg.Wait()
	}
	if firstErr != nil {
		return nil, firstErr
	}

	stages := append(t.Stages(), m.stage)
	return newTable(outData, stages, outStages, outResults), nil
}

// ApplyDatasets is shorthand for ApplyMethods(NewTable(d), m, opts...),
// the usual first call of a pipeline.
func ApplyDatasets(d *Datasets, m *Methods, opts ...ApplyOption) (*Table, error) {
	return ApplyMethods(NewTable(d), m, opts...)
}

// callMethod invokes fn, converting a panic into an error so a
// failing method cannot take down concurrently running workers.
func callMethod(fn Method, v interface{}) (out interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("method panicked: %v", p)
		}
	}()
	return fn(v)
}

// applicationError builds the ApplicationError for input row i
// failing under m's j'th method.
func (t *Table) applicationError(i int, m *Methods, j int, err error) error {
	pipeline := make([]string, 0, len(t.stages))
	for _, s := range t.stages {
		pipeline = append(pipeline, t.frame.Column(s).([]string)[i])
	}
	return &ApplicationError{
		Data:     t.Data()[i],
		Pipeline: pipeline,
		Stage:    m.stage,
		Method:   m.names[j],
		Err:      err,
	}
}
