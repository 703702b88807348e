// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"fmt"
	"strings"
)

// An ApplicationError reports a method failure during ApplyMethods.
// The enclosing call aborts on the first failure; no partial table is
// returned, so the cross-product row-count invariant always holds for
// returned tables.
type ApplicationError struct {
	// Data is the originating dataset name of the failing row.
	Data string
	// Pipeline is the method chosen at each prior stage of the
	// failing row.
	Pipeline []string
	// Stage and Method identify the failing method.
	Stage  string
	Method string
	// Err is the error returned (or the recovered panic) from the
	// method.
	Err error
}

func (e *ApplicationError) Error() string {
	path := e.Data
	if len(e.Pipeline) > 0 {
		path += " " + strings.Join(e.Pipeline, " ")
	}
	return fmt.Sprintf("applying %s method %q to %s: %v", e.Stage, e.Method, path, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// A SchemaMismatchError reports two tables whose stage columns do not
// agree, or nested result tables whose columns do not agree.
type SchemaMismatchError struct {
	A, B []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("mismatched columns %q and %q", e.A, e.B)
}

// A DuplicateStageError reports an attempt to apply a Methods
// collection whose stage name is already a column of the table.
type DuplicateStageError struct {
	Stage string
}

func (e *DuplicateStageError) Error() string {
	return fmt.Sprintf("stage %q is already a column of the table", e.Stage)
}
