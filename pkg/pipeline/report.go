// Package pipeline drives the batch stages of the analysis: parsing source
// trees into AST artifacts and lowering AST artifacts into per-function
// control flow graphs. A missing or unreadable input root aborts a stage;
// failures on individual files are collected and reported so one bad input
// cannot sink a batch.
package pipeline

import (
	"fmt"
	"sync"
)

// UnitFailure records a per-file failure that did not abort the batch.
type UnitFailure struct {
	Path string
	Err  error
}

func (f UnitFailure) String() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Report accumulates the outcome of a batch run. It is safe for concurrent
// use by the stage workers.
type Report struct {
	mu        sync.Mutex
	processed int
	skipped   int
	failures  []UnitFailure
}

func (r *Report) addProcessed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed++
}

func (r *Report) addSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

func (r *Report) addFailure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, UnitFailure{Path: path, Err: err})
}

// Processed returns the number of units handled successfully.
func (r *Report) Processed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processed
}

// Skipped returns the number of units skipped as unchanged.
func (r *Report) Skipped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

// Failures returns the per-unit failures collected during the run.
func (r *Report) Failures() []UnitFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]UnitFailure, len(r.failures))
	copy(out, r.failures)
	return out
}
