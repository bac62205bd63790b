// Package typing measures live typing performance against a target string.
package typing

import (
	"math"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

// TickInterval is how often a running session should call Tick.
const TickInterval = time.Second

// charsPerWord is the standard typing convention.
const charsPerWord = 5.0

// Engine accumulates keystroke judgements into SessionMetrics. Time only
// advances through the injected clock; periodic recompute happens when the
// owner calls Tick.
type Engine struct {
	now     func() time.Time
	metrics model.SessionMetrics
	running bool
}

// New returns an idle engine. A nil clock uses time.Now.
func New(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	e := &Engine{now: now}
	e.Reset()
	return e
}

// Start records the start time and enables Tick. It is a no-op once started.
func (e *Engine) Start() {
	if e.metrics.StartTime != nil {
		return
	}
	start := e.now()
	e.metrics.StartTime = &start
	e.running = true
}

// Running reports whether Tick currently recomputes metrics.
func (e *Engine) Running() bool {
	return e.running
}

// RecordKeypress judges one added character.
func (e *Engine) RecordKeypress(isCorrect bool) {
	if isCorrect {
		e.metrics.CorrectChars++
	} else {
		e.metrics.IncorrectChars++
	}
	e.metrics.TotalChars = e.metrics.CorrectChars + e.metrics.IncorrectChars
	e.metrics.Accuracy = accuracy(e.metrics.CorrectChars, e.metrics.TotalChars)
	if e.metrics.StartTime != nil {
		e.metrics.WPM = e.wpm()
	}
}

// Tick recomputes WPM from elapsed time. It does nothing after Stop.
func (e *Engine) Tick() {
	if !e.running || e.metrics.StartTime == nil {
		return
	}
	e.metrics.WPM = e.wpm()
}

// Stop freezes metrics at their last value.
func (e *Engine) Stop() {
	e.running = false
}

// Reset stops the engine and zeroes every field.
func (e *Engine) Reset() {
	e.Stop()
	e.metrics = model.SessionMetrics{Accuracy: 100}
}

// Metrics returns a snapshot of the current metrics.
func (e *Engine) Metrics() model.SessionMetrics {
	out := e.metrics
	if e.metrics.StartTime != nil {
		start := *e.metrics.StartTime
		out.StartTime = &start
	}
	return out
}

func (e *Engine) wpm() int {
	elapsed := e.now().Sub(*e.metrics.StartTime).Minutes()
	if elapsed <= 0 {
		return 0
	}
	return int(math.Round((float64(e.metrics.CorrectChars) / charsPerWord) / elapsed))
}

func accuracy(correct, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
