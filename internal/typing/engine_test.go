package typing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestEngineZeroKeypressAccuracy(t *testing.T) {
	e := New(newClock().Now)
	m := e.Metrics()
	assert.Equal(t, 100, m.Accuracy)
	assert.Equal(t, 0, m.WPM)
	assert.Nil(t, m.StartTime)
}

func TestEngineAccuracyStaysInBounds(t *testing.T) {
	e := New(newClock().Now)
	e.Start()
	pattern := []bool{true, false, false, true, false, true, true, false, false, false}
	prevTotal := 0
	for i := 0; i < 50; i++ {
		e.RecordKeypress(pattern[i%len(pattern)])
		m := e.Metrics()
		assert.GreaterOrEqual(t, m.Accuracy, 0)
		assert.LessOrEqual(t, m.Accuracy, 100)
		assert.Greater(t, m.TotalChars, prevTotal)
		prevTotal = m.TotalChars
	}
	for i := 0; i < 5; i++ {
		e.RecordKeypress(false)
	}
	assert.GreaterOrEqual(t, e.Metrics().Accuracy, 0)
}

func TestEngineAccuracyRounds(t *testing.T) {
	e := New(newClock().Now)
	e.RecordKeypress(true)
	e.RecordKeypress(true)
	e.RecordKeypress(false)
	assert.Equal(t, 67, e.Metrics().Accuracy)
}

func TestEngineWPMUsesFiveCharWords(t *testing.T) {
	clock := newClock()
	e := New(clock.Now)
	e.Start()
	for i := 0; i < 50; i++ {
		e.RecordKeypress(true)
	}
	clock.Advance(30 * time.Second)
	e.Tick()
	// 50 chars = 10 words in half a minute.
	assert.Equal(t, 20, e.Metrics().WPM)
}

func TestEngineWPMZeroWithoutElapsedTime(t *testing.T) {
	e := New(newClock().Now)
	e.Start()
	e.RecordKeypress(true)
	assert.Equal(t, 0, e.Metrics().WPM)
}

func TestEngineStopFreezesMetrics(t *testing.T) {
	clock := newClock()
	e := New(clock.Now)
	e.Start()
	for i := 0; i < 10; i++ {
		e.RecordKeypress(true)
	}
	clock.Advance(time.Minute)
	e.Tick()
	require.Equal(t, 2, e.Metrics().WPM)

	e.Stop()
	clock.Advance(time.Minute)
	e.Tick()
	assert.Equal(t, 2, e.Metrics().WPM)
	assert.False(t, e.Running())
}

func TestEngineStartIsIdempotent(t *testing.T) {
	clock := newClock()
	e := New(clock.Now)
	e.Start()
	first := *e.Metrics().StartTime
	clock.Advance(time.Second)
	e.Start()
	assert.Equal(t, first, *e.Metrics().StartTime)
}

func TestEngineReset(t *testing.T) {
	e := New(newClock().Now)
	e.Start()
	e.RecordKeypress(false)
	e.Reset()
	m := e.Metrics()
	assert.Equal(t, 0, m.TotalChars)
	assert.Equal(t, 100, m.Accuracy)
	assert.Nil(t, m.StartTime)
	assert.False(t, e.Running())
}

func TestFieldJudgesCaseInsensitive(t *testing.T) {
	f := NewField("Go")
	assert.True(t, f.Type('g'))
	assert.False(t, f.Type('x'))
	f.Backspace()
	assert.True(t, f.Type('O'))
	assert.True(t, f.Complete())
	assert.False(t, f.Type('!'))
	assert.False(t, f.Complete())
}

func TestFieldSetJudgesOnlyAddedRunes(t *testing.T) {
	f := NewField("loop")
	assert.Equal(t, []bool{true, true}, f.Set("lo"))
	assert.Nil(t, f.Set("l"))
	assert.Equal(t, []bool{false, true, true}, f.Set("lxop"))
	assert.Equal(t, "lxop", f.Value())
	assert.False(t, f.Complete())
}

func TestMatchAtAgreesWithComplete(t *testing.T) {
	target := []rune("s")
	assert.Equal(t, Complete("s", "ſ"), MatchAt(target, 0, 'ſ'))
	assert.True(t, MatchAt(target, 0, 'ſ'))
	assert.True(t, MatchAt([]rune("K"), 0, 'k'))
	assert.False(t, MatchAt(target, 0, 't'))
}
