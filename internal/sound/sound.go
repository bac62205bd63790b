// Package sound plays game feedback cues and persists the mute preference.
package sound

import (
	"io"
	"strconv"
	"sync"

	"github.com/verte-zerg/typemaster/internal/logger"
)

// Event is a feedback cue raised by a session.
type Event string

// Feedback cues.
const (
	Keypress      Event = "keypress"
	Correct       Event = "correct"
	Incorrect     Event = "incorrect"
	LevelComplete Event = "levelComplete"
	TimeWarning   Event = "timeWarning"
)

// Player plays cues. Implementations must not block the caller.
type Player interface {
	Play(Event)
}

// Nop discards every cue.
type Nop struct{}

// Play implements Player.
func (Nop) Play(Event) {}

// KV is the storage the mute preference lives in.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Prefs reads and writes the persisted mute flag.
type Prefs struct {
	kv  KV
	key string
	log *logger.Logger
}

// NewPrefs returns Prefs stored under key.
func NewPrefs(kv KV, key string, log *logger.Logger) *Prefs {
	if log == nil {
		log = logger.Nop()
	}
	return &Prefs{kv: kv, key: key, log: log}
}

// Muted reports the stored preference. Missing or unreadable values mean unmuted.
func (p *Prefs) Muted() bool {
	raw, ok, err := p.kv.Get(p.key)
	if err != nil {
		p.log.Warn("read mute preference failed", "err", err)
		return false
	}
	if !ok {
		return false
	}
	muted, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return muted
}

// SetMuted persists the preference as "true" or "false".
func (p *Prefs) SetMuted(muted bool) error {
	return p.kv.Set(p.key, strconv.FormatBool(muted))
}

// Toggle flips the preference and returns the new value.
func (p *Prefs) Toggle() (bool, error) {
	muted := !p.Muted()
	if err := p.SetMuted(muted); err != nil {
		return !muted, err
	}
	return muted, nil
}

// Bell rings the terminal bell. Keypress cues are skipped since a bell per
// character is unusable on a terminal.
type Bell struct {
	mu    sync.Mutex
	w     io.Writer
	prefs *Prefs
}

// NewBell returns a Bell writing to w. A nil prefs never mutes.
func NewBell(w io.Writer, prefs *Prefs) *Bell {
	return &Bell{w: w, prefs: prefs}
}

// Play implements Player.
func (b *Bell) Play(e Event) {
	if e == Keypress {
		return
	}
	if b.prefs != nil && b.prefs.Muted() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, "\a")
}

// Recorder collects cues in order. Used by tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Play implements Player.
func (r *Recorder) Play(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded cues.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many times e was played.
func (r *Recorder) Count(e Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.events {
		if got == e {
			n++
		}
	}
	return n
}
