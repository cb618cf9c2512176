package phase

import (
	"log/slog"
	"sync"
)

// Engine turns note-ons into sequences. It is safe for concurrent use: an
// activation and a parameter change never interleave.
type Engine struct {
	mu       sync.Mutex
	host     Host
	pattern  Pattern
	settings Settings
	rand     RandomSource
	logger   *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

func WithPattern(p Pattern) Option {
	return func(e *Engine) { e.pattern = p.Clone() }
}

func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

func WithRandom(src RandomSource) Option {
	return func(e *Engine) { e.rand = src }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine playing into host with the default pattern
// and settings
func NewEngine(host Host, opts ...Option) *Engine {
	e := &Engine{
		host:     host,
		pattern:  DefaultPattern(),
		settings: DefaultSettings(),
		rand:     DefaultSource(),
		logger:   logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleEvent processes one incoming event. Note-ons trigger a sequence;
// everything else goes to the host untouched.
func (e *Engine) HandleEvent(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ev.Kind != EventNoteOn {
		e.host.Send(ev)
		return
	}

	steps := BuildSequence(e.pattern)
	if len(steps) == 0 {
		e.host.Send(ev)
		return
	}

	sent := Schedule(ev, steps, e.pattern, e.settings, e.rand, e.host)
	e.logger.Debug("sequence triggered",
		"pitch", ev.Pitch,
		"beat", ev.BeatPos,
		"steps", len(steps),
		"notes", sent,
	)
}

// ParameterChanged applies a host parameter edit. Unknown ids are ignored.
func (e *Engine) ParameterChanged(id ParamID, value float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.settings.Apply(id, value) {
		e.logger.Debug("ignoring parameter", "id", int(id), "value", value)
	}
}

func (e *Engine) SetPattern(p Pattern) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pattern = p.Clone()
}

func (e *Engine) SetSettings(s Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings = s
}

// Replace swaps pattern and settings under one lock, so no activation sees
// the new pattern with the old settings
func (e *Engine) Replace(p Pattern, s Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pattern = p.Clone()
	e.settings = s
}

func (e *Engine) Pattern() Pattern {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pattern.Clone()
}

func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Snapshot returns pattern and settings read under one lock
func (e *Engine) Snapshot() (Pattern, Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pattern.Clone(), e.settings
}
