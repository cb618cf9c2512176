package live

import (
	"log/slog"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/james-see/phaseseq/pkg/phase"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Options configures a Session
type Options struct {
	BPM           float64
	Pattern       phase.Pattern
	Settings      phase.Settings
	EngineOptions []phase.Option
	PlayerOptions []PlayerOption
	Logger        *slog.Logger
}

// Session routes one MIDI input through an engine into one output
type Session struct {
	engine *phase.Engine
	player *Player
	clock  *Clock
	logger *slog.Logger
	stop   func()
}

func newSession(send func(msg midi.Message) error, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := NewClock(opts.BPM)
	playerOpts := append([]PlayerOption{WithPlayerLogger(logger)}, opts.PlayerOptions...)
	player := NewPlayer(send, clock, playerOpts...)

	engineOpts := append([]phase.Option{
		phase.WithPattern(opts.Pattern),
		phase.WithSettings(opts.Settings),
		phase.WithLogger(logger),
	}, opts.EngineOptions...)

	return &Session{
		engine: phase.NewEngine(player, engineOpts...),
		player: player,
		clock:  clock,
		logger: logger,
	}
}

// Open starts listening on in and playing into out
func Open(in drivers.In, out drivers.Out, opts Options) (*Session, error) {
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("failed to open MIDI output "+out.String()))
	}

	s := newSession(send, opts)

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		s.handle(msg)
	}, midi.HandleError(func(listenErr error) {
		s.logger.Warn("MIDI listener error", "device", in.String(), "err", listenErr)
	}))
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("failed to listen on MIDI input "+in.String()))
	}
	s.stop = stop

	s.logger.Info("live session started",
		"in", in.String(),
		"out", out.String(),
		"bpm", s.clock.BPM(),
	)
	return s, nil
}

func (s *Session) handle(msg midi.Message) {
	s.engine.HandleEvent(phase.EventFromMessage(msg, s.clock.Now()))
}

// Engine exposes the engine for parameter and pattern edits
func (s *Session) Engine() *phase.Engine {
	return s.engine
}

// Close stops listening and releases scheduled notes
func (s *Session) Close() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.player.Close()
	s.logger.Info("live session stopped")
}
