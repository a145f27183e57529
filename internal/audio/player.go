package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/rs/zerolog"
)

// DefaultSampleRate is used for synthesized chimes.
const DefaultSampleRate = beep.SampleRate(44100)

// Config contains runtime options for the Player.
type Config struct {
	SampleRate beep.SampleRate
	// Volume is applied on a base-2 scale; 0 leaves the chime unchanged.
	Volume float64
	Muted  bool
	Logger *zerolog.Logger
}

// Player plays completion chimes on the default output device.
// A device that cannot be opened disables playback; it never fails a caller.
type Player struct {
	config Config
	logger zerolog.Logger

	initOnce sync.Once
	ready    bool
	open     func(beep.SampleRate) error
	play     func(beep.Streamer)

	mu    sync.Mutex
	muted bool
}

// NewPlayer creates a Player. The device is opened on first use.
func NewPlayer(config Config) *Player {
	if config.SampleRate <= 0 {
		config.SampleRate = DefaultSampleRate
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "audio").Logger()
	}
	return &Player{
		config: config,
		logger: logger,
		muted:  config.Muted,
		open: func(sampleRate beep.SampleRate) error {
			return speaker.Init(sampleRate, sampleRate.N(time.Second/10))
		},
		play: func(streamer beep.Streamer) {
			speaker.Play(streamer)
		},
	}
}

// SetMuted turns playback off or on.
func (player *Player) SetMuted(muted bool) {
	player.mu.Lock()
	player.muted = muted
	player.mu.Unlock()
}

// Muted reports whether playback is off.
func (player *Player) Muted() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.muted
}

// PlayWorkComplete plays the work completion chime.
func (player *Player) PlayWorkComplete() {
	player.playNotes("work_complete", WorkCompleteChime)
}

// PlayRestComplete plays the rest completion chime.
func (player *Player) PlayRestComplete() {
	player.playNotes("rest_complete", RestCompleteChime)
}

func (player *Player) playNotes(name string, notes []Note) {
	if player.Muted() {
		return
	}
	if !player.init() {
		return
	}
	player.play(&effects.Volume{
		Streamer: Chime(notes, player.config.SampleRate),
		Base:     2,
		Volume:   player.config.Volume,
	})
	player.logger.Debug().Str("cue", name).Msg("chime played")
}

func (player *Player) init() bool {
	player.initOnce.Do(func() {
		if err := player.open(player.config.SampleRate); err != nil {
			player.logger.Warn().Err(fmt.Errorf("open audio device: %w", err)).Msg("audio disabled")
			return
		}
		player.ready = true
	})
	return player.ready
}
