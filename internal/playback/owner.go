package playback

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// Mode selects which target is audible.
type Mode int

const (
	ModeAudio Mode = iota
	ModePanel
	ModeFullScreen
)

func (m Mode) String() string {
	switch m {
	case ModePanel:
		return "panel"
	case ModeFullScreen:
		return "fullscreen"
	default:
		return "audio"
	}
}

// Context is the collection the current track was started from.
type Context int

const (
	ContextHome Context = iota
	ContextLiked
	ContextPlaylist
)

// Queue supplies the next track when one ends. The library store satisfies it.
type Queue interface {
	NextLiked() (models.Track, bool)
}

// State is the shared playback state every target and subscriber observes.
type State struct {
	Current       *models.Track
	IsPlaying     bool
	PlayedSeconds float64
	Duration      float64
	VideoVisible  bool
	FullScreen    bool
	Context       Context
	Mode          Mode
}

// Owner is the single source of playback state.
type Owner struct {
	mu      sync.Mutex
	targets map[Mode]Target
	mode    Mode
	state   State
	queue   Queue
	logger  *log.Logger

	subs    map[int]chan State
	nextSub int
}

type Option func(*Owner)

// WithTarget mounts t for mode, replacing the default.
func WithTarget(mode Mode, t Target) Option {
	return func(o *Owner) { o.targets[mode] = t }
}

func WithQueue(q Queue) Option {
	return func(o *Owner) { o.queue = q }
}

func WithLogger(l *log.Logger) Option {
	return func(o *Owner) { o.logger = l }
}

// NewOwner creates an owner in audio mode with memory targets for audio and panel
// and a [BrowserTarget] for full screen.
func NewOwner(opts ...Option) *Owner {
	o := &Owner{
		targets: map[Mode]Target{
			ModeAudio:      NewMemoryTarget("audio"),
			ModePanel:      NewMemoryTarget("panel"),
			ModeFullScreen: NewBrowserTarget(nil),
		},
		logger: log.Default(),
		subs:   map[int]chan State{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns a copy of the current state.
func (o *Owner) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

func (o *Owner) snapshot() State {
	st := o.state
	if st.Current != nil {
		c := *st.Current
		st.Current = &c
	}
	return st
}

// Subscribe returns a channel receiving state after every change and a function that
// unsubscribes. Slow subscribers miss intermediate states.
func (o *Owner) Subscribe() (<-chan State, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextSub
	o.nextSub++
	ch := make(chan State, 1)
	o.subs[id] = ch

	return ch, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if c, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(c)
		}
	}
}

func (o *Owner) publish() {
	st := o.snapshot()
	for _, ch := range o.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

// mounted returns the targets that follow the track: audio always, plus the active one.
func (o *Owner) mounted() []Target {
	out := []Target{o.targets[ModeAudio]}
	if o.mode != ModeAudio {
		out = append(out, o.targets[o.mode])
	}
	return out
}

func (o *Owner) active() Target {
	return o.targets[o.mode]
}

func (o *Owner) command(t Target, op string, fn func(Target) error) {
	if err := fn(t); err != nil {
		o.logger.Warn("playback target command failed", "target", t.Name(), "op", op, "error", err)
	}
}

// Load makes track current from ctx and resets the position. Playback starts only when autoPlay is set.
func (o *Owner) Load(track models.Track, ctx Context, autoPlay bool) error {
	if !track.Valid() {
		return shared.ErrInvalidTrack
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.load(track, ctx, autoPlay)
	return nil
}

func (o *Owner) load(track models.Track, ctx Context, autoPlay bool) {
	t := track
	o.state.Current = &t
	o.state.Context = ctx
	o.state.PlayedSeconds = 0
	o.state.Duration = float64(track.Duration)
	o.state.IsPlaying = false

	for _, target := range o.mounted() {
		o.command(target, "load", func(t Target) error { return t.Load(track) })
	}
	if autoPlay {
		o.command(o.active(), "play", Target.Play)
		o.state.IsPlaying = true
	}
	o.publish()
}

// Play resumes the active target.
func (o *Owner) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Current == nil {
		return shared.ErrNoTrack
	}
	o.command(o.active(), "play", Target.Play)
	o.state.IsPlaying = true
	o.publish()
	return nil
}

// Pause pauses the active target.
func (o *Owner) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stop()
}

func (o *Owner) stop() {
	if o.state.Current != nil {
		o.command(o.active(), "pause", Target.Pause)
	}
	o.state.IsPlaying = false
	o.publish()
}

// Toggle flips between play and pause and returns the new playing state.
func (o *Owner) Toggle() (bool, error) {
	if o.State().IsPlaying {
		o.Pause()
		return false, nil
	}
	if err := o.Play(); err != nil {
		return false, err
	}
	return true, nil
}

// Seek moves every mounted target to seconds, clamped to the track length.
func (o *Owner) Seek(seconds float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	seconds = max(seconds, 0)
	if o.state.Duration > 0 {
		seconds = min(seconds, o.state.Duration)
	}
	o.state.PlayedSeconds = seconds
	for _, target := range o.mounted() {
		o.command(target, "seek", func(t Target) error { return t.SeekTo(seconds) })
	}
	o.publish()
}

// SetMode switches the audible target. The previous target is paused and the new one
// resumes at the same position.
func (o *Owner) SetMode(mode Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if mode == o.mode {
		return
	}
	if _, ok := o.targets[mode]; !ok {
		o.logger.Warn("no playback target mounted", "mode", mode)
		return
	}

	prev := o.active()
	o.mode = mode
	o.state.Mode = mode
	o.state.VideoVisible = mode != ModeAudio
	o.state.FullScreen = mode == ModeFullScreen

	if o.state.Current != nil {
		o.command(prev, "pause", Target.Pause)

		next := o.active()
		track := *o.state.Current
		pos := o.state.PlayedSeconds
		o.command(next, "load", func(t Target) error { return t.Load(track) })
		o.command(next, "seek", func(t Target) error { return t.SeekTo(pos) })
		if o.state.IsPlaying {
			o.command(next, "play", Target.Play)
		}
	}
	o.publish()
}

// Progress records the position reported by the active target.
func (o *Owner) Progress(seconds float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.PlayedSeconds = max(seconds, 0)
	o.publish()
}

// Duration records the track length reported by the active target.
func (o *Owner) Duration(seconds float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Duration = max(seconds, 0)
	o.publish()
}

// Ended handles the end of the current track. In the liked context the next liked
// song is loaded and played; anywhere else playback stops.
func (o *Owner) Ended() {
	o.mu.Lock()
	ctx := o.state.Context
	queue := o.queue
	o.mu.Unlock()

	if ctx == ContextLiked && queue != nil {
		if next, ok := queue.NextLiked(); ok {
			o.mu.Lock()
			o.load(next, ContextLiked, true)
			o.mu.Unlock()
			return
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Duration > 0 {
		o.state.PlayedSeconds = o.state.Duration
	}
	o.stop()
}

// Tick advances the position by d while playing and raises [Owner.Ended] at the end of the track.
func (o *Owner) Tick(d time.Duration) {
	o.mu.Lock()
	if !o.state.IsPlaying {
		o.mu.Unlock()
		return
	}
	o.state.PlayedSeconds += d.Seconds()
	ended := o.state.Duration > 0 && o.state.PlayedSeconds >= o.state.Duration
	if !ended {
		o.publish()
	}
	o.mu.Unlock()

	if ended {
		o.Ended()
	}
}

// Run ticks the owner every interval until ctx is done.
func (o *Owner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			o.Tick(interval)
		case <-ctx.Done():
			return
		}
	}
}
