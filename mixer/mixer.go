// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ossrs/go-oryx-lib/logger"

	"github.com/ik5/soundscape/catalog"
	"github.com/ik5/soundscape/engine"
	"github.com/ik5/soundscape/graph"
	"github.com/ik5/soundscape/utils"
)

const defaultEventBuffer = 32

// Track is a snapshot of one mixer channel.
type Track struct {
	ID            string
	DisplayName   string
	SourceLocator string
	Category      string
	Kind          catalog.Kind
	Volume        float64
	Pan           float64
	Muted         bool
	Solo          bool
	Loaded        bool
	Playable      bool
	Playing       bool
	// Err is the load failure, a *engine.PlaybackError, or nil.
	Err error
}

// Session is a snapshot of the session level state.
type Session struct {
	ID                     string
	Region                 string
	MasterVolume           float64
	IsPlaying              bool
	EffectGraphInitialized bool
	ActivePresetName       *string
}

type Options struct {
	Region *catalog.Region
	Graph  *graph.Graph
	Pool   *engine.Pool
	// EventBuffer sizes the Events channel. It is raised to the track count
	// so every load outcome fits; later events are dropped when full.
	EventBuffer int
	// Now stamps exports. Defaults to time.Now.
	Now func() time.Time
}

type channel struct {
	desc   catalog.TrackDescriptor
	kind   catalog.Kind
	volume float64
	pan    float64
	muted  bool
	solo   bool
	eng    *engine.Engine
}

func (c *channel) snapshot() Track {
	return Track{
		ID:            c.desc.ID,
		DisplayName:   c.desc.DisplayName,
		SourceLocator: c.desc.SourceLocator,
		Category:      c.desc.Category,
		Kind:          c.kind,
		Volume:        c.volume,
		Pan:           c.pan,
		Muted:         c.muted,
		Solo:          c.solo,
		Loaded:        c.eng.Loaded(),
		Playable:      c.eng.Playable(),
		Playing:       c.eng.IsPlaying(),
		Err:           c.eng.Err(),
	}
}

func (c *channel) restore() {
	c.volume = utils.ClampUnit(c.desc.InitialVolume)
	c.pan = utils.ClampPan(c.desc.InitialPan)
	c.muted = false
	c.solo = false
	c.eng.SetVolume(c.volume)
	c.eng.SetPan(c.pan)
}

// Mixer owns the tracks of one region and drives their engines through
// the effect graph. Methods are meant for a single control goroutine;
// Events may be drained from another.
type Mixer struct {
	id     string
	region *catalog.Region
	graph  *graph.Graph
	pool   *engine.Pool
	now    func() time.Time

	mu       sync.Mutex
	channels []*channel
	byID     map[string]*channel
	master   float64
	playing  bool
	disabled bool
	closed   bool
	preset   *string

	evMu     sync.Mutex
	evClosed bool
	events   chan Event
}

// New builds a mixer for opts.Region, acquiring one engine per track from
// the pool and connecting it to the graph. Loads start immediately;
// outcomes arrive on Events.
func New(ctx context.Context, opts Options) (*Mixer, error) {
	if opts.Region == nil || opts.Graph == nil || opts.Pool == nil {
		return nil, ErrIncomplete
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = defaultEventBuffer
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := &Mixer{
		id:     uuid.NewString(),
		region: opts.Region,
		graph:  opts.Graph,
		pool:   opts.Pool,
		now:    opts.Now,
		byID:   make(map[string]*channel),
		master: 1,
		events: make(chan Event, max(opts.EventBuffer, len(opts.Region.Instruments)+len(opts.Region.Ambient))),
	}

	ctx = logger.WithContext(ctx)
	add := func(kind catalog.Kind, descs []catalog.TrackDescriptor) {
		for _, d := range descs {
			c := &channel{desc: d, kind: kind}
			c.eng = m.pool.Acquire(d.ID, d.SourceLocator, m.reporter(ctx))
			c.restore()
			m.graph.Connect(c.eng)
			m.channels = append(m.channels, c)
			m.byID[d.ID] = c
		}
	}
	add(catalog.Instrument, opts.Region.Instruments)
	add(catalog.Ambient, opts.Region.Ambient)

	m.graph.SetMasterVolume(1)
	logger.Tf(ctx, "mixer %v open, region=%v, tracks=%v", m.id, m.region.ID, len(m.channels))

	return m, nil
}

func (m *Mixer) reporter(ctx context.Context) engine.ReportFunc {
	return func(id string, err error) {
		if err != nil {
			logger.Wf(ctx, "mixer %v track %v failed, err=%v", m.id, id, err)
		}
		m.emit(eventFor(id, err))
	}
}

func (m *Mixer) emit(ev Event) {
	m.evMu.Lock()
	defer m.evMu.Unlock()

	if !m.evClosed {
		TrySend(m.events, ev)
	}
}

// Events delivers track load outcomes. The channel is closed by Close.
func (m *Mixer) Events() <-chan Event { return m.events }

func (m *Mixer) ID() string { return m.id }

// WaitLoaded blocks until every track finished loading, whether it
// succeeded or not. Failures stay on Track.Err; only ctx or Close end the
// wait early.
func (m *Mixer) WaitLoaded(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	engines := make([]*engine.Engine, 0, len(m.channels))
	for _, c := range m.channels {
		engines = append(engines, c.eng)
	}
	m.mu.Unlock()

	for _, e := range engines {
		err := e.Wait(ctx)
		switch {
		case err == nil:
		case errors.Is(err, engine.ErrClosed):
			return ErrClosed
		case ctx.Err() != nil:
			return ctx.Err()
		}
	}

	return nil
}

// mutable checks that state changes are allowed. Callers hold m.mu.
func (m *Mixer) mutable() error {
	switch {
	case m.closed:
		return ErrClosed
	case m.disabled:
		return ErrDisabled
	}

	return nil
}

func (m *Mixer) channel(id string) (*channel, error) {
	if err := m.mutable(); err != nil {
		return nil, err
	}

	c, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownTrack)
	}

	return c, nil
}

func (m *Mixer) soloActive() bool {
	for _, c := range m.channels {
		if c.kind == catalog.Instrument && c.solo {
			return true
		}
	}

	return false
}

// apply starts or pauses c's engine per the audibility rule.
func (m *Mixer) apply(c *channel, soloActive bool) {
	if m.playing && Audible(Track{Kind: c.kind, Muted: c.muted, Solo: c.solo}, soloActive) {
		c.eng.Play()
		return
	}
	c.eng.Pause()
}

func (m *Mixer) applyAll() {
	solo := m.soloActive()
	for _, c := range m.channels {
		m.apply(c, solo)
	}
}

func (m *Mixer) ToggleMute(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.channel(id)
	if err != nil {
		return err
	}

	c.muted = !c.muted
	m.apply(c, m.soloActive())

	return nil
}

func (m *Mixer) ToggleSolo(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.channel(id)
	if err != nil {
		return err
	}
	if c.kind != catalog.Instrument {
		return fmt.Errorf("%q: %w", id, ErrSoloUnsupported)
	}

	c.solo = !c.solo
	m.applyAll()

	return nil
}

// SetVolume clamps v to [0, 1].
func (m *Mixer) SetVolume(id string, v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.channel(id)
	if err != nil {
		return err
	}

	c.volume = utils.ClampUnit(v)
	c.eng.SetVolume(c.volume)

	return nil
}

// SetPan clamps p to [-1, 1].
func (m *Mixer) SetPan(id string, p float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.channel(id)
	if err != nil {
		return err
	}

	c.pan = utils.ClampPan(p)
	c.eng.SetPan(c.pan)

	return nil
}

// Play brings the effect graph up on first use, resumes output and starts
// every audible track. If the graph fails to initialize the mixer refuses
// mutations until a later Play succeeds.
func (m *Mixer) Play(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	ctx = logger.WithContext(ctx)
	if err := m.graph.Initialize(ctx); err != nil {
		m.disabled = true
		logger.Ef(ctx, "mixer %v disabled, err=%v", m.id, err)
		return fmt.Errorf("play: %w", err)
	}
	m.disabled = false

	if err := m.graph.Resume(); err != nil {
		return fmt.Errorf("resume output: %w", err)
	}
	m.playing = true
	m.applyAll()

	return nil
}

// Pause stops every engine, keeping positions, and suspends output.
func (m *Mixer) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.mutable(); err != nil {
		return err
	}

	m.playing = false
	m.applyAll()

	return m.graph.Suspend()
}

// LoadPreset applies p to the tracks: overridden tracks take the preset
// volume and pan and are unmuted, all others are muted. Effects become the
// defaults merged with the preset patch. Playback is not started, but a
// playing mixer re-applies audibility.
func (m *Mixer) LoadPreset(p catalog.Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.mutable(); err != nil {
		return err
	}

	for _, c := range m.channels {
		var (
			vol   float64
			pan   *float64
			found bool
		)
		if c.kind == catalog.Instrument {
			var o catalog.TrackOverride
			o, found = p.Track(c.desc.ID)
			vol, pan = o.Volume, o.Pan
		} else {
			var o catalog.AmbientOverride
			o, found = p.Ambient(c.desc.ID)
			vol = o.Volume
		}

		if !found {
			c.muted = true
			continue
		}
		c.muted = false
		c.volume = utils.ClampUnit(vol)
		c.eng.SetVolume(c.volume)
		if pan != nil {
			c.pan = utils.ClampPan(*pan)
			c.eng.SetPan(c.pan)
		}
	}

	var patch graph.EffectPatch
	if p.Effects != nil {
		patch = *p.Effects
	}
	if err := m.graph.SetEffects(graph.DefaultEffects().Merge(patch)); err != nil {
		return fmt.Errorf("preset %q effects: %w", p.Name, err)
	}

	name := p.Name
	m.preset = &name
	m.applyAll()

	return nil
}

// Reset stops every engine and restores catalog volumes and pans, default
// effects and full master volume. The mixer ends up not playing.
func (m *Mixer) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.mutable(); err != nil {
		return err
	}

	for _, c := range m.channels {
		c.eng.Stop()
		c.restore()
	}
	m.master = 1
	m.graph.SetMasterVolume(1)
	m.preset = nil
	m.playing = false

	if err := m.graph.SetEffects(graph.DefaultEffects()); err != nil {
		return fmt.Errorf("reset effects: %w", err)
	}

	return m.graph.Suspend()
}

func (m *Mixer) SetMasterVolume(v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.mutable(); err != nil {
		return err
	}

	m.master = utils.ClampUnit(v)
	m.graph.SetMasterVolume(m.master)

	return nil
}

// ApplyEffects merges p into the current effect settings.
func (m *Mixer) ApplyEffects(p graph.EffectPatch) (graph.EffectSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.mutable(); err != nil {
		return graph.EffectSettings{}, err
	}

	return m.graph.ApplyEffects(p)
}

func (m *Mixer) Effects() graph.EffectSettings { return m.graph.Effects() }

// Tracks lists instruments then ambient tracks in catalog order.
func (m *Mixer) Tracks() []Track {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Track, len(m.channels))
	for i, c := range m.channels {
		out[i] = c.snapshot()
	}

	return out
}

func (m *Mixer) Track(id string) (Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byID[id]
	if !ok {
		return Track{}, fmt.Errorf("%q: %w", id, ErrUnknownTrack)
	}

	return c.snapshot(), nil
}

func (m *Mixer) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{
		ID:                     m.id,
		Region:                 m.region.ID,
		MasterVolume:           m.master,
		IsPlaying:              m.playing,
		EffectGraphInitialized: m.graph.Initialized(),
	}
	if m.preset != nil {
		name := *m.preset
		s.ActivePresetName = &name
	}

	return s
}

// Close stops playback, releases every engine back to the pool and closes
// the graph. It is safe to call more than once.
func (m *Mixer) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.playing = false
	channels := m.channels
	m.mu.Unlock()

	for _, c := range channels {
		c.eng.Pause()
		m.graph.Disconnect(c.eng)
		m.pool.Release(c.desc.ID)
	}

	m.evMu.Lock()
	m.evClosed = true
	close(m.events)
	m.evMu.Unlock()

	err := m.graph.Close()
	logger.Tf(context.Background(), "mixer %v closed", m.id)

	return err
}
