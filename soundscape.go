// SPDX-License-Identifier: EPL-2.0

package soundscape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ossrs/go-oryx-lib/logger"

	"github.com/ik5/soundscape/audio"
	"github.com/ik5/soundscape/catalog"
	"github.com/ik5/soundscape/config"
	"github.com/ik5/soundscape/engine"
	"github.com/ik5/soundscape/export"
	"github.com/ik5/soundscape/formats/aiff"
	"github.com/ik5/soundscape/formats/mp3"
	"github.com/ik5/soundscape/formats/vorbis"
	"github.com/ik5/soundscape/formats/wav"
	"github.com/ik5/soundscape/graph"
	"github.com/ik5/soundscape/mixer"
	"github.com/ik5/soundscape/visual"
)

// NewRegistry returns a registry with every bundled decoder.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}

// Options configure Open. Only Region is required; the rest falls back to
// what Config names.
type Options struct {
	Config *config.Config
	Region string

	Catalog  *catalog.Catalog
	Manifest *catalog.Manifest
	Assets   fs.FS

	// Backend plays the graph. Nil leaves pulling to the caller.
	Backend graph.Backend
	// Renderer receives visualization frames. Nil disables the feed.
	Renderer visual.Renderer
	Frames   visual.FrameSource
	Visual   visual.Options
	// Sink stores exports. Defaults to Redis when configured, else files
	// under Config.ExportDir.
	Sink export.Sink
	Seed uint64
}

// Session is one open region: its mixer, graph, engines and feed.
type Session struct {
	region *catalog.Region
	pool   *engine.Pool
	graph  *graph.Graph
	mixer  *mixer.Mixer
	feed   *visual.Feed
	sink   export.Sink
	closer io.Closer
}

func Open(ctx context.Context, opts Options) (*Session, error) {
	ctx = logger.WithContext(ctx)

	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}

	cat := opts.Catalog
	if cat == nil {
		var err error
		if cat, err = catalog.LoadFile(cfg.Catalog); err != nil {
			return nil, err
		}
	}
	region, err := cat.Region(opts.Region)
	if err != nil {
		return nil, err
	}

	manifest := opts.Manifest
	if manifest == nil && cfg.Manifest != "" {
		if manifest, err = catalog.LoadManifestFile(cfg.Manifest); err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
	}

	assets := opts.Assets
	if assets == nil {
		assets = os.DirFS(cfg.Assets)
	}

	loader := &engine.Loader{
		Registry:   NewRegistry(),
		FS:         assets,
		SampleRate: cfg.SampleRate,
	}
	if manifest != nil {
		loader.Availability = manifest
	}

	s := &Session{region: region, sink: opts.Sink}
	s.pool = engine.NewPool(ctx, loader)
	s.graph = graph.New(graph.Options{
		SampleRate: cfg.SampleRate,
		TapSize:    cfg.TapSize,
		Seed:       opts.Seed,
		Backend:    opts.Backend,
	})

	if s.mixer, err = mixer.New(ctx, mixer.Options{Region: region, Graph: s.graph, Pool: s.pool}); err != nil {
		s.pool.Close()
		return nil, err
	}

	if s.sink == nil {
		s.sink, s.closer = newSink(cfg)
	}

	if opts.Renderer != nil {
		frames := opts.Frames
		if frames == nil {
			frames = visual.NewTickerFrames(cfg.FPS)
		}
		s.feed = visual.New(s.graph.Tap(), frames, opts.Renderer, opts.Visual)
		if err := s.feed.Start(ctx); err != nil {
			return nil, errors.Join(err, s.Close())
		}
	}

	logger.Tf(ctx, "session %v open, region=%v, rate=%v", s.mixer.ID(), region.ID, cfg.SampleRate)

	return s, nil
}

func newSink(cfg *config.Config) (export.Sink, io.Closer) {
	if !cfg.Redis.Enabled() {
		return export.FileSink{Dir: cfg.ExportDir}, nil
	}

	rdb := export.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.Database)

	return export.NewRedisSink(rdb, ""), rdb
}

func (s *Session) Mixer() *mixer.Mixer     { return s.mixer }
func (s *Session) Graph() *graph.Graph     { return s.graph }
func (s *Session) Region() *catalog.Region { return s.region }
func (s *Session) Feed() *visual.Feed      { return s.feed }
func (s *Session) Sink() export.Sink       { return s.sink }

// Export stores the current mix in the session sink and returns its id.
func (s *Session) Export(ctx context.Context) (string, error) {
	ex, err := s.mixer.ExportSession()
	if err != nil {
		return "", err
	}

	id, err := s.sink.Save(ctx, ex)
	if err != nil {
		return "", fmt.Errorf("export %v: %w", ex.Name, err)
	}

	return id, nil
}

// Close tears the session down: feed, mixer (engines, graph and backend),
// then the engine pool and the sink connection.
func (s *Session) Close() error {
	var errs []error
	if s.feed != nil {
		errs = append(errs, s.feed.Close())
	}
	errs = append(errs, s.mixer.Close())
	s.pool.Close()
	if s.closer != nil {
		errs = append(errs, s.closer.Close())
	}

	return errors.Join(errs...)
}
