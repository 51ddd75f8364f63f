// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/ossrs/go-oryx-lib/logger"

	"github.com/ik5/soundscape"
	"github.com/ik5/soundscape/catalog"
	"github.com/ik5/soundscape/config"
	"github.com/ik5/soundscape/graph"
	"github.com/ik5/soundscape/mixer"
	"github.com/ik5/soundscape/output"
	"github.com/ik5/soundscape/visual"
)

func main() {
	ctx := logger.WithContext(context.Background())

	if err := doMain(ctx); err != nil {
		logger.Ef(ctx, "run err %+v", err)
		os.Exit(1)
	}

	logger.Tf(ctx, "run ok")
}

func doMain(ctx context.Context) error {
	var envFile, region, preset, out string
	var seconds float64
	var doExport, meter, list bool
	flag.StringVar(&envFile, "env", "", "Load settings from this .env file")
	flag.StringVar(&region, "region", "", "Region id to open")
	flag.StringVar(&preset, "preset", "", "Preset to load before playing")
	flag.StringVar(&out, "out", "", "Render offline to this WAV file instead of the sound card")
	flag.Float64Var(&seconds, "seconds", 30, "How long to play or render")
	flag.BoolVar(&doExport, "export", false, "Export the session when done")
	flag.BoolVar(&meter, "meter", true, "Draw a peak meter and spectrum on stderr")
	flag.BoolVar(&list, "list", false, "List regions and presets and quit")
	flag.Parse()

	cfg, err := config.Load(envFile)
	if err != nil {
		return errors.Wrapf(err, "load config")
	}
	logger.Tf(ctx, "load config as rate=%v, block=%v, tap=%v, fps=%v, assets=%v, catalog=%v, manifest=%v, redis=%v",
		cfg.SampleRate, cfg.BlockFrames, cfg.TapSize, cfg.FPS, cfg.Assets, cfg.Catalog, cfg.Manifest, cfg.Redis.Enabled())

	cat, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		return errors.Wrapf(err, "load catalog %v", cfg.Catalog)
	}
	if list {
		printCatalog(cat)
		return nil
	}
	if region == "" {
		return errors.Errorf("no -region, want one of %v", regionIDs(cat))
	}

	// Install signals.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for s := range sc {
			logger.Tf(ctx, "Got signal %v", s)
			cancel()
		}
	}()

	opts := soundscape.Options{
		Config:  cfg,
		Region:  region,
		Catalog: cat,
		Seed:    uint64(time.Now().UnixNano()),
	}

	var file *output.FileBackend
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return errors.Wrapf(err, "create %v", out)
		}
		defer f.Close()

		file = output.NewFileBackend(f, cfg.BlockFrames)
		opts.Backend = file
	} else {
		opts.Backend = output.NewDevice(cfg.SampleRate, output.DefaultBufferSize).Backend(cfg.BlockFrames)
		if meter {
			opts.Renderer = newTermMeter(os.Stderr, meterHeight)
			opts.Frames = visual.NewTickerFrames(cfg.FPS)
			opts.Visual = visual.Options{Height: meterHeight, Bins: meterBins}
		}
	}

	sess, err := soundscape.Open(ctx, opts)
	if err != nil {
		return errors.Wrapf(err, "open region %v", region)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Wf(ctx, "close session err %+v", err)
		}
	}()

	m := sess.Mixer()
	if preset != "" {
		p, err := sess.Region().Preset(preset)
		if err != nil {
			return errors.Wrapf(err, "preset %v", preset)
		}
		if err := m.LoadPreset(p); err != nil {
			return errors.Wrapf(err, "load preset %v", preset)
		}
	}

	if err := waitLoads(ctx, m); err != nil {
		return errors.Wrapf(err, "wait for tracks")
	}
	if err := m.Play(ctx); err != nil {
		return errors.Wrapf(err, "play")
	}
	logger.Tf(ctx, "playing region=%v, preset=%v, effects=%+v", region, preset, m.Effects())

	d := time.Duration(seconds * float64(time.Second))
	if file != nil {
		frames := int(seconds * float64(cfg.SampleRate))
		if err := file.Render(ctx, frames); err != nil {
			return errors.Wrapf(err, "render %v frames", frames)
		}
		logger.Tf(ctx, "rendered %v frames to %v", file.Frames(), out)
	} else {
		select {
		case <-ctx.Done():
		case <-time.After(d):
		}
		fmt.Fprintln(os.Stderr)
	}

	if doExport {
		id, err := sess.Export(context.WithoutCancel(ctx))
		if err != nil {
			return errors.Wrapf(err, "export")
		}
		logger.Tf(ctx, "exported session as %v", id)
	}

	return nil
}

// waitLoads blocks until every track finished loading and logs the ones
// that failed.
func waitLoads(ctx context.Context, m *mixer.Mixer) error {
	if err := m.WaitLoaded(ctx); err != nil {
		return err
	}

	for _, tr := range m.Tracks() {
		if tr.Err != nil {
			logger.Wf(ctx, "track %v not playable: %v", tr.ID, tr.Err)
		}
	}

	return nil
}

func regionIDs(cat *catalog.Catalog) []string {
	ids := make([]string, 0, len(cat.Regions))
	for _, r := range cat.Regions {
		ids = append(ids, r.ID)
	}

	return ids
}

func printCatalog(cat *catalog.Catalog) {
	for _, r := range cat.Regions {
		fmt.Printf("%v\t%v\n", r.ID, r.Name)
		for _, p := range r.Presets {
			fx := graph.DefaultEffects()
			if p.Effects != nil {
				fx = fx.Merge(*p.Effects)
			}
			fmt.Printf("  %v\t%v\treverb=%.2f delay=%.2f\n", p.Name, p.Category, fx.Reverb.Mix, fx.Delay.Mix)
		}
	}
}
