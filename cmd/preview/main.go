// Command preview plays an authored skill timeline headlessly: it loads the
// engine config and step catalog, imports a skill document, and runs the
// scheduler against the wall clock with callbacks that print what a renderer
// would draw.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"skill-studio/engine/catalog"
	"skill-studio/engine/logging"
	"skill-studio/engine/logging/sinks"
	"skill-studio/engine/timeline"
)

type skillDocument struct {
	Name     string             `json:"name"`
	Tracks   []timeline.Track   `json:"tracks"`
	Steps    []timeline.Step    `json:"steps"`
	Segments []timeline.Segment `json:"segments"`
}

func main() {
	var (
		configPath string
		skillPath  string
		rate       float64
		loop       bool
		runFor     time.Duration
		debug      bool
	)
	flag.StringVar(&configPath, "config", "config/engine.yaml", "engine config file")
	flag.StringVar(&skillPath, "skill", "", "skill timeline JSON to play")
	flag.Float64Var(&rate, "rate", 1.0, "playback rate multiplier")
	flag.BoolVar(&loop, "loop", false, "wrap to frame zero at the end")
	flag.DurationVar(&runFor, "for", 30*time.Second, "wall-clock cap on the run")
	flag.BoolVar(&debug, "debug", false, "log step triggers and drag events")
	var logJSONPath string
	flag.StringVar(&logJSONPath, "log-json", "", "also write NDJSON events to this file")
	flag.Parse()

	if skillPath == "" {
		fmt.Fprintln(os.Stderr, "--skill is required")
		os.Exit(1)
	}

	cfg, err := timeline.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("preview: %v", err)
	}

	steps, err := catalog.Load(catalog.DefaultPaths()...)
	if err != nil {
		log.Fatalf("preview: %v", err)
	}
	cfg.DefaultDurations = steps.DurationTable()

	logCfg := logging.DefaultConfig()
	if debug {
		logCfg.MinimumSeverity = logging.SeverityDebug
	}
	if logJSONPath != "" {
		logCfg.EnabledSinks = append(logCfg.EnabledSinks, "json")
		logCfg.JSONFilePath = logJSONPath
	}
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsole(os.Stdout)},
	}
	if logCfg.HasSink("json") {
		file, err := os.Create(logCfg.JSONFilePath)
		if err != nil {
			log.Fatalf("preview: %v", err)
		}
		defer file.Close()
		namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(file, logCfg.JSONFlush)})
	}
	router := logging.NewRouter(logging.ClockFunc(time.Now), logCfg, namedSinks)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(ctx)
	}()

	engine := timeline.New(cfg)
	engine.SetPublisher(router)
	engine.SetCallbacks(printCallbacks())
	engine.SetExecutionContext(timeline.ExecutionContext{
		AttackerX: 120, AttackerY: 360,
		TargetX: 680, TargetY: 360,
		CenterX: 400, CenterY: 300,
	})

	doc, err := loadSkill(skillPath)
	if err != nil {
		log.Fatalf("preview: %v", err)
	}
	if err := importSkill(engine, doc); err != nil {
		log.Fatalf("preview: %v", err)
	}
	fmt.Printf("playing %q: %d tracks, %d segments, %.1fs at %dfps\n",
		doc.Name, len(engine.Store().Tracks()), len(engine.Store().Segments()),
		engine.TotalDuration(), engine.Config().FPS)

	playback := engine.Playback()
	playback.SetLoop(loop)
	if !playback.SetPlaybackRate(rate) {
		log.Fatalf("preview: invalid rate %f", rate)
	}
	playback.Play()

	deadline := time.Now().Add(runFor)
	ticker := time.NewTicker(4 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		engine.Advance()
		if !engine.IsPlaying() {
			break
		}
		if time.Now().After(deadline) {
			playback.Stop()
			break
		}
	}

	snapshot := engine.Telemetry()
	fmt.Printf("done: frames=%d loops=%d callbacks=%d\n",
		snapshot.FramesAdvanced, snapshot.LoopWraps, snapshot.CallbacksFired)
}

func loadSkill(path string) (skillDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return skillDocument{}, fmt.Errorf("failed reading %s: %w", path, err)
	}
	var doc skillDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return skillDocument{}, fmt.Errorf("failed parsing %s: %w", path, err)
	}
	return doc, nil
}

// importSkill replays a skill document into the store. The engine starts with
// one default track; authored tracks are inserted first so the default can be
// dropped without tripping the last-track guard.
func importSkill(e *timeline.Engine, doc skillDocument) error {
	store := e.Store()
	if len(doc.Tracks) > 0 {
		defaultTrack := store.Tracks()[0]
		for _, track := range doc.Tracks {
			if _, ok := store.InsertTrack(track); !ok {
				return fmt.Errorf("failed inserting track %q", track.ID)
			}
		}
		if !store.RemoveTrack(defaultTrack.ID) {
			return fmt.Errorf("failed removing the default track")
		}
	}
	for _, step := range doc.Steps {
		if _, ok := store.AddStep(step); !ok {
			return fmt.Errorf("failed inserting step %q (type %s)", step.ID, step.Type)
		}
	}
	for _, seg := range doc.Segments {
		if _, ok := store.InsertSegment(seg); !ok {
			return fmt.Errorf("failed placing segment %q at [%d,%d)", seg.ID, seg.StartFrame, seg.EndFrame)
		}
	}
	return nil
}

func printCallbacks() timeline.Callbacks {
	return timeline.Callbacks{
		OnMove: func(target string, x, y float64, durationMs int, ease string) {
			fmt.Printf("  move %s -> (%.0f,%.0f) over %dms ease=%s\n", target, x, y, durationMs, ease)
		},
		OnDamage: func(targetIndex int, value float64) {
			fmt.Printf("  damage target=%d value=%.0f\n", targetIndex, value)
		},
		OnEffect: func(effectID string, x, y float64) {
			fmt.Printf("  effect %s at (%.0f,%.0f)\n", effectID, x, y)
		},
		OnCameraMove: func(x, y, zoom float64, durationMs int) {
			fmt.Printf("  camera -> (%.0f,%.0f) zoom=%.2f over %dms\n", x, y, zoom, durationMs)
		},
		OnShake: func(intensity float64, durationMs int) {
			fmt.Printf("  shake intensity=%.1f for %dms\n", intensity, durationMs)
		},
		OnBackgroundChange: func(color, image string) {
			fmt.Printf("  background color=%s image=%s\n", color, image)
		},
	}
}
