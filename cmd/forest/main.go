package main

import (
	"flag"
	"log"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forest/engine/window"
	"github.com/Carmen-Shannon/oxy-forest/examples"
)

func main() {
	def := examples.DefaultForestConfig()
	config := flag.String("config", "", "optional YAML file with forest settings, flags given on the command line override it")
	side := flag.Int("side", def.SideChunks, "number of chunks along each axis")
	chunkSize := flag.Float64("chunk", float64(def.ChunkSize), "chunk edge length in world units")
	density := flag.Float64("density", float64(def.Density), "objects per square unit before per-layer divisors")
	workers := flag.Int("workers", 0, "build goroutines, 0 uses one per spare CPU")
	seed := flag.Uint64("seed", 0, "placement seed, 0 is random")
	growth := flag.String("growth", "", "optional PNG or JPEG growth map, generated when empty")
	profile := flag.Bool("profile", true, "log frame statistics every second")
	vsync := flag.Bool("vsync", false, "wait for vertical blank")
	msaa := flag.Bool("msaa", true, "4x multisample anti-aliasing")
	software := flag.Bool("software", false, "force the software fallback adapter")
	width := flag.Int("width", 1920, "window width")
	height := flag.Int("height", 1080, "window height")
	flag.Parse()

	cfg := def
	if *config != "" {
		loaded, err := examples.LoadForestConfig(*config)
		if err != nil {
			log.Fatalf("[Forest] %v", err)
		}
		cfg = loaded
	}
	// only flags given explicitly override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "side":
			cfg.SideChunks = *side
		case "chunk":
			cfg.ChunkSize = float32(*chunkSize)
		case "density":
			cfg.Density = float32(*density)
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "growth":
			if *growth != "" {
				cfg.GrowthTexture = &common.ImportedTexture{Name: "growth", Path: *growth}
			}
		}
	})

	// ── Engine + Window ─────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithProfiling(*profile),
		engine.WithTickRate(60),
		engine.WithWindow(window.NewWindow(
			window.WithTitle("Oxy Forest"),
			window.WithWidth(*width),
			window.WithHeight(*height),
		)),
	)

	// ── Renderer ────────────────────────────────────────────────────
	presentMode := renderer.PresentModeUncapped
	if *vsync {
		presentMode = renderer.PresentModeVSync
	}
	samples := renderer.MSAAOff
	if *msaa {
		samples = renderer.MSAA4x
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		eng.Window(),
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(samples),
		renderer.WithForceSoftwareRenderer(*software),
	)

	// ── Scene ───────────────────────────────────────────────────────
	cam := examples.NewForestCamera(float32(eng.Window().Width()) / float32(eng.Window().Height()))
	forest, err := examples.NewForest(cfg, cam, r)
	if err != nil {
		log.Fatalf("[Forest] %v", err)
	}
	defer forest.Release()
	eng.AddScene(0, forest)

	eng.Run()
}
