package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"softraster/internal/batch"
	"softraster/internal/config"
	"softraster/internal/raster"
	"softraster/internal/texture"

	"golang.org/x/term"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a scene file (.yaml, .yml or .json)")
	meshName := flag.String("mesh", "", "Built-in mesh (cube, grid, quad, sphere) or .obj path")
	tex := flag.String("texture", "", `Texture path, or "checker"`)
	shader := flag.String("shader", "", "Shader: basic, depth, gouraud, phong (default: phong)")
	format := flag.String("format", "", "Output format: webp, png, jpeg (default: webp)")
	size := flag.Int("size", 0, "Output size in pixels (default: 256)")
	frames := flag.Int("frames", 0, "Number of turntable frames (default: 1)")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (default: 90)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	wireframe := flag.Bool("wireframe", false, "Draw triangle outlines only")
	animate := flag.Bool("animate", false, "Also write an animated WebP of all frames")
	verbose := flag.Bool("v", false, "Log pipeline diagnostics")
	quiet := flag.Bool("q", false, "Hide the progress bar (implied when stderr is not a terminal)")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if *verbose {
		raster.SetLogger(log.With("component", "raster"))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Mesh:      *meshName,
		Texture:   *tex,
		Shader:    *shader,
		Format:    *format,
		Size:      *size,
		Frames:    *frames,
		Quality:   *quality,
		Workers:   *workers,
		Wireframe: *wireframe,
		Animate:   *animate,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Build texture index
	var res texture.Resolver
	if cfg.TextureDir != "" {
		idx := texture.BuildIndex(cfg.TextureDir)
		res = texture.NewCache(idx, log)
		fmt.Printf("Textures: %d indexed\n", idx.Len())
	} else {
		res = texture.NewCache(nil, log)
	}

	scene, err := batch.LoadScene(cfg, res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Printf("Software rasterizer → %s\n", cfg.Format)
	fmt.Printf("Mesh: %s (%d triangles), Shader: %s\n", cfg.Mesh, scene.Mesh.Triangles(), cfg.Shader)
	fmt.Printf("Frames: %d, Size: %dpx x%d, Workers: %d\n", cfg.Frames, cfg.RenderSize, cfg.Supersample, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	// Run batch
	hideBar := *quiet || !term.IsTerminal(int(os.Stderr.Fd()))
	results := batch.Run(ctx, scene, batch.Options{Log: log, Quiet: hideBar})

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(results))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errors[:min(len(errors), 20)] {
			fmt.Printf("  frame %d: %s\n", e.Frame, e.Error)
		}
	}

	var animPath string
	if cfg.Animate && cfg.Frames > 1 && success > 0 {
		animPath, err = batch.WriteAnimation(cfg.OutputDir, cfg.Name+"_anim", results,
			time.Duration(cfg.FrameMS)*time.Millisecond)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: animation write failed: %v\n", err)
		} else {
			fmt.Printf("Animation: %s\n", animPath)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, batch.NewManifest(scene, results, animPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
