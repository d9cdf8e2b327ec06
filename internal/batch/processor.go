// Package batch renders turntable frames of a scene on a pool of workers,
// one renderer per worker, and writes them to disk.
package batch

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"softraster/internal/canvas"
	"softraster/internal/mathutil"
	"softraster/internal/postprocess"
	"softraster/internal/raster"
	"softraster/internal/shaders"

	"github.com/schollz/progressbar/v3"
)

// Options controls a batch run.
type Options struct {
	Log   *slog.Logger // nil discards
	Quiet bool         // hide the progress bar
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame    int
	Yaw      float64
	Path     string
	Success  bool
	Error    string
	Stats    raster.Stats
	Duration time.Duration

	// Image is kept only when an animation will be assembled.
	Image *image.NRGBA
}

// Run renders every frame of the scene. Results are indexed by frame. A
// canceled context marks the frames not yet started as failed.
func Run(ctx context.Context, scene *Scene, opts Options) []Result {
	cfg := scene.Config
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	total := cfg.Frames
	results := make([]Result, total)

	var bar *progressbar.ProgressBar
	if opts.Quiet {
		bar = progressbar.DefaultSilent(int64(total), "rendering")
	} else {
		bar = progressbar.Default(int64(total), "rendering")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		for i := range results {
			results[i] = Result{Frame: i, Error: err.Error()}
		}
		return results
	}

	// Worker pool
	workers := min(max(cfg.Workers, 1), total)
	frames := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wk, err := newWorker(scene)
			for idx := range frames {
				switch {
				case err != nil:
					results[idx] = Result{Frame: idx, Error: err.Error()}
				case ctx.Err() != nil:
					results[idx] = Result{Frame: idx, Error: ctx.Err().Error()}
				default:
					results[idx] = wk.process(idx)
				}
				if !results[idx].Success {
					log.Warn("frame failed", "frame", idx, "err", results[idx].Error)
				} else {
					log.Debug("frame done", "frame", idx, "path", results[idx].Path,
						"triangles", results[idx].Stats.Triangles, "elapsed", results[idx].Duration)
				}
				bar.Add(1)
			}
		}()
	}

	// Send work
	for i := 0; i < total; i++ {
		frames <- i
	}
	close(frames)

	wg.Wait()
	bar.Finish()

	return results
}

// worker owns a renderer, its target and an effect instance.
type worker struct {
	scene  *Scene
	r      *raster.Renderer
	color  *canvas.Canvas
	depth  *canvas.Canvas
	effect shaders.Effect
}

func newWorker(scene *Scene) (*worker, error) {
	cfg := scene.Config
	eff, err := shaders.New(cfg.Shader)
	if err != nil {
		return nil, err
	}
	eff.SetLight(cfg.LightConfig())
	eff.SetBilinear(cfg.Bilinear)

	size := cfg.RenderSize * max(cfg.Supersample, 1)
	w := &worker{
		scene:  scene,
		r:      raster.New(),
		color:  canvas.New(size, size, canvas.FormatRGBA8),
		depth:  canvas.NewDepth(size, size),
		effect: eff,
	}
	w.r.SetRenderTarget(raster.NewRenderTarget(w.color, w.depth))
	w.r.SetViewport(raster.Viewport{Width: size, Height: size})
	w.r.SetFlag(raster.DepthTest, true)
	w.r.SetFlag(raster.DepthWrite, true)
	w.r.SetFlag(raster.AlphaBlend, true)
	w.r.SetFlag(raster.PerspectiveCorrect, true)
	w.r.SetFlag(raster.Wireframe, cfg.Wireframe)
	w.r.SetActiveTexture(0, scene.Texture)
	w.r.SetShader(eff)
	return w, nil
}

// yaw returns the camera angle of a frame: one full turn over all frames.
func yaw(start float64, frame, frames int) float64 {
	return start + 360*float64(frame)/float64(max(frames, 1))
}

// Render draws one frame and returns the finished image.
func (w *worker) Render(frame int) *image.NRGBA {
	cfg := w.scene.Config
	w.r.RenderTarget().Clear(mathutil.Vec4(cfg.Background), 0)
	w.r.ResetStats()

	cam := shaders.OrbitCamera(cfg.Distance, yaw(cfg.Yaw, frame, cfg.Frames), cfg.Elevation, cfg.FOV, 1)
	s := cfg.Scale
	model := mathutil.ModelMatrix(mathutil.Vec3{}, cfg.Rotation, mathutil.Vec3{s, s, s})
	w.effect.SetTransforms(cam.Transforms(model))
	w.scene.Mesh.Draw(w.r)

	return postprocess.Finish(w.color, postprocess.Options{
		Width:     cfg.RenderSize,
		Height:    cfg.RenderSize,
		Despeckle: cfg.Despeckle,
		Fit:       cfg.Fit,
		FillRatio: cfg.FillRatio,
	})
}

func (w *worker) process(frame int) Result {
	cfg := w.scene.Config
	start := time.Now()
	res := Result{Frame: frame, Yaw: yaw(cfg.Yaw, frame, cfg.Frames)}

	img := w.Render(frame)
	res.Stats = w.r.Stats()

	res.Path = framePath(cfg.OutputDir, cfg.Name, cfg.Format, frame, cfg.Frames)
	if err := writeImage(res.Path, img, cfg.Format, cfg.Quality); err != nil {
		res.Error = err.Error()
		return res
	}
	if cfg.Animate && cfg.Frames > 1 {
		res.Image = img
	}
	res.Success = true
	res.Duration = time.Since(start)
	return res
}

// framePath names single renders <name>.<ext> and sequences
// <name>_<frame>.<ext>.
func framePath(dir, name, format string, frame, frames int) string {
	ext := Extension(format)
	if frames <= 1 {
		return filepath.Join(dir, name+ext)
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%03d%s", name, frame, ext))
}

func writeImage(path string, img image.Image, format string, quality int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, img, format, quality)
}
