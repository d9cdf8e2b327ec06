package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"softraster/internal/config"
	"softraster/internal/mesh"
	"softraster/internal/raster"

	"github.com/HugoSmits86/nativewebp"
)

func testConfig(t *testing.T, flags config.Flags) config.Config {
	t.Helper()
	if flags.OutputDir == "" {
		flags.OutputDir = t.TempDir()
	}
	if flags.Size == 0 {
		flags.Size = 32
	}
	if flags.Workers == 0 {
		flags.Workers = 2
	}
	var cfg config.Config
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	return cfg
}

func loadScene(t *testing.T, cfg config.Config) *Scene {
	t.Helper()
	s, err := LoadScene(cfg, nil)
	if err != nil {
		t.Fatalf("LoadScene() = %v", err)
	}
	return s
}

func TestRunSingleFrameWebP(t *testing.T) {
	cfg := testConfig(t, config.Flags{})
	results := Run(context.Background(), loadScene(t, cfg), Options{Quiet: true})

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if !r.Success {
		t.Fatalf("frame failed: %s", r.Error)
	}
	if want := filepath.Join(cfg.OutputDir, "cube.webp"); r.Path != want {
		t.Errorf("Path = %q, want %q", r.Path, want)
	}
	if r.Stats.Triangles != 12 {
		t.Errorf("Stats.Triangles = %d, want 12", r.Stats.Triangles)
	}
	if r.Image != nil {
		t.Error("frame image kept without animation")
	}

	f, err := os.Open(r.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := nativewebp.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("output is %v, want 32x32", b)
	}
	if _, _, _, a := img.At(16, 16).RGBA(); a == 0 {
		t.Error("center pixel is transparent")
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
}

func TestRunSequencePNG(t *testing.T) {
	cfg := testConfig(t, config.Flags{Format: "png", Frames: 4, Mesh: "sphere", Shader: "gouraud"})
	scene := loadScene(t, cfg)
	results := Run(context.Background(), scene, Options{Quiet: true})

	for i, r := range results {
		if !r.Success {
			t.Fatalf("frame %d failed: %s", i, r.Error)
		}
		if r.Frame != i {
			t.Errorf("results[%d].Frame = %d", i, r.Frame)
		}
		if want := float64(90 * i); r.Yaw != want {
			t.Errorf("frame %d yaw = %v, want %v", i, r.Yaw, want)
		}
		f, err := os.Open(filepath.Join(cfg.OutputDir, fmt.Sprintf("sphere_%03d.png", i)))
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		_, err = png.Decode(f)
		f.Close()
		if err != nil {
			t.Errorf("frame %d: decode: %v", i, err)
		}
	}

	mpath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := WriteManifest(mpath, NewManifest(scene, results, "")); err != nil {
		t.Fatalf("WriteManifest() = %v", err)
	}
	data, err := os.ReadFile(mpath)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if m.Name != "sphere" || m.Shader != "gouraud" || m.Size != 32 {
		t.Errorf("manifest header = %+v", m)
	}
	if len(m.Frames) != 4 || m.Frames[2].Image != "sphere_002.png" {
		t.Errorf("manifest frames = %+v", m.Frames)
	}
	if m.Animation != "" {
		t.Errorf("Animation = %q, want empty", m.Animation)
	}
}

func TestRunAnimation(t *testing.T) {
	cfg := testConfig(t, config.Flags{Frames: 3, Animate: true, Texture: "checker"})
	cfg.Name = "spin"
	scene := loadScene(t, cfg)
	if scene.Texture == nil {
		t.Fatal("checker texture not built")
	}
	results := Run(context.Background(), scene, Options{Quiet: true})
	for _, r := range results {
		if !r.Success || r.Image == nil {
			t.Fatalf("frame %d: success=%v image=%v err=%s", r.Frame, r.Success, r.Image != nil, r.Error)
		}
	}

	path, err := WriteAnimation(cfg.OutputDir, cfg.Name+"_anim", results, 80*time.Millisecond)
	if err != nil {
		t.Fatalf("WriteAnimation() = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Contains(data[:64], []byte("WEBP")) {
		t.Errorf("animation header = %q", data[:16])
	}
	if !bytes.Contains(data, []byte("ANMF")) {
		t.Error("animation has no frames")
	}

	m := NewManifest(scene, results, path)
	if m.Animation != "spin_anim.webp" {
		t.Errorf("manifest animation = %q", m.Animation)
	}
}

func TestWriteAnimationNoFrames(t *testing.T) {
	_, err := WriteAnimation(t.TempDir(), "x", []Result{{Frame: 0, Error: "boom"}}, time.Millisecond)
	if err == nil {
		t.Fatal("WriteAnimation() with no successful frames succeeded")
	}
}

func TestRunCanceled(t *testing.T) {
	cfg := testConfig(t, config.Flags{Frames: 3})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, loadScene(t, cfg), Options{Quiet: true})
	for _, r := range results {
		if r.Success {
			t.Errorf("frame %d rendered after cancel", r.Frame)
		}
		if r.Error != context.Canceled.Error() {
			t.Errorf("frame %d error = %q", r.Frame, r.Error)
		}
	}
}

func TestRunUnknownShader(t *testing.T) {
	cfg := testConfig(t, config.Flags{Frames: 2})
	cfg.Shader = "toon"
	results := Run(context.Background(), loadScene(t, cfg), Options{Quiet: true})
	for _, r := range results {
		if r.Success || r.Error == "" {
			t.Errorf("frame %d = %+v, want failure", r.Frame, r)
		}
	}
}

func TestWorkerRenderWireframe(t *testing.T) {
	cfg := testConfig(t, config.Flags{Wireframe: true, Shader: "basic"})
	w, err := newWorker(loadScene(t, cfg))
	if err != nil {
		t.Fatal(err)
	}
	w.Render(0)
	st := w.r.Stats()
	if st.Lines == 0 {
		t.Error("wireframe drew no lines")
	}
	if !w.r.Flag(raster.Wireframe) {
		t.Error("wireframe flag not set")
	}
}

func TestLoadSceneErrors(t *testing.T) {
	cfg := testConfig(t, config.Flags{})

	bad := cfg
	bad.Mesh = "teapot"
	if _, err := LoadScene(bad, nil); !errors.Is(err, mesh.ErrUnknownMesh) {
		t.Errorf("unknown mesh: err = %v, want ErrUnknownMesh", err)
	}

	bad = cfg
	bad.Texture = filepath.Join(t.TempDir(), "missing.png")
	if _, err := LoadScene(bad, nil); err == nil {
		t.Error("missing texture: want error")
	}

	cfg.Color = [4]float64{1, 0, 0, 1}
	s, err := LoadScene(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Mesh.Vertices[0].Color; got[0] != 1 || got[1] != 0 {
		t.Errorf("vertex color = %v, want red", got)
	}
}

func TestFramePath(t *testing.T) {
	tests := []struct {
		format        string
		frame, frames int
		want          string
	}{
		{"webp", 0, 1, "out/cube.webp"},
		{"png", 3, 12, "out/cube_003.png"},
		{"jpeg", 11, 12, "out/cube_011.jpg"},
	}
	for _, tt := range tests {
		got := framePath("out", "cube", tt.format, tt.frame, tt.frames)
		if got != filepath.FromSlash(tt.want) {
			t.Errorf("framePath(%s, %d, %d) = %q, want %q", tt.format, tt.frame, tt.frames, got, tt.want)
		}
	}
}

func TestEncodeJPEG(t *testing.T) {
	cfg := testConfig(t, config.Flags{})
	w, err := newWorker(loadScene(t, cfg))
	if err != nil {
		t.Fatal(err)
	}
	img := w.Render(0)

	var buf bytes.Buffer
	if err := Encode(&buf, img, "jpeg", 75); err != nil {
		t.Fatalf("Encode(jpeg) = %v", err)
	}
	out, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("jpeg.Decode() = %v", err)
	}
	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", out.Bounds(), img.Bounds())
	}
	if err := Encode(&buf, img, "gif", 0); err == nil {
		t.Error("Encode(gif) succeeded")
	}
}
