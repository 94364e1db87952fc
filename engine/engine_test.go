package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/camera"
	"github.com/Carmen-Shannon/oxy-forest/engine/chunk"
	"github.com/Carmen-Shannon/oxy-forest/engine/culling"
	"github.com/Carmen-Shannon/oxy-forest/engine/model"
	"github.com/Carmen-Shannon/oxy-forest/engine/profiler"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-forest/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

func newTestScene(t *testing.T, r *renderertest.Recorder, active bool) scene.Scene {
	t.Helper()
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(camera.WithPosition(mgl32.Vec3{0, 2, 0}))))
	s := scene.NewScene("forest", cam, r, chunk.NewGridConfig(2, 30),
		scene.WithActive(active),
		scene.WithSeed(9),
		scene.WithBuildWorkers(2),
		scene.WithLayers(scene.LayerSpec{
			Name:      "Rock",
			Model:     model.NewRock("rock", model.AxisZ, 3),
			Material:  material.NewMaterial(material.WithName("rock")),
			Transform: common.IdentityTransform(),
			Count:     8,
			Culling:   culling.DistanceCulling{Distance: 500},
		}),
	)
	t.Cleanup(s.Release)
	if err := s.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestRenderFrameDrawsActiveScenes(t *testing.T) {
	now := time.Unix(0, 0)
	p := profiler.NewProfiler(profiler.WithQuiet(), profiler.WithClock(func() time.Time { return now }))

	r := renderertest.NewRecorder()
	e := NewEngine(WithProfiling(true), WithProfiler(p), WithScene(0, newTestScene(t, r, true)))

	now = now.Add(time.Second)
	if err := e.RenderFrame(0.016); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if r.Frames != 1 {
		t.Fatalf("frames = %d, want 1", r.Frames)
	}
	if len(r.Draws) != 4 {
		t.Fatalf("got %d draws, want one per chunk", len(r.Draws))
	}

	report := p.Last()
	if report.DrawCalls != 4 || report.Instances != 32 || report.Layers != 4 || report.VisibleLayers != 4 {
		t.Fatalf("profiler report = %+v", report)
	}
}

func TestRenderFrameSkipsInactiveScenes(t *testing.T) {
	r := renderertest.NewRecorder()
	e := NewEngine()
	e.AddScene(3, newTestScene(t, r, false))

	if err := e.RenderFrame(0.016); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if r.Frames != 0 || len(r.Draws) != 0 {
		t.Fatalf("inactive scene was drawn: %d frames, %d draws", r.Frames, len(r.Draws))
	}

	e.Scene(3).SetActive(true)
	if err := e.RenderFrame(0.016); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if r.Frames != 1 {
		t.Fatalf("frames = %d, want 1 once the scene is active", r.Frames)
	}

	e.RemoveScene(3)
	if len(e.Scenes()) != 0 {
		t.Fatal("RemoveScene should drop the scene")
	}
}
