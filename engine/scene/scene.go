package scene

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forest/engine/camera"
	"github.com/Carmen-Shannon/oxy-forest/engine/chunk"
	"github.com/Carmen-Shannon/oxy-forest/engine/culling"
	"github.com/Carmen-Shannon/oxy-forest/engine/grass"
	"github.com/Carmen-Shannon/oxy-forest/engine/instancing"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer"
)

// ErrNotBuilt is returned when a scene is prepared or drawn before Build.
var ErrNotBuilt = errors.New("scene has not been built")

// Stats is a snapshot of the scene's size and of the last visibility pass.
type Stats struct {
	Chunks        int
	Layers        int
	VisibleLayers int
	Instances     uint64
	GrassBlades   uint64
}

// Scene is a chunked forest: a grid of chunks, each populated with the same set of instancing layers and
// an optional grass layer, plus an optional ground layer spanning the whole grid. A frame is driven as
// Update, then Prepare, then DrawCalls, all from the render goroutine.
type Scene interface {
	// Name retrieves the scene name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Active reports whether the scene is being rendered.
	//
	// Returns:
	//   - bool: true if the scene is active
	Active() bool

	// SetActive marks the scene as rendered or not.
	//
	// Parameters:
	//   - active: whether the scene is active
	SetActive(active bool)

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Renderer returns the renderer the scene draws with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Grid returns the chunk grid.
	//
	// Returns:
	//   - chunk.GridConfig: the grid configuration
	Grid() chunk.GridConfig

	// GrassRenderer returns the shared grass state. Growth textures are registered on it before Init.
	//
	// Returns:
	//   - *grass.Renderer: the grass renderer
	GrassRenderer() *grass.Renderer

	// Chunks returns every chunk, X-major.
	//
	// Returns:
	//   - []chunk.Chunk: the chunks, empty before Build
	Chunks() []chunk.Chunk

	// Chunk returns the chunk at a grid position.
	//
	// Parameters:
	//   - x: the chunk X coordinate
	//   - y: the chunk Y coordinate
	//
	// Returns:
	//   - chunk.Chunk: the chunk, or nil if out of range or not built
	Chunk(x, y int) chunk.Chunk

	// Build creates every chunk and its layers, then generates all instance records in parallel.
	// Layers that fail validation are logged and skipped. Calling Build again is a no-op.
	//
	// Returns:
	//   - error: an error if the grid is invalid
	Build() error

	// Init registers the scene pipelines and uploads the shared grass resources.
	//
	// Returns:
	//   - error: an error if a pipeline or shared resource could not be created
	Init() error

	// Update advances time, moves the camera and decides which layers are visible this frame.
	//
	// Parameters:
	//   - dt: the elapsed time in seconds
	//   - input: the input state driving the camera controller, may be nil
	Update(dt float32, input camera.Input)

	// Prepare uploads the camera uniform, any pending instance buffers and the grass uniforms of
	// visible layers. It must run after Update and before DrawCalls.
	//
	// Returns:
	//   - error: the first upload error, wrapped with the scene name
	Prepare() error

	// DrawCalls records one draw per visible layer.
	//
	// Returns:
	//   - error: the first draw error, wrapped with the scene name
	DrawCalls() error

	// Stats returns the scene size and the result of the last visibility pass.
	//
	// Returns:
	//   - Stats: the snapshot
	Stats() Stats

	// Time returns the accumulated scene time in seconds.
	//
	// Returns:
	//   - float32: the scene time
	Time() float32

	// Release frees every GPU resource owned by the scene.
	Release()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	seed   uint64

	cam  camera.Camera
	r    renderer.Renderer
	grid chunk.GridConfig

	specs         []LayerSpec
	grassTemplate *grass.ChunkGrass
	grassCulling  culling.DistanceCulling
	grassRenderer *grass.Renderer
	ground        *GroundSpec
	groundLayer   instancing.Layer

	chunks      []chunk.Chunk
	instLayers  []instancing.Layer
	grassLayers []grass.Layer
	cullables   []culling.Cullable
	visible     []bool
	visibleN    int

	totalInstances uint64
	totalGrass     uint64
	time           float32
	built          bool
	initialized    bool

	// buildPool generates instance records for many chunks at once. It is only used by Build.
	buildPool    worker.DynamicWorkerPool
	buildWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates an empty forest scene. Chunks are created by Build. The camera and renderer are
// required and NewScene panics if either is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - grid: the chunk grid
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, grid chunk.GridConfig, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:           &sync.RWMutex{},
		name:         name,
		cam:          cam,
		r:            r,
		grid:         grid,
		seed:         rand.Uint64(),
		grassCulling: culling.DefaultDistanceCulling(),
		buildWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}

	if s.grassRenderer == nil {
		s.grassRenderer = grass.NewRenderer(grass.WithGrowthBounds(grid.Center, grid.HalfExtents))
	}

	// Queue size of 256 keeps submission ahead of the workers without holding every chunk at once.
	s.buildPool = worker.NewDynamicWorkerPool(s.buildWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Grid() chunk.GridConfig {
	return s.grid
}

func (s *scene) GrassRenderer() *grass.Renderer {
	return s.grassRenderer
}

func (s *scene) Chunks() []chunk.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks
}

func (s *scene) Chunk(x, y int) chunk.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, nz := s.grid.Side()
	i := x*nz + y
	if x < 0 || y < 0 || y >= nz || i >= len(s.chunks) {
		return nil
	}
	return s.chunks[i]
}

func (s *scene) Build() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.built {
		return nil
	}
	if err := s.grid.Validate(); err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}

	coords := s.grid.Chunks()
	s.chunks = make([]chunk.Chunk, 0, len(coords))
	for _, co := range coords {
		c := chunk.NewChunk(co.X, co.Y, s.grid)
		for i, ls := range s.specs {
			_, err := c.AddLayer(ls.Count, ls.Material, ls.Transform, ls.layerOptions(c.Name(), s.layerSeed(i, co))...)
			if err != nil {
				log.Printf("[Scene] %s: skipping %s layer: %v", s.name, ls.Name, err)
			}
		}
		if s.grassTemplate != nil {
			_, err := c.AddGrass(c.GrassDescriptor(*s.grassTemplate),
				grass.WithName(c.Name()+" grass"),
				grass.WithDistanceCulling(s.grassCulling),
			)
			if err != nil {
				log.Printf("[Scene] %s: skipping grass: %v", s.name, err)
			}
		}
		s.chunks = append(s.chunks, c)
	}

	if s.ground != nil {
		gl, err := s.ground.layer(s.grid)
		if err != nil {
			log.Printf("[Scene] %s: skipping ground: %v", s.name, err)
		} else {
			s.groundLayer = gl
		}
	}

	s.collectLayers()
	s.generateInstances()

	s.totalInstances, s.totalGrass = 0, 0
	for _, c := range s.chunks {
		s.totalInstances += c.InstanceCount()
		s.totalGrass += c.GrassCount()
	}
	log.Printf("[Scene] %s: total instanced objects %d", s.name, s.totalInstances)
	log.Printf("[Scene] %s: total grass straws %d", s.name, s.totalGrass)

	s.built = true
	return nil
}

// collectLayers flattens the chunk layers into the culling list: instancing layers first, then grass.
// Caller must hold the write lock.
func (s *scene) collectLayers() {
	s.instLayers = s.instLayers[:0]
	s.grassLayers = s.grassLayers[:0]
	for _, c := range s.chunks {
		s.instLayers = append(s.instLayers, c.Layers()...)
		if g := c.Grass(); g != nil {
			s.grassLayers = append(s.grassLayers, g)
		}
	}
	s.cullables = make([]culling.Cullable, 0, len(s.instLayers)+len(s.grassLayers))
	for _, l := range s.instLayers {
		s.cullables = append(s.cullables, l)
	}
	for _, g := range s.grassLayers {
		s.cullables = append(s.cullables, g)
	}
	s.visible = make([]bool, len(s.cullables))
}

// generateInstances builds every chunk's instance records on the build pool. Each task owns one chunk's
// builders, so tasks share no mutable state. A WaitGroup is the barrier since pool.Wait only returns
// once workers go idle. Caller must hold the write lock.
func (s *scene) generateInstances() {
	var wg sync.WaitGroup
	for i, c := range s.chunks {
		layers := c.Layers()
		if len(layers) == 0 {
			continue
		}
		wg.Add(1)
		s.buildPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				for _, l := range layers {
					l.Builder().Build()
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// layerSeed derives a per chunk, per layer placement seed from the scene seed.
func (s *scene) layerSeed(layer int, co chunk.Coord) uint64 {
	return s.seed ^ uint64(layer+1)<<48 ^ uint64(uint32(co.X))<<24 ^ uint64(uint32(co.Y))
}

func (s *scene) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := s.r.RegisterPipelines(
		instancing.NewPipeline(instancing.DefaultPipelineKey),
		grass.NewPipeline(s.grassRenderer.PipelineKey()),
	); err != nil {
		return fmt.Errorf("scene %q: failed to register pipelines: %w", s.name, err)
	}
	if err := s.grassRenderer.Init(s.r); err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	s.initialized = true
	return nil
}

func (s *scene) Update(dt float32, input camera.Input) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dt > 0 {
		s.time += dt
	}
	s.cam.Update(dt, input)
	for _, g := range s.grassLayers {
		g.Update(dt)
	}
	s.visible, s.visibleN = culling.Evaluate(s.cam.Position(), s.cullables, s.visible)
}

func (s *scene) Prepare() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.built {
		return fmt.Errorf("scene %q: %w", s.name, ErrNotBuilt)
	}
	if err := s.cam.Prepare(s.r); err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	if s.groundLayer != nil {
		if err := s.groundLayer.Prepare(s.r); err != nil {
			return fmt.Errorf("scene %q: %w", s.name, err)
		}
	}

	n := len(s.instLayers)
	for i, l := range s.instLayers {
		if !s.visible[i] {
			continue
		}
		if err := l.Prepare(s.r); err != nil {
			return fmt.Errorf("scene %q: %w", s.name, err)
		}
	}
	for i, g := range s.grassLayers {
		if !s.visible[n+i] {
			continue
		}
		if err := g.Prepare(s.r, s.grassRenderer); err != nil {
			return fmt.Errorf("scene %q: %w", s.name, err)
		}
	}
	return nil
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.built {
		return fmt.Errorf("scene %q: %w", s.name, ErrNotBuilt)
	}
	camBGP := s.cam.BindGroupProvider()

	if s.groundLayer != nil {
		if err := s.groundLayer.Draw(s.r, camBGP); err != nil {
			return fmt.Errorf("scene %q: %w", s.name, err)
		}
	}

	n := len(s.instLayers)
	for i, l := range s.instLayers {
		if !s.visible[i] {
			continue
		}
		if err := l.Draw(s.r, camBGP); err != nil {
			return fmt.Errorf("scene %q: %w", s.name, err)
		}
	}
	for i, g := range s.grassLayers {
		if !s.visible[n+i] {
			continue
		}
		if err := g.Draw(s.r, camBGP); err != nil {
			return fmt.Errorf("scene %q: %w", s.name, err)
		}
	}
	return nil
}

func (s *scene) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Chunks:        len(s.chunks),
		Layers:        len(s.cullables),
		VisibleLayers: s.visibleN,
		Instances:     s.totalInstances,
		GrassBlades:   s.totalGrass,
	}
}

func (s *scene) Time() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.time
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.chunks {
		c.Release()
	}
	if s.groundLayer != nil {
		s.groundLayer.Release()
	}
}
