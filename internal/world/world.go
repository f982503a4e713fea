// Package world drives the demo: it owns the scene, the physics world and the rigid bodies
// coupling them, and runs one simulation-and-render frame at a time.
package world

import (
	"context"
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"meshworld/internal/engineconfig"
	"meshworld/internal/logger"
	"meshworld/internal/physics"
	"meshworld/internal/primitives"
	"meshworld/internal/rigidbody"
	"meshworld/internal/scene"
)

// ErrDuplicateID is returned by AddRigidBody when the id is already registered.
var ErrDuplicateID = errors.New("world: duplicate rigid body id")

// ErrUnknownID is returned when no rigid body is registered under an id.
var ErrUnknownID = errors.New("world: unknown rigid body id")

// loadQueue is how many finished batch loads can wait for the next frame.
const loadQueue = 16

// Renderer draws the scene from the camera. graphics.Renderer is the raylib implementation.
type Renderer interface {
	Render(scn *scene.Scene, cam *scene.Camera)
}

// MeshLoader loads a batch document into meshes. *meshparser.Loader satisfies it.
type MeshLoader interface {
	LoadMeshes(ctx context.Context, url string) ([]*scene.Object, error)
}

// FrameFunc is called at the end of every frame with the frame time in seconds.
type FrameFunc func(t float64)

func noFrame(float64) {}

type loadResult struct {
	url     string
	meshes  []*scene.Object
	err     error
	replace bool
}

// World is not safe for concurrent use; call it from the frame goroutine only.
// LoadMeshesAsync is the one operation that does work elsewhere.
type World struct {
	cfg      engineconfig.Config
	renderer Renderer
	log      *logger.Logger

	scene   *scene.Scene
	physics *physics.World
	camera  *scene.Camera
	ambient *scene.Light
	light   *scene.Light

	ids    []string
	bodies map[string]*rigidbody.RigidBody

	onFrame     FrameFunc
	initialized bool

	loaded   chan loadResult
	pending  int
	loadErrs []error
	// meshes added by async loads, per document URL
	batches map[string][]*scene.Object
}

// New returns a world configured by cfg. renderer may be nil to run headless.
func New(cfg engineconfig.Config, renderer Renderer, log *logger.Logger) *World {
	return &World{
		cfg:      cfg,
		renderer: renderer,
		log:      log,
		scene:    scene.New(),
		physics:  physics.NewWorld(),
		camera:   scene.NewCamera(cfg.Camera.Fov),
		bodies:   make(map[string]*rigidbody.RigidBody),
		onFrame:  noFrame,
		loaded:   make(chan loadResult, loadQueue),
		batches:  make(map[string][]*scene.Object),
	}
}

func (w *World) logf(format string, args ...any) {
	if w.log != nil {
		w.log.Logf(format, args...)
	}
}

// Scene returns the visual scene.
func (w *World) Scene() *scene.Scene { return w.scene }

// Physics returns the physics world.
func (w *World) Physics() *physics.World { return w.physics }

// Camera returns the render camera.
func (w *World) Camera() *scene.Camera { return w.camera }

// Config returns the configuration the world was created with.
func (w *World) Config() engineconfig.Config { return w.cfg }

// AmbientLight and DirectionalLight return the lights created by Initialize (nil before).
func (w *World) AmbientLight() *scene.Light     { return w.ambient }
func (w *World) DirectionalLight() *scene.Light { return w.light }

// AddRigidBody registers rb under id and adds it to the scene and physics world.
func (w *World) AddRigidBody(id string, rb *rigidbody.RigidBody) error {
	if _, ok := w.bodies[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	if err := rb.Initialize(w.scene, w.physics); err != nil {
		return fmt.Errorf("world: add %q: %w", id, err)
	}
	if w.initialized {
		enableShadows(rb.Object())
	}
	w.ids = append(w.ids, id)
	w.bodies[id] = rb
	return nil
}

// RemoveRigidBody deletes the rigid body registered under id from the scene and physics world.
func (w *World) RemoveRigidBody(id string) error {
	rb, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	if err := rb.Delete(w.scene); err != nil {
		return fmt.Errorf("world: remove %q: %w", id, err)
	}
	delete(w.bodies, id)
	for i, v := range w.ids {
		if v == id {
			w.ids = append(w.ids[:i], w.ids[i+1:]...)
			break
		}
	}
	return nil
}

// RigidBody returns the rigid body registered under id.
func (w *World) RigidBody(id string) (*rigidbody.RigidBody, bool) {
	rb, ok := w.bodies[id]
	return rb, ok
}

// RigidBodies returns the registered rigid bodies in insertion order.
func (w *World) RigidBodies() []*rigidbody.RigidBody {
	out := make([]*rigidbody.RigidBody, len(w.ids))
	for i, id := range w.ids {
		out[i] = w.bodies[id]
	}
	return out
}

// IDs returns the registered ids in insertion order.
func (w *World) IDs() []string {
	out := make([]string, len(w.ids))
	copy(out, w.ids)
	return out
}

func enableShadows(obj *scene.Object) {
	obj.CastShadow = true
	obj.ReceiveShadow = true
}

func parseColor(s string, fallback int) primitives.Color {
	if c, err := primitives.ParseColor(s); err == nil {
		return c
	}
	return primitives.Color(fallback)
}

func vec(v [3]float32) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// Initialize sets up the background, camera, lights and gravity, and turns on shadows for every
// registered body. It runs once; later calls do nothing.
func (w *World) Initialize() {
	if w.initialized {
		return
	}
	w.initialized = true
	cfg := w.cfg

	w.scene.Background = parseColor(cfg.ClearColor, 0x222222)
	w.camera.Position = vec(cfg.Camera.Position)

	w.ambient = &scene.Light{
		Kind:      scene.AmbientLight,
		Color:     parseColor(cfg.Light.AmbientColor, 0xffffff),
		Intensity: cfg.Light.AmbientIntensity,
	}
	w.scene.AddLight(w.ambient)

	d := cfg.Light.ShadowDistance
	w.light = &scene.Light{
		Kind:       scene.DirectionalLight,
		Color:      parseColor(cfg.Light.Color, 0xffffff),
		Intensity:  cfg.Light.Intensity,
		Position:   vec(cfg.Light.Position),
		CastShadow: true,
		Shadow: scene.ShadowCamera{
			Left: -d, Right: d, Top: d, Bottom: -d,
			MapWidth: cfg.Light.ShadowMapSize, MapHeight: cfg.Light.ShadowMapSize,
		},
	}
	w.scene.AddLight(w.light)

	w.physics.SetGravity(cfg.Gravity[0], cfg.Gravity[1], cfg.Gravity[2])

	for _, rb := range w.RigidBodies() {
		enableShadows(rb.Object())
	}
	w.logf("world: initialized with %d rigid bodies", len(w.ids))
}

// OnFrame sets the callback run at the end of every frame. nil restores the no-op default.
func (w *World) OnFrame(cb FrameFunc) {
	if cb == nil {
		cb = noFrame
	}
	w.onFrame = cb
}

// Frame runs one frame: add any finished mesh batches to the scene, step physics by the
// configured time step, synchronize every rigid body in insertion order, render, then call the
// frame callback with t.
func (w *World) Frame(t float64) error {
	w.drainLoads()

	w.physics.Step(w.cfg.TimeStep)
	for _, id := range w.ids {
		if err := w.bodies[id].Synchronize(); err != nil {
			return fmt.Errorf("world: synchronize %q: %w", id, err)
		}
	}
	if w.renderer != nil {
		w.renderer.Render(w.scene, w.camera)
	}
	w.onFrame(t)
	return nil
}

// LoadMeshesAsync loads the batch document at url on another goroutine. The meshes are added
// to the scene together at the start of the first frame after the load finishes. Failures are
// logged and kept for LoadErrors. Only ctx cancels an in-flight load.
func (w *World) LoadMeshesAsync(ctx context.Context, loader MeshLoader, url string) {
	w.startLoad(ctx, loader, url, false)
}

// ReloadMeshesAsync is LoadMeshesAsync, except that a successful load replaces every mesh
// earlier loads of url added. A failed reload leaves the scene as it was.
func (w *World) ReloadMeshesAsync(ctx context.Context, loader MeshLoader, url string) {
	w.startLoad(ctx, loader, url, true)
}

func (w *World) startLoad(ctx context.Context, loader MeshLoader, url string, replace bool) {
	w.pending++
	go func() {
		meshes, err := loader.LoadMeshes(ctx, url)
		w.loaded <- loadResult{url: url, meshes: meshes, err: err, replace: replace}
	}()
}

// LoadedMeshes returns the meshes async loads of url have added and not replaced.
func (w *World) LoadedMeshes(url string) []*scene.Object {
	out := make([]*scene.Object, len(w.batches[url]))
	copy(out, w.batches[url])
	return out
}

// Pending returns how many async loads have not yet been applied by a frame.
func (w *World) Pending() int { return w.pending }

// LoadErrors returns the errors of failed async loads applied so far.
func (w *World) LoadErrors() []error {
	out := make([]error, len(w.loadErrs))
	copy(out, w.loadErrs)
	return out
}

func (w *World) drainLoads() {
	for {
		select {
		case res := <-w.loaded:
			w.pending--
			if res.err != nil {
				w.loadErrs = append(w.loadErrs, res.err)
				w.logf("world: load %s failed: %v", res.url, res.err)
				continue
			}
			if res.replace {
				for _, m := range w.batches[res.url] {
					w.scene.Remove(m)
				}
				w.batches[res.url] = nil
			}
			for _, m := range res.meshes {
				w.scene.Add(m)
			}
			w.batches[res.url] = append(w.batches[res.url], res.meshes...)
			w.logf("world: loaded %d meshes from %s", len(res.meshes), res.url)
		default:
			return
		}
	}
}

// CacheAll snapshots every rigid body. The first failure stops and is returned.
func (w *World) CacheAll() error {
	for _, id := range w.ids {
		if err := w.bodies[id].CacheState(); err != nil {
			return fmt.Errorf("world: cache %q: %w", id, err)
		}
	}
	return nil
}

// RestoreAll restores every rigid body from its snapshot. The first failure stops and is returned.
func (w *World) RestoreAll() error {
	for _, id := range w.ids {
		if err := w.bodies[id].Restore(); err != nil {
			return fmt.Errorf("world: restore %q: %w", id, err)
		}
	}
	return nil
}

// SnapshotStore persists snapshots by rigid body id. *statestore.Store satisfies it.
type SnapshotStore interface {
	SaveSnapshots(snaps map[string]rigidbody.Snapshot) error
	LoadSnapshots() (map[string]rigidbody.Snapshot, error)
}

// SaveSnapshots writes every cached snapshot to store and returns how many were written.
// Bodies without a snapshot are skipped.
func (w *World) SaveSnapshots(store SnapshotStore) (int, error) {
	snaps := make(map[string]rigidbody.Snapshot)
	for _, id := range w.ids {
		if s, ok := w.bodies[id].Snapshot(); ok {
			snaps[id] = s
		}
	}
	if err := store.SaveSnapshots(snaps); err != nil {
		return 0, fmt.Errorf("world: save snapshots: %w", err)
	}
	return len(snaps), nil
}

// LoadSnapshots replaces the cached snapshot of every registered body found in store and
// returns how many were loaded. Stored ids with no registered body are ignored. Call RestoreAll
// afterwards to apply them.
func (w *World) LoadSnapshots(store SnapshotStore) (int, error) {
	snaps, err := store.LoadSnapshots()
	if err != nil {
		return 0, fmt.Errorf("world: load snapshots: %w", err)
	}
	n := 0
	for _, id := range w.ids {
		s, ok := snaps[id]
		if !ok {
			continue
		}
		if err := w.bodies[id].SetSnapshot(s); err != nil {
			return n, fmt.Errorf("world: load snapshot %q: %w", id, err)
		}
		n++
	}
	return n, nil
}
