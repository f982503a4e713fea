package world

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshworld/internal/download"
	"meshworld/internal/engineconfig"
	"meshworld/internal/logger"
	"meshworld/internal/meshparser"
	"meshworld/internal/physics"
	"meshworld/internal/primitives"
	"meshworld/internal/rigidbody"
	"meshworld/internal/scene"
)

type recordingRenderer struct {
	events  *[]string
	renders int
	// scene Y of the first object at render time
	seenY []float32
}

func (r *recordingRenderer) Render(scn *scene.Scene, cam *scene.Camera) {
	*r.events = append(*r.events, "render")
	r.renders++
	if objs := scn.Objects(); len(objs) > 0 {
		r.seenY = append(r.seenY, objs[0].Position.Y)
	}
}

type stubLoader struct {
	meshes []*scene.Object
	err    error
}

func (s stubLoader) LoadMeshes(ctx context.Context, url string) ([]*scene.Object, error) {
	return s.meshes, s.err
}

func newWorld(t *testing.T) (*World, *recordingRenderer, *[]string) {
	t.Helper()
	events := &[]string{}
	r := &recordingRenderer{events: events}
	log := logger.New(filepath.Join(t.TempDir(), "log.txt"))
	return New(engineconfig.Default(), r, log), r, events
}

func newRigidBody(t *testing.T, z, mass float32) *rigidbody.RigidBody {
	t.Helper()
	body := physics.NewBody(rl.NewVector3(0, 0, z), rl.NewVector3(0.5, 0.5, 0.5), mass)
	rb, err := rigidbody.New(scene.NewObject(nil, nil), body)
	require.NoError(t, err)
	return rb
}

func frameUntilLoaded(t *testing.T, w *World) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for w.Pending() > 0 {
		require.NoError(t, w.Frame(0))
		if time.Now().After(deadline) {
			t.Fatal("async load did not finish")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAddRigidBodyKeepsOrder(t *testing.T) {
	w, _, _ := newWorld(t)
	a, b, c := newRigidBody(t, 0, 0), newRigidBody(t, 1, 1), newRigidBody(t, 2, 1)
	require.NoError(t, w.AddRigidBody("ground", a))
	require.NoError(t, w.AddRigidBody("cube", b))
	require.NoError(t, w.AddRigidBody("ball", c))

	assert.Equal(t, []string{"ground", "cube", "ball"}, w.IDs())
	assert.Equal(t, []*rigidbody.RigidBody{a, b, c}, w.RigidBodies())
	assert.Equal(t, rigidbody.Initialized, b.State())
	assert.True(t, w.Scene().Contains(b.Object()))
	assert.Contains(t, w.Physics().Bodies(), b.Body())

	err := w.AddRigidBody("cube", newRigidBody(t, 0, 1))
	assert.ErrorIs(t, err, ErrDuplicateID)

	got, ok := w.RigidBody("ball")
	assert.True(t, ok)
	assert.Same(t, c, got)
}

func TestAddRigidBodyTwiceFails(t *testing.T) {
	w, _, _ := newWorld(t)
	rb := newRigidBody(t, 0, 1)
	require.NoError(t, w.AddRigidBody("a", rb))
	err := w.AddRigidBody("b", rb)
	assert.ErrorIs(t, err, rigidbody.ErrAlreadyInitialized)
	assert.Equal(t, []string{"a"}, w.IDs())
}

func TestRemoveRigidBody(t *testing.T) {
	w, _, _ := newWorld(t)
	rb := newRigidBody(t, 0, 1)
	require.NoError(t, w.AddRigidBody("cube", rb))
	require.NoError(t, w.RemoveRigidBody("cube"))

	assert.Empty(t, w.IDs())
	assert.False(t, w.Scene().Contains(rb.Object()))
	assert.NotContains(t, w.Physics().Bodies(), rb.Body())
	assert.Equal(t, rigidbody.Deleted, rb.State())
	assert.ErrorIs(t, w.RemoveRigidBody("cube"), ErrUnknownID)
}

func TestInitialize(t *testing.T) {
	w, _, _ := newWorld(t)
	rb := newRigidBody(t, 0, 1)
	require.NoError(t, w.AddRigidBody("cube", rb))
	w.Initialize()

	assert.Equal(t, primitives.Color(0x222222), w.Scene().Background)
	assert.Equal(t, rl.NewVector3(0, 5, 20), w.Camera().Position)
	assert.Equal(t, float32(60), w.Camera().Fovy)
	assert.Equal(t, rl.NewVector3(0, 0, -9.82), w.Physics().Gravity)

	require.Len(t, w.Scene().Lights(), 2)
	assert.Equal(t, scene.AmbientLight, w.AmbientLight().Kind)
	light := w.DirectionalLight()
	assert.Equal(t, primitives.Color(0xffffff), light.Color)
	assert.Equal(t, rl.NewVector3(-20, 10, 30), light.Position)
	assert.True(t, light.CastShadow)
	assert.Equal(t, scene.ShadowCamera{Left: -32, Right: 32, Top: 32, Bottom: -32, MapWidth: 4096, MapHeight: 4096}, light.Shadow)

	assert.True(t, rb.Object().CastShadow)
	assert.True(t, rb.Object().ReceiveShadow)

	late := newRigidBody(t, 3, 1)
	require.NoError(t, w.AddRigidBody("late", late))
	assert.True(t, late.Object().CastShadow)

	w.Initialize()
	assert.Len(t, w.Scene().Lights(), 2)
}

func TestFrameOrder(t *testing.T) {
	w, r, events := newWorld(t)
	rb := newRigidBody(t, 10, 1)
	require.NoError(t, w.AddRigidBody("cube", rb))
	w.Initialize()

	var times []float64
	w.OnFrame(func(ts float64) {
		*events = append(*events, "frame")
		times = append(times, ts)
	})
	require.NoError(t, w.Frame(0.5))
	require.NoError(t, w.Frame(1))

	assert.Equal(t, []string{"render", "frame", "render", "frame"}, *events)
	assert.Equal(t, []float64{0.5, 1}, times)

	// the renderer sees the synchronized transform of the falling body
	body := rb.Body()
	assert.Less(t, body.Position.Z, float32(10))
	require.Len(t, r.seenY, 2)
	assert.Equal(t, body.Position.Z, r.seenY[1])
	assert.Equal(t, rl.NewVector3(body.Position.X, body.Position.Z, body.Position.Y), rb.Object().Position)
}

func TestOnFrameNilRestoresNoop(t *testing.T) {
	w, _, _ := newWorld(t)
	calls := 0
	w.OnFrame(func(float64) { calls++ })
	require.NoError(t, w.Frame(0))
	w.OnFrame(nil)
	require.NoError(t, w.Frame(0))
	assert.Equal(t, 1, calls)
}

func TestFrameWithoutRenderer(t *testing.T) {
	w := New(engineconfig.Default(), nil, nil)
	require.NoError(t, w.AddRigidBody("cube", newRigidBody(t, 1, 1)))
	assert.NoError(t, w.Frame(0))
}

func TestCacheAllRestoreAll(t *testing.T) {
	w, _, _ := newWorld(t)
	rb := newRigidBody(t, 10, 1)
	require.NoError(t, w.AddRigidBody("cube", rb))
	w.Initialize()

	assert.ErrorIs(t, w.RestoreAll(), rigidbody.ErrNoSnapshot)
	require.NoError(t, w.CacheAll())
	start := rb.Body().Position

	for i := 0; i < 30; i++ {
		require.NoError(t, w.Frame(float64(i)))
	}
	require.NotEqual(t, start, rb.Body().Position)

	require.NoError(t, w.RestoreAll())
	assert.Equal(t, start, rb.Body().Position)
	assert.Equal(t, rl.NewVector3(0, 0, 0), rb.Body().Velocity)
}

func TestLoadMeshesAsyncAddsWholeBatchAtFrame(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	doc := `[
		{"mesh": {"geometry": {"type": "BoxGeometry", "args": [1, 1, 1]}, "material": {"type": "MeshStandardMaterial", "properties": {"color": "0x777777"}}}},
		{"mesh": {"geometry": {"type": "SphereGeometry", "args": [0.5]}, "material": {"type": "MeshPhongMaterial", "properties": {}}, "position": [3, 1, 0]}}
	]`
	require.NoError(t, hackpadfs.WriteFullFile(fsys, "meshes.json", []byte(doc), 0o644))
	loader := meshparser.NewLoader(meshparser.NewParser(primitives.NewRegistry()), download.NewWithFS(fsys))

	w, _, _ := newWorld(t)
	w.LoadMeshesAsync(context.Background(), loader, "meshes.json")
	assert.Equal(t, 1, w.Pending())
	assert.Empty(t, w.Scene().Objects())

	frameUntilLoaded(t, w)
	objs := w.Scene().Objects()
	require.Len(t, objs, 2)
	assert.Equal(t, primitives.BoxGeometry, objs[0].Geometry.Kind)
	assert.Equal(t, rl.NewVector3(3, 1, 0), objs[1].Position)
	assert.Empty(t, w.LoadErrors())
}

func TestLoadMeshesAsyncFailure(t *testing.T) {
	w, _, _ := newWorld(t)
	boom := errors.New("boom")
	w.LoadMeshesAsync(context.Background(), stubLoader{err: boom}, "x.json")
	frameUntilLoaded(t, w)

	errs := w.LoadErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	assert.Empty(t, w.Scene().Objects())
	assert.Contains(t, w.log.Lines()[len(w.log.Lines())-1], "x.json failed")
}

func TestLoadMeshesAsyncStub(t *testing.T) {
	w, _, _ := newWorld(t)
	a, b := scene.NewObject(nil, nil), scene.NewObject(nil, nil)
	w.LoadMeshesAsync(context.Background(), stubLoader{meshes: []*scene.Object{a, b}}, "stub")
	frameUntilLoaded(t, w)
	assert.Equal(t, []*scene.Object{a, b}, w.Scene().Objects())
}

func TestReloadMeshesAsyncReplacesBatch(t *testing.T) {
	w, _, _ := newWorld(t)
	rb := newRigidBody(t, 0, 1)
	require.NoError(t, w.AddRigidBody("cube", rb))

	first := []*scene.Object{scene.NewObject(nil, nil), scene.NewObject(nil, nil)}
	w.LoadMeshesAsync(context.Background(), stubLoader{meshes: first}, "doc")
	frameUntilLoaded(t, w)
	assert.Len(t, w.Scene().Objects(), 3)
	assert.Equal(t, first, w.LoadedMeshes("doc"))

	// a failed reload keeps the old batch
	w.ReloadMeshesAsync(context.Background(), stubLoader{err: errors.New("bad json")}, "doc")
	frameUntilLoaded(t, w)
	assert.Len(t, w.Scene().Objects(), 3)

	second := []*scene.Object{scene.NewObject(nil, nil)}
	w.ReloadMeshesAsync(context.Background(), stubLoader{meshes: second}, "doc")
	frameUntilLoaded(t, w)
	assert.Equal(t, []*scene.Object{rb.Object(), second[0]}, w.Scene().Objects())
	assert.Equal(t, second, w.LoadedMeshes("doc"))
	assert.Empty(t, w.LoadedMeshes("other"))
}

type memStore struct {
	snaps map[string]rigidbody.Snapshot
}

func (m *memStore) SaveSnapshots(snaps map[string]rigidbody.Snapshot) error {
	m.snaps = snaps
	return nil
}

func (m *memStore) LoadSnapshots() (map[string]rigidbody.Snapshot, error) {
	return m.snaps, nil
}

func TestSaveLoadSnapshots(t *testing.T) {
	w, _, _ := newWorld(t)
	cube, ground := newRigidBody(t, 10, 1), newRigidBody(t, 0, 0)
	require.NoError(t, w.AddRigidBody("cube", cube))
	require.NoError(t, w.AddRigidBody("ground", ground))
	require.NoError(t, cube.CacheState())

	store := &memStore{}
	n, err := w.SaveSnapshots(store)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Contains(t, store.snaps, "cube")
	assert.Equal(t, rl.NewVector3(0, 10, 0), store.snaps["cube"].Position)

	// a second world with the same ids picks the snapshot up
	w2, _, _ := newWorld(t)
	cube2 := newRigidBody(t, 3, 1)
	require.NoError(t, w2.AddRigidBody("cube", cube2))
	store.snaps["gone"] = rigidbody.Snapshot{}
	n, err = w2.LoadSnapshots(store)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, w2.RestoreAll())
	assert.Equal(t, rl.NewVector3(0, 0, 10), cube2.Body().Position)
}
