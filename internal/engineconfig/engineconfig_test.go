package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0x222222", cfg.ClearColor)
	assert.Equal(t, [3]float32{0, 5, 20}, cfg.Camera.Position)
	assert.Equal(t, [3]float32{-20, 10, 30}, cfg.Light.Position)
	assert.Equal(t, [3]float32{0, 0, -9.82}, cfg.Gravity)
	assert.Equal(t, float32(32), cfg.Light.ShadowDistance)
	assert.Equal(t, 4096, cfg.Light.ShadowMapSize)
	assert.InDelta(t, 1.0/60, cfg.TimeStep, 1e-6)
	assert.Equal(t, "assets/meshes.json", cfg.MeshesURL)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadJSONOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	doc := `{"window": {"title": "test"}, "camera": {"position": [1, 2, 3]}, "meshes_url": "http://localhost/m.json"}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, int32(1280), cfg.Window.Width)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, float32(60), cfg.Camera.Fov)
	assert.Equal(t, "http://localhost/m.json", cfg.MeshesURL)
	assert.Equal(t, "0x222222", cfg.ClearColor)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	doc := "clear_color: \"0x101010\"\ngravity: [0, 0, -1]\nlight:\n  shadow_map_size: 1024\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0x101010", cfg.ClearColor)
	assert.Equal(t, [3]float32{0, 0, -1}, cfg.Gravity)
	assert.Equal(t, 1024, cfg.Light.ShadowMapSize)
	assert.Equal(t, float32(32), cfg.Light.ShadowDistance)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.toml")
	doc := "meshes_url = \"https://example.com/m.json\"\n\n[terrain]\nsize = 12\nseed = 5\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/m.json", cfg.MeshesURL)
	assert.Equal(t, 12, cfg.Terrain.Size)
	assert.Equal(t, int64(5), cfg.Terrain.Seed)
	assert.Equal(t, float32(3), cfg.Terrain.HeightScale)
}

func TestLoadExplicitFalseAndZero(t *testing.T) {
	docs := map[string]string{
		"world.yaml": "window:\n  antialias: false\ncamera:\n  orbit: false\ngravity: [0, 0, 0]\n",
		"world.toml": "gravity = [0.0, 0.0, 0.0]\n\n[window]\nantialias = false\n\n[camera]\norbit = false\n",
		"world.json": `{"window": {"antialias": false}, "camera": {"orbit": false}, "gravity": [0, 0, 0]}`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.False(t, cfg.Camera.Orbit)
			assert.False(t, cfg.Window.Antialias)
			assert.Equal(t, [3]float32{0, 0, 0}, cfg.Gravity)
			assert.Equal(t, int32(1280), cfg.Window.Width)
			assert.Equal(t, float32(60), cfg.Camera.Fov)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "engineconfig")
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.yml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config", name)
			cfg := Default()
			cfg.Window.Title = "saved"
			cfg.ShowFPS = true
			require.NoError(t, Save(path, cfg))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvMeshes:  "file:///tmp/m.json",
		EnvShowFPS: "true",
	}
	cfg := Default()
	ApplyEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "file:///tmp/m.json", cfg.MeshesURL)
	assert.True(t, cfg.ShowFPS)
	assert.Equal(t, Default().LogPath, cfg.LogPath)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nMESHWORLD_TEST_A=one\nexport MESHWORLD_TEST_B=\"two words\"\nMESHWORLD_TEST_C='three'\nMESHWORLD_TEST_SET=file\nbroken line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("MESHWORLD_TEST_SET", "process")
	t.Cleanup(func() {
		for _, k := range []string{"MESHWORLD_TEST_A", "MESHWORLD_TEST_B", "MESHWORLD_TEST_C"} {
			_ = os.Unsetenv(k)
		}
	})

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "one", os.Getenv("MESHWORLD_TEST_A"))
	assert.Equal(t, "two words", os.Getenv("MESHWORLD_TEST_B"))
	assert.Equal(t, "three", os.Getenv("MESHWORLD_TEST_C"))
	assert.Equal(t, "process", os.Getenv("MESHWORLD_TEST_SET"))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing")))
}
