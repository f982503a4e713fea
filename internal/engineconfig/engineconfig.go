// Package engineconfig loads the world configuration: window, camera, lights, physics and the
// mesh document to load at startup.
package engineconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the config file used when no -config flag is given.
const DefaultConfigPath = "config/world.yaml"

type Window struct {
	Width     int32  `json:"width" yaml:"width" toml:"width"`
	Height    int32  `json:"height" yaml:"height" toml:"height"`
	Title     string `json:"title" yaml:"title" toml:"title"`
	TargetFPS int32  `json:"target_fps" yaml:"target_fps" toml:"target_fps"`
	Antialias bool   `json:"antialias" yaml:"antialias" toml:"antialias"`
}

type Camera struct {
	Position [3]float32 `json:"position" yaml:"position" toml:"position"`
	Fov      float32    `json:"fov" yaml:"fov" toml:"fov"`
	Orbit    bool       `json:"orbit" yaml:"orbit" toml:"orbit"`
}

type Light struct {
	Position         [3]float32 `json:"position" yaml:"position" toml:"position"`
	Color            string     `json:"color" yaml:"color" toml:"color"`
	Intensity        float32    `json:"intensity" yaml:"intensity" toml:"intensity"`
	AmbientColor     string     `json:"ambient_color" yaml:"ambient_color" toml:"ambient_color"`
	AmbientIntensity float32    `json:"ambient_intensity" yaml:"ambient_intensity" toml:"ambient_intensity"`
	ShadowDistance   float32    `json:"shadow_distance" yaml:"shadow_distance" toml:"shadow_distance"`
	ShadowMapSize    int        `json:"shadow_map_size" yaml:"shadow_map_size" toml:"shadow_map_size"`
}

// Terrain generates a height map of static columns when Size > 0. Seed 0 picks a random seed.
type Terrain struct {
	Size        int     `json:"size" yaml:"size" toml:"size"`
	Seed        int64   `json:"seed" yaml:"seed" toml:"seed"`
	HeightScale float32 `json:"height_scale" yaml:"height_scale" toml:"height_scale"`
}

// Config holds the world settings. Vectors are in scene axes (Y-up) except Gravity, which is
// in physics axes (Z-up).
type Config struct {
	Window      Window     `json:"window" yaml:"window" toml:"window"`
	ClearColor  string     `json:"clear_color" yaml:"clear_color" toml:"clear_color"`
	Camera      Camera     `json:"camera" yaml:"camera" toml:"camera"`
	Light       Light      `json:"light" yaml:"light" toml:"light"`
	Gravity     [3]float32 `json:"gravity" yaml:"gravity" toml:"gravity"`
	TimeStep    float32    `json:"time_step" yaml:"time_step" toml:"time_step"`
	MeshesURL   string     `json:"meshes_url" yaml:"meshes_url" toml:"meshes_url"`
	WatchMeshes bool       `json:"watch_meshes" yaml:"watch_meshes" toml:"watch_meshes"`
	Terrain     Terrain    `json:"terrain" yaml:"terrain" toml:"terrain"`
	LogPath     string     `json:"log_path" yaml:"log_path" toml:"log_path"`
	StatePath   string     `json:"state_path" yaml:"state_path" toml:"state_path"`
	GridVisible bool       `json:"grid_visible" yaml:"grid_visible" toml:"grid_visible"`
	ShowFPS     bool       `json:"show_fps" yaml:"show_fps" toml:"show_fps"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     "meshworld",
			TargetFPS: 60,
			Antialias: true,
		},
		ClearColor: "0x222222",
		Camera: Camera{
			Position: [3]float32{0, 5, 20},
			Fov:      60,
			Orbit:    true,
		},
		Light: Light{
			Position:         [3]float32{-20, 10, 30},
			Color:            "0xffffff",
			Intensity:        1,
			AmbientColor:     "0xffffff",
			AmbientIntensity: 1,
			ShadowDistance:   32,
			ShadowMapSize:    4096,
		},
		Gravity:   [3]float32{0, 0, -9.82},
		TimeStep:  1.0 / 60,
		MeshesURL: "assets/meshes.json",
		Terrain:   Terrain{HeightScale: 3},
		LogPath:   "logs/meshworld.txt",
		StatePath: "data/state",
	}
}

// Load reads path (YAML for .yaml/.yml, TOML for .toml, JSON otherwise) on top of Default().
// Keys the file omits keep their default; keys it sets win, including false and zero values.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("engineconfig: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Default(), fmt.Errorf("engineconfig: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path in the format Load would read it in, creating the directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".toml":
		data, err = toml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "\t")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
