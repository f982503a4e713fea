package engineconfig

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Environment overrides, applied after the config file.
const (
	EnvConfig  = "MESHWORLD_CONFIG"
	EnvMeshes  = "MESHWORLD_MESHES"
	EnvLogPath = "MESHWORLD_LOG"
	EnvShowFPS = "MESHWORLD_SHOW_FPS"
)

// LoadEnvFile reads KEY=VALUE lines from path (e.g. ".env") and sets any variable that is not
// already set in the process environment. Blank lines and # comments are skipped; a missing
// file is not an error.
func LoadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		if !ok || key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		} else if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
			value = value[1 : len(value)-1]
		}
		if _, set := os.LookupEnv(key); !set {
			_ = os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

// ApplyEnv overrides cfg fields from MESHWORLD_* variables using lookup (os.LookupEnv in
// production).
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvMeshes); ok && v != "" {
		cfg.MeshesURL = v
	}
	if v, ok := lookup(EnvLogPath); ok && v != "" {
		cfg.LogPath = v
	}
	if v, ok := lookup(EnvShowFPS); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ShowFPS = b
		}
	}
}
