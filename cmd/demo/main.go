package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"meshworld/internal/commands"
	"meshworld/internal/download"
	"meshworld/internal/engineconfig"
	"meshworld/internal/graphics"
	"meshworld/internal/logger"
	"meshworld/internal/meshparser"
	"meshworld/internal/physics"
	"meshworld/internal/primitives"
	"meshworld/internal/rigidbody"
	"meshworld/internal/scene"
	"meshworld/internal/statestore"
	"meshworld/internal/terminal"
	"meshworld/internal/watch"
	"meshworld/internal/world"
)

func main() {
	_ = engineconfig.LoadEnvFile(".env")

	defaultConfig := engineconfig.DefaultConfigPath
	if v := os.Getenv(engineconfig.EnvConfig); v != "" {
		defaultConfig = v
	}
	configPath := flag.String("config", defaultConfig, "world config file (.json, .yaml or .toml)")
	meshesURL := flag.String("meshes", "", "mesh batch document URL or path (overrides config)")
	watchMeshes := flag.Bool("watch", false, "reload the mesh document when the local file changes")
	flag.Parse()

	cfg, err := engineconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	engineconfig.ApplyEnv(&cfg, os.LookupEnv)
	if *meshesURL != "" {
		cfg.MeshesURL = *meshesURL
	}
	if *watchMeshes {
		cfg.WatchMeshes = true
	}

	log := logger.New(cfg.LogPath)
	reg := primitives.NewRegistry()
	renderer := graphics.NewRenderer(cfg.GridVisible)
	w := world.New(cfg, renderer, log)

	if err := addBodies(w, reg); err != nil {
		log.Logf("demo: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Terrain.Size > 0 {
		n, err := addTerrain(w, reg, cfg.Terrain)
		if err != nil {
			log.Logf("demo: terrain: %v", err)
		} else {
			log.Logf("demo: terrain: %d columns", n)
		}
	}
	w.Initialize()

	loader := meshparser.NewLoader(meshparser.NewParser(reg), download.New())
	var changes <-chan string
	if cfg.MeshesURL != "" {
		w.LoadMeshesAsync(context.Background(), loader, cfg.MeshesURL)
		if path, ok := localPath(cfg.MeshesURL); ok && cfg.WatchMeshes {
			watcher, err := watch.New(log, path)
			if err != nil {
				log.Logf("demo: %v", err)
			} else {
				defer watcher.Close()
				changes = watcher.Changes()
			}
		}
	}

	hud := graphics.NewHUD()
	hud.ShowFPS = cfg.ShowFPS
	hud.ShowBodies = cfg.ShowFPS

	var store world.SnapshotStore
	if cfg.StatePath != "" {
		st, err := statestore.Open(cfg.StatePath)
		if err != nil {
			log.Logf("demo: %v", err)
		} else {
			defer st.Close()
			store = st
		}
	}

	cmds := commands.NewRegistry()
	registerCommands(cmds, w, reg, loader, store, renderer, hud)
	term := terminal.New(log, cmds)

	update := func() {
		select {
		case <-changes:
			log.Logf("demo: %s changed, reloading", cfg.MeshesURL)
			w.ReloadMeshesAsync(context.Background(), loader, cfg.MeshesURL)
		default:
		}
		term.Update()
		if term.IsOpen() {
			return
		}
		if cfg.Camera.Orbit {
			graphics.OrbitCamera(w.Camera())
		}
		switch {
		case rl.IsKeyPressed(rl.KeyC):
			if err := w.CacheAll(); err != nil {
				log.Logf("demo: %v", err)
			}
		case rl.IsKeyPressed(rl.KeyR):
			if err := w.RestoreAll(); err != nil {
				log.Logf("demo: %v", err)
			}
		}
	}
	draw := func() {
		if err := w.Frame(rl.GetTime()); err != nil {
			log.Logf("demo: %v", err)
		}
		hud.Draw(len(w.RigidBodies()), len(w.Scene().Objects()))
		term.Draw()
	}
	graphics.Run(cfg.Window, update, draw)
	renderer.Unload()
}

// localPath returns the file path of a plain path or file:// URL.
func localPath(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, true
	}
	switch u.Scheme {
	case "":
		return rawURL, true
	case "file":
		return u.Path, true
	}
	return "", false
}

// addBodies registers a static ground slab and a cube that falls onto it. Body positions and
// extents are in physics axes (Z-up).
func addBodies(w *world.World, reg *primitives.Registry) error {
	groundMat, err := reg.NewMaterial("MeshStandardMaterial", map[string]any{"color": 0x555555})
	if err != nil {
		return err
	}
	cubeMat, err := reg.NewMaterial("MeshStandardMaterial", map[string]any{"color": 0x777777, "flatShading": true})
	if err != nil {
		return err
	}
	groundGeo, err := reg.NewGeometry("BoxGeometry", []float64{20, 1, 20})
	if err != nil {
		return err
	}
	cubeGeo, err := reg.NewGeometry("BoxGeometry", []float64{1, 1, 1})
	if err != nil {
		return err
	}

	ground, err := rigidbody.New(
		scene.NewObject(groundGeo, groundMat),
		physics.NewBody(rl.NewVector3(0, 0, -0.5), rl.NewVector3(10, 10, 0.5), 0),
	)
	if err != nil {
		return err
	}
	cubeBody := physics.NewBody(rl.NewVector3(0, 0, 8), rl.NewVector3(0.5, 0.5, 0.5), 1)
	cubeBody.AngularVelocity = rl.NewVector3(0.4, 0.2, 0.6)
	cube, err := rigidbody.New(scene.NewObject(cubeGeo, cubeMat), cubeBody)
	if err != nil {
		return err
	}

	if err := w.AddRigidBody("ground", ground); err != nil {
		return err
	}
	return w.AddRigidBody("cube", cube)
}
