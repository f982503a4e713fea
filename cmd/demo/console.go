package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"meshworld/internal/commands"
	"meshworld/internal/engineconfig"
	"meshworld/internal/graphics"
	"meshworld/internal/primitives"
	"meshworld/internal/world"
)

var errNoStore = errors.New("no state store")

// registerCommands adds the world commands to reg. store may be nil, which disables save and
// recall.
func registerCommands(reg *commands.Registry, w *world.World, prims *primitives.Registry, loader world.MeshLoader, store world.SnapshotStore, renderer *graphics.Renderer, hud *graphics.HUD) {
	reg.Register("cache", "cache: snapshot every rigid body", nil, func([]string) (string, error) {
		if err := w.CacheAll(); err != nil {
			return "", err
		}
		return fmt.Sprintf("cached %d bodies", len(w.IDs())), nil
	})
	reg.Register("restore", "restore: restore every rigid body from its snapshot", nil, func([]string) (string, error) {
		if err := w.RestoreAll(); err != nil {
			return "", err
		}
		return fmt.Sprintf("restored %d bodies", len(w.IDs())), nil
	})
	reg.Register("save", "save: cache every rigid body and write the snapshots to disk", nil, func([]string) (string, error) {
		if store == nil {
			return "", errNoStore
		}
		if err := w.CacheAll(); err != nil {
			return "", err
		}
		n, err := w.SaveSnapshots(store)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("saved %d snapshots", n), nil
	})
	reg.Register("recall", "recall: read snapshots from disk and restore the bodies", nil, func([]string) (string, error) {
		if store == nil {
			return "", errNoStore
		}
		n, err := w.LoadSnapshots(store)
		if err != nil {
			return "", err
		}
		if err := w.RestoreAll(); err != nil {
			return "", err
		}
		return fmt.Sprintf("recalled %d snapshots", n), nil
	})
	reg.Register("bodies", "bodies: list rigid body ids", nil, func([]string) (string, error) {
		return "bodies: " + strings.Join(w.IDs(), ", "), nil
	})
	reg.Register("remove", "remove <id>: delete a rigid body", nil, func(args []string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("usage: remove <id>")
		}
		if err := w.RemoveRigidBody(args[0]); err != nil {
			return "", err
		}
		return "removed " + args[0], nil
	})
	reg.Register("velocity", "velocity <id> <x> <y> <z>: set a body's velocity (scene axes)", nil, func(args []string) (string, error) {
		if len(args) != 4 {
			return "", fmt.Errorf("usage: velocity <id> <x> <y> <z>")
		}
		rb, ok := w.RigidBody(args[0])
		if !ok {
			return "", fmt.Errorf("%w: %q", world.ErrUnknownID, args[0])
		}
		var v [3]float32
		for i, s := range args[1:] {
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return "", fmt.Errorf("velocity: %w", err)
			}
			v[i] = float32(f)
		}
		rb.SetVelocity(v[0], v[1], v[2])
		return "", nil
	})
	reg.Register("load", "load <url>: load a mesh batch document", nil, func(args []string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("usage: load <url>")
		}
		w.LoadMeshesAsync(context.Background(), loader, args[0])
		return "loading " + args[0], nil
	})
	reg.Register("errors", "errors: list failed mesh loads", nil, func([]string) (string, error) {
		errs := w.LoadErrors()
		if len(errs) == 0 {
			return "no load errors", nil
		}
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return strings.Join(msgs, "; "), nil
	})

	gridFlags := flag.NewFlagSet("grid", flag.ContinueOnError)
	gridOn := gridFlags.Bool("on", true, "show the grid")
	reg.Register("grid", "grid [-on=bool]: show or hide the grid", gridFlags, func([]string) (string, error) {
		renderer.GridVisible = *gridOn
		return "", nil
	})

	hudFlags := flag.NewFlagSet("hud", flag.ContinueOnError)
	hudFPS := hudFlags.Bool("fps", true, "show FPS")
	hudMem := hudFlags.Bool("mem", false, "show memory")
	hudBodies := hudFlags.Bool("bodies", true, "show body and mesh counts")
	reg.Register("hud", "hud [-fps=bool] [-mem=bool] [-bodies=bool]", hudFlags, func([]string) (string, error) {
		hud.ShowFPS, hud.ShowMemAlloc, hud.ShowBodies = *hudFPS, *hudMem, *hudBodies
		return "", nil
	})

	terrainFlags := flag.NewFlagSet("terrain", flag.ContinueOnError)
	terrainSize := terrainFlags.Int("size", 8, "tiles per side")
	terrainSeed := terrainFlags.Int64("seed", 0, "noise seed (0 = random)")
	terrainHeight := terrainFlags.Float64("height", 3, "maximum column height")
	reg.Register("terrain", "terrain [-size=n] [-seed=n] [-height=f]: add height map columns", terrainFlags, func([]string) (string, error) {
		n, err := addTerrain(w, prims, engineconfig.Terrain{Size: *terrainSize, Seed: *terrainSeed, HeightScale: float32(*terrainHeight)})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added %d terrain columns", n), nil
	})
}
