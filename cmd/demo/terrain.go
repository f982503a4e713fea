package main

import (
	"fmt"

	"github.com/jinzhu/copier"

	"meshworld/internal/engineconfig"
	"meshworld/internal/mapgen"
	"meshworld/internal/primitives"
	"meshworld/internal/world"
)

// addTerrain registers a size x size height map of static columns, ids "terrain-<x>-<z>".
// The columns sit on the ground slab.
func addTerrain(w *world.World, reg *primitives.Registry, t engineconfig.Terrain) (int, error) {
	opts, err := terrainOptions(t)
	if err != nil {
		return 0, err
	}
	mat, err := reg.NewMaterial("MeshLambertMaterial", map[string]any{"color": 0x4a7a3a})
	if err != nil {
		return 0, err
	}
	n := 0
	for i, col := range mapgen.GenerateColumns(opts) {
		rb, err := col.RigidBody(reg, mat)
		if err != nil {
			return n, err
		}
		id := fmt.Sprintf("terrain-%d-%d", i%opts.Width, i/opts.Width)
		if err := w.AddRigidBody(id, rb); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// terrainOptions overlays the non-zero Seed and HeightScale of t onto the default height map
// options. Size sets both Width and Depth.
func terrainOptions(t engineconfig.Terrain) (mapgen.HeightMapOptions, error) {
	opts := mapgen.DefaultHeightMapOptions()
	if err := copier.CopyWithOption(&opts, &t, copier.Option{IgnoreEmpty: true}); err != nil {
		return opts, fmt.Errorf("terrain: %w", err)
	}
	opts.Width, opts.Depth = t.Size, t.Size
	return opts, nil
}
