package meshparser

import (
	"fmt"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"meshworld/internal/primitives"
	"meshworld/internal/scene"
)

type setter func(o *scene.Object, v any) error

// setters apply known mesh properties. Anything without an entry is kept in Object.UserData.
var setters = map[string]setter{
	"name": func(o *scene.Object, v any) error {
		s, ok := v.(string)
		if !ok {
			return typeError("string", v)
		}
		o.Name = s
		return nil
	},
	"position":      vectorSetter(func(o *scene.Object) *rl.Vector3 { return &o.Position }),
	"scale":         vectorSetter(func(o *scene.Object) *rl.Vector3 { return &o.Scale }),
	"rotation":      setRotation,
	"quaternion":    setQuaternion,
	"visible":       boolSetter(func(o *scene.Object) *bool { return &o.Visible }),
	"castShadow":    boolSetter(func(o *scene.Object) *bool { return &o.CastShadow }),
	"receiveShadow": boolSetter(func(o *scene.Object) *bool { return &o.ReceiveShadow }),
	"frustumCulled": boolSetter(func(o *scene.Object) *bool { return &o.FrustumCulled }),
	"renderOrder": func(o *scene.Object, v any) error {
		n, ok := v.(float64)
		if !ok {
			return typeError("number", v)
		}
		o.RenderOrder = int(n)
		return nil
	},
	DepthMaterialKey: func(o *scene.Object, v any) error {
		m, ok := v.(*primitives.Material)
		if !ok {
			return typeError("material", v)
		}
		o.CustomDepthMaterial = m
		return nil
	},
	"userData": func(o *scene.Object, v any) error {
		m, ok := v.(map[string]any)
		if !ok {
			return typeError("object", v)
		}
		for k, val := range m {
			setUserData(o, k, val)
		}
		return nil
	},
}

func typeError(want string, got any) error {
	return fmt.Errorf("expected %s, got %T", want, got)
}

// vectorSetter copies a vector into the field returned by field, component by component,
// so pointers to that field stay valid.
func vectorSetter(field func(o *scene.Object) *rl.Vector3) setter {
	return func(o *scene.Object, v any) error {
		vec, ok := v.(rl.Vector3)
		if !ok {
			return typeError("[x, y, z]", v)
		}
		dst := field(o)
		dst.X, dst.Y, dst.Z = vec.X, vec.Y, vec.Z
		return nil
	}
}

func boolSetter(field func(o *scene.Object) *bool) setter {
	return func(o *scene.Object, v any) error {
		b, ok := v.(bool)
		if !ok {
			return typeError("bool", v)
		}
		*field(o) = b
		return nil
	}
}

// setRotation takes Euler angles in radians (x, y, z) and writes the orientation in place.
func setRotation(o *scene.Object, v any) error {
	vec, ok := v.(rl.Vector3)
	if !ok {
		return typeError("[x, y, z]", v)
	}
	q := rl.QuaternionFromEuler(vec.X, vec.Y, vec.Z)
	o.Quaternion.X, o.Quaternion.Y, o.Quaternion.Z, o.Quaternion.W = q.X, q.Y, q.Z, q.W
	return nil
}

func setQuaternion(o *scene.Object, v any) error {
	arr, ok := v.([]any)
	if !ok || len(arr) != 4 {
		return typeError("[x, y, z, w]", v)
	}
	var c [4]float32
	for i, e := range arr {
		n, ok := e.(float64)
		if !ok {
			return typeError("number", e)
		}
		c[i] = float32(n)
	}
	o.Quaternion.X, o.Quaternion.Y, o.Quaternion.Z, o.Quaternion.W = c[0], c[1], c[2], c[3]
	return nil
}

func setUserData(o *scene.Object, key string, v any) {
	if o.UserData == nil {
		o.UserData = make(map[string]any)
	}
	o.UserData[key] = v
}

// BuildMesh creates a scene object from cfg and applies its properties. On error no object is
// returned, so a malformed descriptor never yields a half-configured mesh.
func BuildMesh(cfg *MeshConfiguration) (*scene.Object, error) {
	if cfg == nil || cfg.Geometry == nil || cfg.Material == nil {
		return nil, fmt.Errorf("meshparser: build: configuration needs geometry and material")
	}
	obj := scene.NewObject(cfg.Geometry, cfg.Material)
	if err := ApplyProperties(obj, cfg.Properties); err != nil {
		return nil, err
	}
	return obj, nil
}

// ApplyProperties sets every property on obj. Vector properties are copied into the existing
// fields. Either all properties are applied or, on error, none are.
func ApplyProperties(obj *scene.Object, props map[string]any) error {
	staged := *obj
	if obj.UserData != nil {
		staged.UserData = make(map[string]any, len(obj.UserData))
		for k, v := range obj.UserData {
			staged.UserData[k] = v
		}
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := props[k]
		set, ok := setters[k]
		if !ok {
			setUserData(&staged, k, v)
			continue
		}
		if err := set(&staged, v); err != nil {
			return fmt.Errorf("meshparser: property %q: %w", k, err)
		}
	}
	*obj = staged
	return nil
}
