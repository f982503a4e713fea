package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRemoveBody(t *testing.T) {
	w := NewWorld()
	a := NewBody(rl.NewVector3(0, 0, 0), rl.NewVector3(0.5, 0.5, 0.5), 1)
	b := NewBody(rl.NewVector3(5, 0, 0), rl.NewVector3(0.5, 0.5, 0.5), 1)

	require.NoError(t, w.AddBody(a))
	require.NoError(t, w.AddBody(b))
	assert.Same(t, w, a.World())
	assert.Equal(t, []*Body{a, b}, w.Bodies())

	assert.ErrorIs(t, w.AddBody(a), ErrBodyInWorld)

	require.NoError(t, w.RemoveBody(a))
	assert.Nil(t, a.World())
	assert.Equal(t, []*Body{b}, w.Bodies())
	assert.ErrorIs(t, w.RemoveBody(a), ErrBodyNotInWorld)
}

func TestStepGravityIsZDown(t *testing.T) {
	w := NewWorld()
	b := NewBody(rl.NewVector3(0, 0, 10), rl.NewVector3(0.5, 0.5, 0.5), 1)
	require.NoError(t, w.AddBody(b))

	w.Step(1.0 / 60)

	assert.InDelta(t, -9.82/60, b.Velocity.Z, 1e-5)
	assert.Equal(t, float32(0), b.Velocity.X)
	assert.Equal(t, float32(0), b.Velocity.Y)
	assert.Less(t, b.Position.Z, float32(10))
}

func TestStaticBodyDoesNotMove(t *testing.T) {
	w := NewWorld()
	b := NewBody(rl.NewVector3(1, 2, 3), rl.NewVector3(0.5, 0.5, 0.5), 0)
	require.NoError(t, w.AddBody(b))
	assert.True(t, b.Static())

	for i := 0; i < 10; i++ {
		w.Step(1.0 / 60)
	}
	assert.Equal(t, rl.NewVector3(1, 2, 3), b.Position)
	assert.Equal(t, rl.NewVector3(0, 0, 0), b.Velocity)
}

func TestStepRestsOnStaticGround(t *testing.T) {
	w := NewWorld()
	ground := NewBody(rl.NewVector3(0, 0, 0), rl.NewVector3(5, 5, 0.5), 0)
	box := NewBody(rl.NewVector3(0, 0, 1.2), rl.NewVector3(0.5, 0.5, 0.5), 1)
	require.NoError(t, w.AddBody(ground))
	require.NoError(t, w.AddBody(box))

	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60)
	}
	assert.InDelta(t, 1.0, box.Position.Z, 0.01)
	assert.Equal(t, float32(0), ground.Position.Z)
}

func TestIntegrateRotationKeepsUnitLength(t *testing.T) {
	q := rl.QuaternionIdentity()
	for i := 0; i < 100; i++ {
		q = integrateRotation(q, rl.NewVector3(0, 0, 3), 1.0/60)
	}
	n := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
	assert.InDelta(t, 1.0, n, 1e-4)
	assert.NotEqual(t, float32(1), q.W)
}

func TestResetRestoresInitSlots(t *testing.T) {
	w := NewWorld()
	b := NewBody(rl.NewVector3(0, 0, 0), rl.NewVector3(0.5, 0.5, 0.5), 1)
	b.InitVelocity = rl.NewVector3(1, 0, 0)
	b.Velocity = rl.NewVector3(7, 7, 7)
	b.AngularVelocity = rl.NewVector3(1, 1, 1)
	require.NoError(t, w.AddBody(b))

	w.Reset()
	assert.Equal(t, rl.NewVector3(1, 0, 0), b.Velocity)
	assert.Equal(t, rl.NewVector3(0, 0, 0), b.AngularVelocity)
}
