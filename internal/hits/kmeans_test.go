package hits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBlobs() *HitSet {
	return New(
		NewHit(0, 0, 0, 1, XZ),
		NewHit(1, 0, 0, 1, XZ),
		NewHit(0, 0, 1, 2, XZ),
		NewHit(10, 0, 10, 1, XZ),
		NewHit(11, 0, 10, 3, XZ),
	)
}

func TestKMeans_ConservesEnergy(t *testing.T) {
	original := twoBlobs()
	nodes := New(NewHit(0.5, 0, 0.5, 0, XZ), NewHit(10, 0, 10, 0, XZ))

	out := KMeans(original, nodes, 10)

	require.Equal(t, 2, out.Len())
	assert.InDelta(t, original.TotalEnergy(), out.TotalEnergy(), eps)
	assert.InDelta(t, 4.0, out.Energy(0), eps)
	assert.InDelta(t, 0.25, out.Position(0).X, eps)
	assert.InDelta(t, 0.5, out.Position(0).Z, eps)
	assert.InDelta(t, 10.75, out.Position(1).X, eps)
	// Inputs untouched.
	assert.Zero(t, nodes.TotalEnergy())
}

func TestKMeans_DropsEmptyNodes(t *testing.T) {
	original := twoBlobs()
	nodes := New(
		NewHit(0, 0, 0, 0, XZ),
		NewHit(500, 0, 500, 0, XZ),
		NewHit(10, 0, 10, 0, XZ),
	)

	out := KMeans(original, nodes, 1)

	assert.Equal(t, 2, out.Len())
	assert.InDelta(t, original.TotalEnergy(), out.TotalEnergy(), eps)
}

func TestKMeans_DegenerateInputs(t *testing.T) {
	nodes := New(NewHit(0, 0, 0, 0, XYZ))
	assert.Equal(t, 1, KMeans(New(), nodes, 5).Len())
	assert.Equal(t, 0, KMeans(twoBlobs(), New(), 5).Len())
	// maxIt below one still runs a single sweep.
	assert.InDelta(t, twoBlobs().TotalEnergy(), KMeans(twoBlobs(), nodes, 0).TotalEnergy(), eps)
}

func TestKMeans_SpreadIsPopulated(t *testing.T) {
	original := New(NewHit(0, 0, 0, 1, XZ), NewHit(2, 0, 0, 1, XZ))
	out := KMeans(original, New(NewHit(1, 0, 0, 0, XZ)), 3)
	require.Equal(t, 1, out.Len())
	assert.InDelta(t, 1.0, out.At(0).Sigma.X, eps)
	assert.InDelta(t, 1.0, out.ClusterSize(0), eps)
}
