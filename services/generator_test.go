package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maze-daze/server/models"
)

func TestGenerateLevelOneGrid(t *testing.T) {
	grid := Generate(7, 7, NewRand(7))

	require.Equal(t, 7, grid.Cols)
	require.Equal(t, 7, grid.Rows)
	require.Len(t, grid.Cells, 7)
	for _, row := range grid.Cells {
		require.Len(t, row, 7)
	}
	assert.True(t, grid.IsOpen(0, 0))
	assert.True(t, grid.IsOpen(6, 6))
	assert.True(t, IsReachable(grid, grid.Start(), grid.Exit()))
}

func TestGenerateCarvesPerfectMaze(t *testing.T) {
	for _, size := range []int{7, 21, 55} {
		grid := Generate(size, size, NewRand(int64(size)))
		lattice := (size + 1) / 2

		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				switch {
				case x%2 == 0 && y%2 == 0:
					assert.True(t, grid.IsOpen(x, y), "lattice cell %d,%d", x, y)
				case x%2 == 1 && y%2 == 1:
					assert.True(t, grid.IsWall(x, y), "pillar %d,%d", x, y)
				}
			}
		}
		// a spanning tree over n lattice cells opens n-1 connectors
		open := size*size - grid.CountWalls()
		assert.Equal(t, 2*lattice*lattice-1, open, "size %d", size)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(25, 25, NewRand(99))
	b := Generate(25, 25, NewRand(99))
	c := Generate(25, 25, NewRand(100))

	assert.Equal(t, a.Cells, b.Cells)
	assert.NotEqual(t, a.Cells, c.Cells)
}

func TestGenerateLargestGrid(t *testing.T) {
	grid := Generate(models.MaxGridSize, models.MaxGridSize, NewRand(3))
	assert.True(t, IsReachable(grid, grid.Start(), grid.Exit()))
}

func TestGenerateDegenerateSizes(t *testing.T) {
	assert.Equal(t, 0, Generate(0, 0, NewRand(1)).CountWalls())
	grid := Generate(1, 1, NewRand(1))
	assert.True(t, grid.IsOpen(0, 0))
}
