package main

import (
	"strings"

	"maze-daze/server/models"
)

const legend = "S start  E exit  K key  B book  C chest  . coin  N npc  X enemy  # brick  % stone  & ruins"

var wallGlyphs = map[models.WallTier]byte{
	models.WallBrick: '#',
	models.WallStone: '%',
	models.WallRuins: '&',
}

var itemGlyphs = map[models.ItemKind]byte{
	models.ItemKey:   'K',
	models.ItemBook:  'B',
	models.ItemChest: 'C',
	models.ItemCoin:  '.',
}

// render draws the level one character per cell, entities over terrain
func render(state *models.LevelState) string {
	grid := state.Grid
	rows := make([][]byte, grid.Rows)
	for y := range rows {
		rows[y] = make([]byte, grid.Cols)
		for x := range rows[y] {
			rows[y][x] = ' '
			if grid.IsWall(x, y) {
				rows[y][x] = '#'
				if g, ok := wallGlyphs[state.WallTypes[models.Position{X: x, Y: y}]]; ok {
					rows[y][x] = g
				}
			}
		}
	}

	put := func(p models.Position, c byte) {
		if grid.InBounds(p.X, p.Y) {
			rows[p.Y][p.X] = c
		}
	}
	for _, t := range state.Treasures {
		if !t.Collected {
			put(t.Pos, itemGlyphs[t.Kind])
		}
	}
	for _, n := range state.NPCs {
		put(n.Pos, 'N')
	}
	for _, e := range state.Enemies {
		if !e.Defeated {
			put(e.Pos, 'X')
		}
	}
	put(grid.Start(), 'S')
	put(grid.Exit(), 'E')

	var b strings.Builder
	border := strings.Repeat("-", grid.Cols+2)
	b.WriteString(border + "\n")
	for _, row := range rows {
		b.WriteByte('|')
		b.Write(row)
		b.WriteString("|\n")
	}
	b.WriteString(border + "\n")
	return b.String()
}
