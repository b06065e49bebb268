// Command inspector is a debugging aid around the pipeline's output: it
// loads an SSA IR dump (the artifact cmd/asmtowasm writes via -o) and
// draws the function/basic-block graph as boxes and arrows. It never
// feeds back into parsing, lifting or emission — see SPEC_FULL.md §6.
//
// Grounded on cmd/desktop/main.go's Game (Update/Draw/Layout) structure.
package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

type block struct {
	fn, name string
	succs    []string
	x, y     float32
}

const (
	boxW, boxH = 140, 50
	colGap     = 180
	rowGap     = 90
)

type Game struct {
	blocks []*block
	byName map[string]*block
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.White)

	for _, b := range g.blocks {
		for _, succName := range b.succs {
			target, ok := g.byName[qualify(b.fn, succName)]
			if !ok {
				continue
			}
			vector.StrokeLine(screen,
				b.x+boxW/2, b.y+boxH/2,
				target.x+boxW/2, target.y+boxH/2,
				2, colornames.Dimgray, true)
		}
	}

	for _, b := range g.blocks {
		vector.DrawFilledRect(screen, b.x, b.y, boxW, boxH, blockColor(b), true)
		ebitenutil.DebugPrintAt(screen, b.fn+":"+b.name, int(b.x)+4, int(b.y)+4)
	}
}

func blockColor(b *block) color.Color {
	switch {
	case strings.Contains(b.name, ".cont"):
		return colornames.Lightgray
	case b.name == b.fn:
		return colornames.Lightgreen
	default:
		return colornames.Lightskyblue
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 1024, 768
}

// qualify turns a bare successor block name into the "fn:name" key used by
// byName, since two different functions can both have a block named "L".
func qualify(fn, name string) string { return fn + ":" + name }

// parseDump recovers the CFG shape from ssa.Dump's textual format: a
// "function NAME" header per function, then one "  block NAME ->
// successors: [a b]" line per block.
func parseDump(text string) []*block {
	var blocks []*block
	curFn := ""
	col := 0
	row := -1

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "function "):
			curFn = strings.TrimPrefix(trimmed, "function ")
			col = 0
			row++
		case strings.HasPrefix(trimmed, "declare function "):
			// no blocks to draw for a pure declaration
		case strings.HasPrefix(trimmed, "block "):
			rest := strings.TrimPrefix(trimmed, "block ")
			parts := strings.SplitN(rest, " -> successors: ", 2)
			if len(parts) != 2 {
				continue
			}
			name := parts[0]
			succs := strings.Fields(strings.Trim(parts[1], "[]"))
			blocks = append(blocks, &block{
				fn: curFn, name: name, succs: succs,
				x: float32(col * colGap), y: float32(row * rowGap),
			})
			col++
		}
	}
	return blocks
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspector <ir-dump-file>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("failed to read IR dump: %v", err)
	}

	blocks := parseDump(string(data))
	byName := make(map[string]*block, len(blocks))
	for _, b := range blocks {
		byName[qualify(b.fn, b.name)] = b
	}

	ebiten.SetWindowSize(1024, 768)
	ebiten.SetWindowTitle("asmtowasm inspector")

	game := &Game{blocks: blocks, byName: byName}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
