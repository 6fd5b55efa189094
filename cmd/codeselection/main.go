// main.go - outer loop for the code-selection simulation: window/event
// loop, keyboard input, frame pacing and rasterization upload. All of
// this is explicitly out of scope for the sim package per spec.md §1;
// this binary is the external collaborator that implements the interface
// sim exposes. Grounded on original_source/.../app_state.rs and main.rs
// (reset/pause/tick-speed key handling), translated from macroquad to the
// teacher's own ebiten backend (video_backend_ebiten.go).
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"github.com/Defernus/Code-Selection/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	"golang.org/x/term"
)

func main() {
	width := flag.Int("width", 64, "world width in cells (must be even)")
	height := flag.Int("height", 64, "world height in cells (must be even)")
	replicate := flag.Bool("replicate", false, "enable REPLICATE's swap+mutate semantics")
	replicateMutations := flag.Int("replicate-mutations", 8, "random bytes REPLICATE touches per firing")
	headlessTicks := flag.Int("headless-ticks", 0, "if > 0, run this many ticks with no window and exit")
	flag.Parse()

	opts := []sim.Option{}
	if *replicate {
		opts = append(opts, sim.WithReplicate(*replicateMutations))
	}

	world := sim.NewWorld(sim.AreaSize{Width: *width, Height: *height}, opts...)

	if *headlessTicks > 0 {
		runHeadless(world, *headlessTicks)
		return
	}

	if err := runWindowed(world); err != nil {
		log.Fatalf("codeselection: %v", err)
	}
}

// runHeadless advances the world n ticks with no display, printing a
// status line every tick. When stdout is a terminal, the line is
// rewritten in place with a carriage return; otherwise (piped output,
// CI logs) each tick gets its own line, since "\r" is meaningless there.
func runHeadless(world *sim.World, n int) {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	start := time.Now()
	for i := 1; i <= n; i++ {
		world.Tick()

		status := fmt.Sprintf("tick %d/%d phase=%v elapsed=%s", i, n, world.Phase(), time.Since(start).Round(time.Millisecond))
		if interactive {
			fmt.Printf("\r%s", status)
		} else {
			fmt.Println(status)
		}
	}
	if interactive {
		fmt.Println()
	}
}

const windowSize = 800

// game implements ebiten.Game, wrapping a *sim.World with the same
// reset/pause/tick-speed controls the original app_state.rs exposed.
type game struct {
	world         *sim.World
	canvas        *image.RGBA
	paused        bool
	ticksPerFrame int
	clipboardOK   bool
}

func runWindowed(world *sim.World) error {
	clipboardOK := clipboard.Init() == nil

	g := &game{
		world:         world,
		canvas:        world.NewImage(),
		paused:        true,
		ticksPerFrame: 1,
		clipboardOK:   clipboardOK,
	}

	ebiten.SetWindowSize(windowSize, windowSize)
	ebiten.SetWindowTitle("Code selection")
	ebiten.SetWindowResizable(true)

	return ebiten.RunGame(g)
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.world.Reset()
		g.canvas = g.world.NewImage()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.ticksPerFrame++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) && g.ticksPerFrame > 1 {
		g.ticksPerFrame--
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) && g.clipboardOK {
		g.copyCellUnderCursor()
	}

	stepping := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	if !g.paused || stepping {
		for i := 0; i < g.ticksPerFrame; i++ {
			g.world.Tick()
		}
	}

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.world.DrawToImage(g.canvas)

	scaled := sim.ScaleTo(g.canvas, sim.AreaSize{Width: windowSize, Height: windowSize})
	screen.DrawImage(ebiten.NewImageFromImage(scaled), nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowSize, windowSize
}

// copyCellUnderCursor writes a hex dump of the cell under the mouse
// pointer to the system clipboard, the same golang.design/x/clipboard
// dependency the teacher's ebiten backend uses for its own copy feature
// (video_backend_ebiten.go), repurposed here for inspecting a cell's
// program bytes outside the running simulation.
func (g *game) copyCellUnderCursor() {
	x, y := ebiten.CursorPosition()
	cellX, cellY, ok := screenToCell(x, y, windowSize, g.world.Size())
	if !ok {
		return
	}

	cell := g.world.CellAt(sim.RelativePosition{X: cellX, Y: cellY})
	clipboard.Write(clipboard.FmtText, []byte(hexDumpCell(cell)))
}

// screenToCell maps a point in the windowSize x windowSize render target
// back to the grid cell it falls in, reporting ok=false for any point
// outside the rendered area.
func screenToCell(x, y, windowSize int, size sim.AreaSize) (cellX, cellY int, ok bool) {
	if x < 0 || y < 0 || x >= windowSize || y >= windowSize {
		return 0, 0, false
	}

	cellX = x * size.Width / windowSize
	cellY = y * size.Height / windowSize
	if cellX < 0 || cellX >= size.Width || cellY < 0 || cellY >= size.Height {
		return 0, 0, false
	}
	return cellX, cellY, true
}

func hexDumpCell(cell sim.CellState) string {
	registers := cell.Registers[:]
	memory := cell.Memory[:]

	out := fmt.Sprintf("registers: % 02x\nmemory:\n", registers)
	for row := 0; row < len(memory); row += 16 {
		end := row + 16
		if end > len(memory) {
			end = len(memory)
		}
		out += fmt.Sprintf("%04x  % 02x\n", row, memory[row:end])
	}
	return out
}
