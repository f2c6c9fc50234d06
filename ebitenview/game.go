package ebitenview

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"fortio.org/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/turntable"
)

// errQuit ends the game loop without reporting an error.
var errQuit = errors.New("quit")

// RunConfig holds optional parameters for Run.
type RunConfig struct {
	Title      string
	Background color.Color
	LineColor  color.Color
	// Mesh is drawn with the viewport's object transform. Defaults to a cube.
	Mesh *Wireframe
	// ShowHUD draws FPS, the arbiter state and the applied sources.
	ShowHUD bool
	// Configs, if set, delivers reloaded configurations to apply on the
	// update goroutine.
	Configs <-chan turntable.Config
	// Quit, if set, ends the loop when closed.
	Quit <-chan struct{}
}

// Game is an ebiten.Game driving a turntable.Viewport: it polls input into
// the viewport's event notifications, ticks it, and draws the mesh as a
// wireframe.
type Game struct {
	viewport *turntable.Viewport
	model    *turntable.Model
	mesh     Wireframe
	cfg      RunConfig
	input    poller

	last  turntable.FrameReport
	hud   *ebiten.Image
	since time.Time
}

// NewGame creates a game for v. When v has no object yet, a model fitted to
// the mesh is attached.
func NewGame(v *turntable.Viewport, cfg RunConfig) *Game {
	if cfg.Background == nil {
		cfg.Background = color.RGBA{0x1e, 0x1e, 0x24, 0xff}
	}
	if cfg.LineColor == nil {
		cfg.LineColor = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	}
	mesh := Cube(1)
	if cfg.Mesh != nil {
		mesh = *cfg.Mesh
	}
	g := &Game{viewport: v, mesh: mesh, cfg: cfg}
	if m, ok := v.Object().(*turntable.Model); ok {
		g.model = m
	} else if v.Object() == nil {
		g.model = turntable.NewModel()
		g.model.Fit(mesh.Bounds())
		v.SetObject(g.model)
	}
	return g
}

// Update polls input, applies pending configuration and ticks the viewport.
func (g *Game) Update() error {
	select {
	case <-g.cfg.Quit:
		return errQuit
	default:
	}
	now := time.Now()
drain:
	for {
		select {
		case c := <-g.cfg.Configs:
			g.viewport.ApplyConfig(c, now)
		default:
			break drain
		}
	}
	g.input.poll(g.viewport, now)
	g.last = g.viewport.Tick(now)
	return nil
}

// Draw renders the wireframe and, optionally, the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)
	g.drawWireframe(screen)
	if g.cfg.ShowHUD {
		g.drawHUD(screen)
	}
}

// Layout keeps the viewport at the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := g.viewport.Size()
	if int(size.X) != outsideWidth || int(size.Y) != outsideHeight {
		g.viewport.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) drawWireframe(screen *ebiten.Image) {
	cam := g.viewport.Camera()
	model := mgl64.Ident4()
	if g.model != nil {
		model = g.model.Matrix()
	}
	for _, e := range g.mesh.Edges {
		a := mgl64.TransformCoordinate(g.mesh.Vertices[e[0]], model)
		b := mgl64.TransformCoordinate(g.mesh.Vertices[e[1]], model)
		ax, ay, okA := cam.Project(a)
		bx, by, okB := cam.Project(b)
		if !okA || !okB {
			continue
		}
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1.5, g.cfg.LineColor, true)
	}
}

// drawHUD refreshes the overlay about every half second and draws it in the
// top-left corner.
func (g *Game) drawHUD(screen *ebiten.Image) {
	if g.hud == nil {
		g.hud = ebiten.NewImage(220, 64)
	}
	if now := time.Now(); now.Sub(g.since) >= 500*time.Millisecond {
		g.since = now
		g.hud.Clear()
		// Semi-transparent background for readability
		g.hud.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(g.hud, fmt.Sprintf("FPS: %.1f  TPS: %.1f\nauto-rotate: %s\ncamera: %s\norientation: %s",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.viewport.AutoRotate().State(), g.last.Camera, g.last.Orientation))
	}
	screen.DrawImage(g.hud, nil)
}

// Run opens a window sized to the viewport and runs the game loop until the
// window closes or cfg.Quit is closed.
func Run(v *turntable.Viewport, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "turntable"
	}
	size := v.Size()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(int(size.X), int(size.Y))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	log.Infof("opening %q at %.0fx%.0f", cfg.Title, size.X, size.Y)
	err := ebiten.RunGame(NewGame(v, cfg))
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}
