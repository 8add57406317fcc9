package gui

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/ballpit/internal/arena"
	"github.com/san-kum/ballpit/internal/audio"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/logging"
	"github.com/san-kum/ballpit/internal/metrics"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	margin       = 40
	maxTelemetry = 200
)

// App is the windowed host. Each raylib frame delivers the pending tick,
// or redraws the world as it stands when the animation is stopped.
type App struct {
	Session   *arena.Session
	Telemetry []float64

	ctx      context.Context
	cfg      config.Config
	log      *logging.Logger
	renderer *Renderer
	energy   *metrics.KineticEnergy
	seed     int64
	inside   bool
	paused   bool
}

// initWindow opens the window at the configured frame rate and disables
// the default exit key.
func initWindow(fps int) {
	rl.InitWindow(windowWidth, windowHeight, "ballpit")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func NewApp(ctx context.Context, cfg config.Config, log *logging.Logger) *App {
	side := float32(windowHeight - 2*margin)
	scale := side / float32(max(cfg.Arena.Width, cfg.Arena.Height))

	a := &App{
		ctx:       ctx,
		cfg:       cfg,
		log:       log,
		renderer:  &Renderer{Origin: rl.NewVector2(margin, margin), Scale: scale},
		energy:    metrics.NewKineticEnergy(),
		seed:      cfg.Seed,
		Telemetry: make([]float64, 0, maxTelemetry),
	}
	a.Session = arena.New(ctx, cfg.NewWorld(), a.renderer, log)
	a.Session.AddObserver(a.energy)
	return a
}

// Run opens a window and blocks until it is closed, Q is pressed or ctx
// ends.
func Run(ctx context.Context, cfg config.Config, log *logging.Logger) error {
	initWindow(cfg.FPS)
	defer rl.CloseWindow()

	log.Info(ctx, "window opened", "width", windowWidth, "height", windowHeight)
	app := NewApp(ctx, cfg, log)

	if cfg.Sound {
		synth := audio.NewSynth()
		player, err := audio.Play(synth)
		if err != nil {
			log.Warn(ctx, "sound disabled", "error", err)
		} else {
			defer player.Close()
			app.Session.AddObserver(synth)
			log.Info(ctx, "sound enabled", "sample_rate", audio.SampleRate)
		}
	}

	return app.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		select {
		case <-a.ctx.Done():
			return a.ctx.Err()
		default:
		}
		if !a.Update() {
			return nil
		}
		a.Draw()
	}
	return nil
}

// Update handles input. It returns false when the user quits.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.Session.Leave()
		return false
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.seed++
		cfg := a.cfg
		cfg.Seed = a.seed
		a.Session.Reset(cfg.NewWorld())
		a.energy.Reset()
		a.Telemetry = a.Telemetry[:0]
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
		if a.paused {
			a.Session.Stop()
		} else if a.inside {
			a.Session.Enter()
		}
	}

	mouse := rl.GetMousePosition()
	pos := a.renderer.local(mouse)
	w := a.Session.World
	inside := rl.IsCursorOnScreen() &&
		pos.X >= 0 && pos.Y >= 0 && pos.X <= w.Width && pos.Y <= w.Height

	switch {
	case inside && !a.inside:
		a.inside = true
		if !a.paused {
			a.Session.Enter()
		}
	case !inside && a.inside:
		a.inside = false
		a.Session.Leave()
	}
	if !a.inside {
		return true
	}

	a.Session.Move(pos)
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.Session.Press(pos)
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		a.Session.Release()
	}
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()

	if a.Session.Pending() {
		a.Session.Tick()
		a.Telemetry = append(a.Telemetry, a.energy.Last())
		if len(a.Telemetry) > maxTelemetry {
			a.Telemetry = a.Telemetry[1:]
		}
	} else {
		a.Session.Draw()
	}
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	x := int32(windowHeight)
	drawText("ballpit", x, margin, 24, ColText)

	status, col := "IDLE", ColDim
	switch {
	case a.Session.Running():
		status, col = "RUNNING", ColText
	case a.paused:
		status, col = "PAUSED", ColSelect
	}
	drawText(status, x, margin+34, 16, col)

	w := a.Session.World
	lines := []string{
		fmt.Sprintf("ticks    %d", a.Session.Ticks()),
		fmt.Sprintf("bodies   %d", w.Len()),
		fmt.Sprintf("seed     %d", a.seed),
		fmt.Sprintf("energy   %.3f", metrics.Kinetic(w)),
		fmt.Sprintf("contacts %d", metrics.Overlaps(w)),
	}
	if i, ok := a.Session.Pointer().Captured(); ok {
		lines = append(lines, fmt.Sprintf("holding  body %d", i))
	}
	for i, l := range lines {
		drawText(l, x, margin+70+int32(i)*22, 16, ColText)
	}

	a.DrawTelemetry(x, 400, 240, 60)

	drawText("[SPACE] PAUSE  [R] RESET  [Q] QUIT", x, windowHeight-margin, 14, ColDim)
	drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), x, windowHeight-margin-22, 14, ColDim)
}

// DrawTelemetry plots the kinetic energy history as a line strip.
func (a *App) DrawTelemetry(rectX, rectY, width, height int32) {
	if len(a.Telemetry) < 2 {
		return
	}

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColDim)
	drawText(fmt.Sprintf("KE %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX, rectY+height+8, 14, ColText)
}

func drawText(text string, x, y int32, size float32, color rl.Color) {
	rl.DrawTextEx(rl.GetFontDefault(), text, rl.NewVector2(float32(x), float32(y)), size, 1, color)
}
