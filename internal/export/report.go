package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/sim"
)

// Report summarizes a headless run. It is an output record, not a
// snapshot the arena can be restored from.
type Report struct {
	Preset    string             `json:"preset,omitempty"`
	Seed      int64              `json:"seed"`
	Bodies    int                `json:"bodies"`
	Arena     [2]float64         `json:"arena"`
	Ticks     int                `json:"ticks"`
	HeldTicks int                `json:"held_ticks"`
	Energy    []float64          `json:"energy"`
	Metrics   map[string]float64 `json:"metrics"`
	Final     []BodyState        `json:"final"`
}

type BodyState struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

func NewReport(preset string, cfg *config.Config, r *sim.Result) Report {
	rep := Report{
		Preset:    preset,
		Seed:      cfg.Seed,
		Bodies:    cfg.Bodies.Count,
		Arena:     [2]float64{cfg.Arena.Width, cfg.Arena.Height},
		Ticks:     r.Ticks,
		HeldTicks: r.HeldTicks,
		Energy:    r.Energy,
		Metrics:   r.Metrics,
		Final:     make([]BodyState, len(r.Final.Bodies)),
	}
	for i, b := range r.Final.Bodies {
		rep.Final[i] = BodyState{X: b.Pos.X, Y: b.Pos.Y, VX: b.Vel.X, VY: b.Vel.Y}
	}
	return rep
}

// WriteJSON encodes the report, indented.
func (r Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
