// Package audio sonifies the arena: a soft pad whose filter opens with
// kinetic energy, and a short click whenever a body lands on a wall.
package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/world"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Synth renders the sound. Observe is called from the simulation loop and
// Render from the audio callback.
type Synth struct {
	// Gm7 add9: G2 Bb2 D3 F3 A3
	Chord  []float64
	Volume float64

	mu      sync.Mutex
	energy  float64
	resting int
	impacts int

	time         float64
	energySmooth float64
	filterState  [2]float64
	delayLine    [2][]float64
	delayHead    int
	click        float64
	clickPhase   float64
}

func NewSynth() *Synth {
	delayLen := int(float64(SampleRate) * 0.6)
	return &Synth{
		Chord:     []float64{98.00, 116.54, 146.83, 174.61, 220.00},
		Volume:    0.25,
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Observe records the world's energy and counts bodies that reached a wall
// since the previous call.
func (s *Synth) Observe(w *world.World) {
	e := metrics.Kinetic(w)
	r := metrics.Resting(w)

	s.mu.Lock()
	s.energy = e
	if r > s.resting {
		s.impacts += r - s.resting
	}
	s.resting = r
	s.mu.Unlock()
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low pass filter.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Render fills a stereo buffer.
func (s *Synth) Render(out [][]float32) {
	s.mu.Lock()
	target := s.energy
	if s.impacts > 0 {
		s.click = math.Min(1, 0.4+0.2*float64(s.impacts))
		s.clickPhase = 0
		s.impacts = 0
	}
	s.mu.Unlock()

	s.energySmooth = s.energySmooth*0.995 + target*0.005
	cutoff := 300.0 + math.Min(s.energySmooth*20, 900.0)
	dt := 1.0 / float64(SampleRate)
	decay := math.Exp(-dt / 0.03)

	for i := range out[0] {
		var l, r float64
		for j, f := range s.Chord {
			g := 1.0 / float64(len(s.Chord))
			lfo := math.Sin(s.time*0.2 + float64(j))
			l += triangle(s.time*f*0.999) * g * (0.7 + 0.3*lfo)
			r += triangle(s.time*f*1.001) * g * (0.7 + 0.3*lfo)
		}

		s.filterState[0] = lpf(l, cutoff, dt, s.filterState[0])
		s.filterState[1] = lpf(r, cutoff, dt, s.filterState[1])

		tick := s.click * math.Sin(2*math.Pi*s.clickPhase)
		s.clickPhase += 880 * dt
		s.click *= decay

		dl := s.delayLine[0][s.delayHead]
		dr := s.delayLine[1][s.delayHead]
		mixL := s.filterState[0] + tick + dl*0.3 + dr*0.1
		mixR := s.filterState[1] + tick + dr*0.3 + dl*0.1
		s.delayLine[0][s.delayHead] = mixL * 0.7
		s.delayLine[1][s.delayHead] = mixR * 0.7
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		out[0][i] = float32(mixL * s.Volume)
		if len(out) > 1 {
			out[1][i] = float32(mixR * s.Volume)
		}
		s.time += dt
	}
}

// Player streams a Synth to the default output device.
type Player struct {
	stream *portaudio.Stream
}

func Play(s *Synth) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: initialize: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.Render)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: start stream: %w", err)
	}
	return &Player{stream: stream}, nil
}

func (p *Player) Close() error {
	err := p.stream.Stop()
	p.stream.Close()
	portaudio.Terminate()
	return err
}
