// Package bandsplit is the host-facing band splitter: a parameter surface,
// its persisted state and the crossover network behind one entry point.
package bandsplit

import (
	"fmt"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/crossover"
	"github.com/cwbudde/algo-bandsplit/plugin/params"
	"github.com/cwbudde/algo-bandsplit/plugin/state"
)

// Processor splits blocks of audio into bands. Parameter setters on
// Params may be called from any goroutine; all other methods belong to
// the audio thread.
type Processor struct {
	cfg      core.ProcessorConfig
	params   *params.Surface
	network  *crossover.Network
	layout   crossover.Layout
	settings crossover.Settings
}

// New builds a processor. The initial bus layout has MaxBands output
// buses as wide as the input, which is stereo unless MaxChannels is 1.
func New(opts ...core.ProcessorOption) (*Processor, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	net, err := crossover.New(cfg.SampleRate, crossover.WithMaxChannels(cfg.MaxChannels))
	if err != nil {
		return nil, fmt.Errorf("bandsplit: %w", err)
	}

	return &Processor{
		cfg:     cfg,
		params:  params.New(),
		network: net,
		layout:  UniformLayout(min(2, cfg.MaxChannels), crossover.MaxBands).Layout(),
	}, nil
}

// Params returns the live parameter surface.
func (p *Processor) Params() *params.Surface { return p.params }

// Config returns the processing configuration.
func (p *Processor) Config() core.ProcessorConfig { return p.cfg }

// Prepare sets the sample rate and maximum block size before playback.
// A changed sample rate redesigns the filters and mutes the next block.
func (p *Processor) Prepare(sampleRate float64, blockSize int) {
	if sampleRate > 0 {
		p.cfg.SampleRate = sampleRate
		p.network.SetSampleRate(sampleRate)
	}
	if blockSize > 0 {
		p.cfg.BlockSize = blockSize
	}
}

// SetLayout negotiates the bus layout.
func (p *Processor) SetLayout(l BusLayout) error {
	if err := l.Supported(); err != nil {
		return err
	}
	layout := l.Layout()
	if layout.Inputs > p.cfg.MaxChannels {
		return fmt.Errorf("%w: %d input channels, processor prepared for %d",
			ErrUnsupportedLayout, layout.Inputs, p.cfg.MaxChannels)
	}
	p.layout = layout
	return nil
}

// Layout returns the negotiated channel geometry.
func (p *Processor) Layout() crossover.Layout { return p.layout }

// ProcessBlock splits frames samples of buf in place. buf holds the input
// in its first Layout().Inputs channels and receives every band group.
func (p *Processor) ProcessBlock(buf [][]float64, frames int) {
	p.params.Snapshot(&p.settings)
	p.network.Process(buf, p.layout, frames, &p.settings)
}

// Bands returns the band count used for the previous block.
func (p *Processor) Bands() int { return p.network.Bands() }

// Reset clears all filter history.
func (p *Processor) Reset() { p.network.Reset() }

// Settings returns a snapshot of the current parameters.
func (p *Processor) Settings() crossover.Settings {
	var s crossover.Settings
	p.params.Snapshot(&s)
	return s
}

// Network exposes the crossover network for inspection.
func (p *Processor) Network() *crossover.Network { return p.network }

// State serializes the parameters.
func (p *Processor) State() []byte {
	return state.Encode(p.params)
}

// SetState restores parameters from a blob written by State.
func (p *Processor) SetState(data []byte) error {
	return state.Decode(data, p.params)
}
