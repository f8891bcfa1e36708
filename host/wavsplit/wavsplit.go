// Package wavsplit runs a band splitter offline over a WAV file and
// writes every band to its own WAV stream.
package wavsplit

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
	"github.com/cwbudde/algo-bandsplit/plugin/bandsplit"
)

const (
	// DefaultBlockSize is the number of frames processed per block.
	DefaultBlockSize = 1024

	pcmFormat = 1
)

var (
	// ErrNoOutputs is returned when Split receives no band writers.
	ErrNoOutputs = errors.New("wavsplit: no band outputs")
	// ErrBitDepth is returned for PCM sample sizes other than 16, 24 or 32 bits.
	ErrBitDepth = errors.New("wavsplit: unsupported bit depth")
	// ErrFormat is returned for non-PCM or unreadable input.
	ErrFormat = errors.New("wavsplit: unsupported wav input")
)

// Options controls an offline split.
type Options struct {
	// BlockSize is the number of frames per processing block.
	// Zero means DefaultBlockSize.
	BlockSize int
	// BitDepth of the written files. Zero keeps the input's bit depth.
	BitDepth int
}

// Stats describes a finished split.
type Stats struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
	Bands      int
	// Peaks holds the absolute peak of every band output, full scale = 1.
	Peaks []float64
	// Clipped counts output samples that had to be limited to full scale.
	Clipped int
}

// Split decodes in, feeds it through proc and writes band b to outs[b].
// The processor is prepared for the file's sample rate and a bus layout
// with one output bus per writer.
func Split(in io.ReadSeeker, outs []io.WriteSeeker, proc *bandsplit.Processor, opts Options) (Stats, error) {
	if len(outs) == 0 {
		return Stats{}, ErrNoOutputs
	}

	dec := wav.NewDecoder(in)
	if err := dec.FwdToPCM(); err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if dec.WavAudioFormat != pcmFormat {
		return Stats{}, fmt.Errorf("%w: audio format %d is not integer PCM", ErrFormat, dec.WavAudioFormat)
	}

	format := dec.Format()
	channels := format.NumChannels
	srcBits := int(dec.BitDepth)
	if !supportedDepth(srcBits) {
		return Stats{}, fmt.Errorf("%w: input has %d bits", ErrBitDepth, srcBits)
	}

	outBits := opts.BitDepth
	if outBits == 0 {
		outBits = srcBits
	}
	if !supportedDepth(outBits) {
		return Stats{}, fmt.Errorf("%w: output requested with %d bits", ErrBitDepth, outBits)
	}

	block := opts.BlockSize
	if block <= 0 {
		block = DefaultBlockSize
	}

	if err := proc.SetLayout(bandsplit.UniformLayout(channels, len(outs))); err != nil {
		return Stats{}, fmt.Errorf("wavsplit: %d channel input: %w", channels, err)
	}
	proc.Prepare(float64(format.SampleRate), block)
	proc.Reset()

	s := &splitter{
		proc:     proc,
		channels: channels,
		block:    block,
		inScale:  1 / fullScale(srcBits),
		outScale: fullScale(outBits),
		outMax:   int(fullScale(outBits)) - 1,
		buf:      make([][]float64, channels*len(outs)),
		pcm:      &audio.IntBuffer{Data: make([]int, block*channels), Format: format, SourceBitDepth: srcBits},
		stats: Stats{
			SampleRate: format.SampleRate,
			Channels:   channels,
			BitDepth:   outBits,
			Bands:      len(outs),
			Peaks:      make([]float64, len(outs)),
		},
	}
	for i := range s.buf {
		s.buf[i] = core.EnsureLen(s.buf[i], block)
	}

	s.encoders = make([]*wav.Encoder, len(outs))
	s.outPCM = make([]*audio.IntBuffer, len(outs))
	for b, w := range outs {
		s.encoders[b] = wav.NewEncoder(w, format.SampleRate, outBits, channels, pcmFormat)
		s.outPCM[b] = &audio.IntBuffer{
			Data:           make([]int, block*channels),
			Format:         &audio.Format{SampleRate: format.SampleRate, NumChannels: channels},
			SourceBitDepth: outBits,
		}
	}

	// The first block after a geometry change is muted; spend it on silence.
	proc.ProcessBlock(s.buf, block)

	err := s.run(dec)
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return s.stats, err
}

func supportedDepth(bits int) bool {
	return bits == 16 || bits == 24 || bits == 32
}

func fullScale(bits int) float64 {
	return math.Ldexp(1, bits-1)
}

type splitter struct {
	proc     *bandsplit.Processor
	channels int
	block    int
	inScale  float64
	outScale float64
	outMax   int

	buf      [][]float64
	pcm      *audio.IntBuffer
	encoders []*wav.Encoder
	outPCM   []*audio.IntBuffer
	stats    Stats
}

func (s *splitter) run(dec *wav.Decoder) error {
	for {
		n, err := dec.PCMBuffer(s.pcm)
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return fmt.Errorf("wavsplit: decode: %w", err)
		}
		frames := n / s.channels
		if frames == 0 {
			return nil
		}

		s.deinterleave(frames)
		s.proc.ProcessBlock(s.buf, frames)
		if err := s.write(frames); err != nil {
			return err
		}
		s.stats.Frames += frames

		if eof {
			return nil
		}
	}
}

func (s *splitter) deinterleave(frames int) {
	for ch := range s.buf {
		clear(s.buf[ch])
	}
	for c := range s.channels {
		dst := s.buf[c][:frames]
		for i := range dst {
			dst[i] = float64(s.pcm.Data[i*s.channels+c])
		}
		vecmath.ScaleBlockInPlace(dst, s.inScale)
	}
}

func (s *splitter) write(frames int) error {
	for b, enc := range s.encoders {
		out := s.outPCM[b]
		out.Data = out.Data[:frames*s.channels]

		for c := range s.channels {
			src := s.buf[b*s.channels+c][:frames]
			s.stats.Peaks[b] = max(s.stats.Peaks[b], vecmath.MaxAbs(src))
			vecmath.ScaleBlockInPlace(src, s.outScale)
			for i, v := range src {
				out.Data[i*s.channels+c] = s.quantize(v)
			}
		}

		if err := enc.Write(out); err != nil {
			return fmt.Errorf("wavsplit: band %d: %w", b, err)
		}
	}
	return nil
}

func (s *splitter) quantize(v float64) int {
	q := int(math.Round(v))
	switch {
	case q > s.outMax:
		s.stats.Clipped++
		return s.outMax
	case q < -s.outMax-1:
		s.stats.Clipped++
		return -s.outMax - 1
	default:
		return q
	}
}

func (s *splitter) close() error {
	var errs []error
	for b, enc := range s.encoders {
		if err := enc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("wavsplit: close band %d: %w", b, err))
		}
	}
	return errors.Join(errs...)
}
