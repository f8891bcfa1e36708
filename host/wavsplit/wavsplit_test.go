package wavsplit

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
	"github.com/cwbudde/algo-bandsplit/internal/testutil"
	"github.com/cwbudde/algo-bandsplit/plugin/bandsplit"
)

func writeWAV(t *testing.T, path string, sampleRate, bits, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bits, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: bits,
	}))
	require.NoError(t, enc.Close())
}

func readWAV(t *testing.T, path string) *audio.IntBuffer {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)
	return buf
}

func toPCM(signal []float64, bits int) []int {
	scale := fullScale(bits)
	out := make([]int, len(signal))
	for i, v := range signal {
		out[i] = int(math.Round(v * (scale - 1)))
	}
	return out
}

// splitFiles runs Split from inPath into bands files in dir.
func splitFiles(t *testing.T, dir, inPath string, bands int, proc *bandsplit.Processor, opts Options) (Stats, []string) {
	t.Helper()

	in, err := os.Open(inPath)
	require.NoError(t, err)
	defer in.Close()

	paths := make([]string, bands)
	outs := make([]*os.File, bands)
	writers := make([]io.WriteSeeker, bands)
	for b := range outs {
		paths[b] = filepath.Join(dir, "band"+string(rune('0'+b))+".wav")
		outs[b], err = os.Create(paths[b])
		require.NoError(t, err)
		writers[b] = outs[b]
	}

	stats, err := Split(in, writers, proc, opts)
	require.NoError(t, err)
	for _, f := range outs {
		require.NoError(t, f.Close())
	}
	return stats, paths
}

func TestSplit_MonoBandsSumToAllpass(t *testing.T) {
	const (
		sr     = 44100
		frames = 5000
	)

	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")

	signal := testutil.SumChannels(
		testutil.DeterministicSine(100, sr, 0.3, frames),
		testutil.DeterministicSine(5000, sr, 0.3, frames),
		testutil.DeterministicNoise(1, 0.1, frames),
	)
	pcm := toPCM(signal, 16)
	writeWAV(t, inPath, sr, 16, 1, pcm)

	proc, err := bandsplit.New(core.WithMaxChannels(1))
	require.NoError(t, err)
	require.NoError(t, proc.Params().SetSplitFrequency(0, 200))
	require.NoError(t, proc.Params().SetSplitFrequency(1, 2000))

	stats, paths := splitFiles(t, dir, inPath, 3, proc, Options{BlockSize: 333})

	require.Equal(t, sr, stats.SampleRate)
	require.Equal(t, 1, stats.Channels)
	require.Equal(t, 16, stats.BitDepth)
	require.Equal(t, frames, stats.Frames)
	require.Equal(t, 3, stats.Bands)
	require.Len(t, stats.Peaks, 3)
	require.Zero(t, stats.Clipped)
	require.Equal(t, 3, proc.Bands())

	// Reference: the decoded input through the summed allpass.
	want := make([]float64, frames)
	for i, v := range pcm {
		want[i] = float64(v) / 32768
	}
	settings := proc.Settings()
	proc.Network().ReferenceAllpass(&settings).ProcessBlock(want)

	got := make([]float64, frames)
	for _, p := range paths {
		band := readWAV(t, p)
		require.Equal(t, frames, len(band.Data))
		require.Equal(t, sr, band.Format.SampleRate)
		for i, v := range band.Data {
			got[i] += float64(v) / 32768
		}
	}

	// Each band is rounded to 16 bits on its own.
	diff, err := testutil.MaxAbsDiff(got, want)
	require.NoError(t, err)
	require.Less(t, diff, 3.0/32768)

	// The low sine dominates band 0, the high one band 2.
	require.Greater(t, stats.Peaks[0], 0.25)
	require.Greater(t, stats.Peaks[2], 0.25)
}

func TestSplit_StereoKeepsChannels(t *testing.T) {
	const sr = 48000

	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")

	left := testutil.DeterministicSine(300, sr, 0.5, 2048)
	interleaved := make([]float64, 0, 4096)
	for _, v := range left {
		interleaved = append(interleaved, v, 0)
	}
	writeWAV(t, inPath, sr, 24, 2, toPCM(interleaved, 24))

	proc, err := bandsplit.New()
	require.NoError(t, err)
	proc.Params().SetBandCount(2)

	stats, paths := splitFiles(t, dir, inPath, 2, proc, Options{BitDepth: 16})
	require.Equal(t, 2, stats.Channels)
	require.Equal(t, 16, stats.BitDepth)

	for _, p := range paths {
		band := readWAV(t, p)
		require.Equal(t, 2, band.Format.NumChannels)
		for i := 1; i < len(band.Data); i += 2 {
			require.Zero(t, band.Data[i], "right channel picked up signal at %d", i)
		}
	}
}

func TestSplit_Errors(t *testing.T) {
	dir := t.TempDir()

	proc, err := bandsplit.New()
	require.NoError(t, err)

	t.Run("no outputs", func(t *testing.T) {
		_, err := Split(nil, nil, proc, Options{})
		require.ErrorIs(t, err, ErrNoOutputs)
	})

	t.Run("not a wav", func(t *testing.T) {
		path := filepath.Join(dir, "junk.wav")
		require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF data"), 0o600))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		out, err := os.Create(filepath.Join(dir, "junk-out.wav"))
		require.NoError(t, err)
		defer out.Close()

		_, err = Split(f, []io.WriteSeeker{out}, proc, Options{})
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("output bit depth", func(t *testing.T) {
		path := filepath.Join(dir, "ok.wav")
		writeWAV(t, path, 44100, 16, 1, make([]int, 64))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		out, err := os.Create(filepath.Join(dir, "ok-out.wav"))
		require.NoError(t, err)
		defer out.Close()

		_, err = Split(f, []io.WriteSeeker{out, out}, proc, Options{BitDepth: 12})
		require.ErrorIs(t, err, ErrBitDepth)
	})

	t.Run("stereo into mono processor", func(t *testing.T) {
		path := filepath.Join(dir, "stereo.wav")
		writeWAV(t, path, 44100, 16, 2, make([]int, 128))

		mono, err := bandsplit.New(core.WithMaxChannels(1))
		require.NoError(t, err)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		out, err := os.Create(filepath.Join(dir, "stereo-out.wav"))
		require.NoError(t, err)
		defer out.Close()

		_, err = Split(f, []io.WriteSeeker{out, out}, mono, Options{})
		require.ErrorIs(t, err, bandsplit.ErrUnsupportedLayout)
	})
}

func TestQuantize_Clips(t *testing.T) {
	s := &splitter{outMax: int(fullScale(16)) - 1}

	require.Equal(t, 32767, s.quantize(40000))
	require.Equal(t, -32768, s.quantize(-40000))
	require.Equal(t, 12, s.quantize(11.6))
	require.Equal(t, 2, s.stats.Clipped)
}
