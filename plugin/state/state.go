// Package state serializes a parameter surface into the flat binary blob
// a host stores with a session.
//
// Layout, little-endian:
//
//	int32    band-count bound (crossover.MaxBands when written)
//	float32  band count, normalized
//	float32  filter family, normalized
//	float32  split frequency, normalized, repeated bound-1 times
//
// Blobs written before the family parameter existed lack the second
// float and are recognized by their exact length, 8 + 4*(bound-1).
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/crossover"
	"github.com/cwbudde/algo-bandsplit/plugin/params"
)

// ErrTruncated is returned when a blob ends before all fields it
// announces.
var ErrTruncated = errors.New("state: truncated blob")

const (
	boundSize = 4
	fieldSize = 4
)

// Size returns the length of an encoded blob.
func Size() int {
	return boundSize + fieldSize*(2+crossover.MaxSplits)
}

// Encode serializes p into a new blob.
func Encode(p *params.Surface) []byte {
	return AppendEncode(make([]byte, 0, Size()), p)
}

// AppendEncode appends the serialized form of p to dst.
func AppendEncode(dst []byte, p *params.Surface) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(crossover.MaxBands)))
	dst = appendFloat(dst, p.BandCountNormalized())
	dst = appendFloat(dst, p.FamilyNormalized())
	for i := range crossover.MaxSplits {
		dst = appendFloat(dst, p.SplitNormalized(i))
	}
	return dst
}

func appendFloat(dst []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v)))
}

// Decode applies the values stored in data to p.
//
// Decode never reads past data. Values that are missing keep their
// current setting, non-finite values are skipped and splits beyond
// crossover.MaxSplits are ignored. A blob shorter than the bound field
// returns ErrTruncated without touching p; a blob that ends later returns
// ErrTruncated after applying everything before the cut.
func Decode(data []byte, p *params.Surface) error {
	if len(data) < boundSize {
		return fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	bound := int(int32(binary.LittleEndian.Uint32(data)))
	splits := max(bound-1, 0)
	legacy := len(data) == boundSize+fieldSize*(1+splits)

	r := reader{data: data, off: boundSize}

	v, ok := r.next()
	if !ok {
		return r.truncated()
	}
	if core.IsFinite(v) {
		_ = p.SetBandCountNormalized(v)
	}

	if !legacy {
		if v, ok = r.next(); !ok {
			return r.truncated()
		}
		if core.IsFinite(v) {
			_ = p.SetFamilyNormalized(v)
		}
	}

	for i := range splits {
		if v, ok = r.next(); !ok {
			return r.truncated()
		}
		if i < crossover.MaxSplits && core.IsFinite(v) {
			_ = p.SetSplitNormalized(i, v)
		}
	}

	return nil
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) next() (float64, bool) {
	if r.off+fieldSize > len(r.data) {
		return 0, false
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += fieldSize
	return float64(v), true
}

func (r *reader) truncated() error {
	return fmt.Errorf("%w: ends at byte %d", ErrTruncated, len(r.data))
}
