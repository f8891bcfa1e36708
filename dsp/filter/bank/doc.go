// Package bank owns the filter stages and per-path filter state of an
// N-way crossover network.
//
// Every crossover point has three stages designed at the same frequency:
// a lowpass, a highpass and the matching allpass. Signal paths never share
// history, so each (source band, crossover point, channel) triple gets
// its own [Passes] delay-register slots in one flat arena:
//
//	index = ((channel*maxBands + source)*(maxBands-1) + point) * Passes
//
// The arena grows quadratically with the band count and is allocated once
// by [New]. Processing never allocates.
//
// Basic usage:
//
//	b, err := bank.New(16, 2, 48000)
//	b.Tune(0, 250)
//	lp := b.StageFor(0, stage.Lowpass)
//	lp.ApplyCascade(buf, b.StateSlotFor(0, 0, ch))
package bank
