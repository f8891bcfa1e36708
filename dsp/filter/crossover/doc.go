// Package crossover implements an N-way crossover network that splits one
// multi-channel signal into up to [MaxBands] frequency bands.
//
// The host hands [Network.Process] a single buffer holding at least
// max(inputs, outputs) channels. Channels [0, inputs) carry the input; after
// processing, band b occupies channels [b*inputs, (b+1)*inputs). Splitting
// happens in place.
//
// Three filter families are available:
//
//   - [LinkwitzRiley4] is a true fourth-order crossover. At every point the
//     band below receives LP², the bands above HP² and the bands already
//     split off receive the matching allpass, so every band carries the
//     same phase. The bands sum to the cascade of all point allpasses
//     (see [Network.ReferenceAllpass]).
//   - [LinkwitzRiley4Subtractive] lowpasses each band twice and hands the
//     remainder (input minus lowpass) to the band above.
//   - [Butterworth2Subtractive] does the same with a single lowpass pass.
//
// Subtractive bands sum back to the input exactly.
//
// A change of effective band count or family is a reconfiguration: the
// block is muted, all filter state is cleared and every point is redesigned.
// A block whose output is not finite is also muted and clears the state.
//
// Example:
//
//	net, _ := crossover.New(48000)
//	s := crossover.DefaultSettings()
//	layout := crossover.Layout{Inputs: 2, Outputs: 6}
//	net.Process(buf, layout, frames, &s)
package crossover
