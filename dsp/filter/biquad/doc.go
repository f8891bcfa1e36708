// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// [Coefficients] describe one Direct Form II Transposed section and a
// [State] holds the two delay registers of one signal path. Keeping the
// state separate from the coefficients lets one coefficient set drive many
// independent signal paths, which is how the crossover network shares a
// tuned filter between bands and channels.
//
// [Section] bundles coefficients with their own state and [Chain] cascades
// sections for higher-order reference responses.
//
// Block processing is dispatched to the fastest registered kernel for the
// running CPU. Coefficient design lives in dsp/filter/design.
package biquad
