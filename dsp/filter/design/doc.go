// Package design provides biquad coefficient designers for the crossover
// network.
//
// The functions follow the RBJ Audio-EQ cookbook and return coefficients
// consumable by dsp/filter/biquad. With [ButterworthQ], a [Lowpass] and
// [Highpass] pair at the same frequency forms a Linkwitz-Riley crossover
// when each is applied twice, and the pair sums to [Allpass].
package design
