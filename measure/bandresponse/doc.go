// Package bandresponse measures what a crossover network does to an
// impulse: the response of every band, their FFT magnitudes and how far
// the band sum strays from the network's reference allpass.
//
// Example:
//
//	s := crossover.DefaultSettings()
//	res, err := bandresponse.Analyze(s, 48000, 8192, []float64{100, 1000, 10000})
//	fmt.Println(res.Flatness.MaxDeviation)
package bandresponse
