// Package params holds the host-automatable parameters of the band
// splitter.
//
// Every value is a lock-free atomic so a UI or host thread can write while
// the audio thread takes a [Surface.Snapshot] once per block. Reads of
// different parameters within one snapshot are not transactional.
//
// Parameters have a plain and a normalized (0..1) view. Integer and choice
// parameters normalize linearly over their index range, split frequencies
// linearly over [crossover.MinFrequency, crossover.MaxFrequency].
package params
