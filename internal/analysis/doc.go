// Package analysis inspects recorded run series.
//
//   - [DominantFrequency]: wobble frequency of a body after release
//   - [PowerSpectrum]: magnitude spectrum via FFT
//   - [SettlingTime]: time until a series stays near its final value
//   - [Summarize]: all of the above plus range, mean and deviation
//
// A jelly dropped on the floor oscillates in height; the frequency of that
// oscillation stiffens as edge compliance drops:
//
//	h, _ := result.Series("height")
//	f, ok := analysis.DominantFrequency(h, dt)
package analysis
