// Package camera holds the fixed pixel geometry of the 1440 pixel camera.
//
// Pixel data is addressed two ways:
//
//	CHID    hardware channel id, crate*360 + board*36 + patch*9 + pixel
//	softID  software id, the order in which per-pixel arrays are stored on disk
//
// A [Map] is the permutation between the two. Every per-pixel array handed out by
// this module is in CHID order, so index i always refers to hardware channel i:
//
//	out := make([]float64, camera.NumPixels)
//	camera.ToCHID(camera.Default(), out, storedInSoftOrder)
//
// Row-major event buffers of shape (n, 1440) are permuted in place with [ToCHIDRows].
//
// The built-in [Default] map is computed once per process and never modified.
// Installations with a measured pixel map load it with [LoadPixelMap].
package camera
