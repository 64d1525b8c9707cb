// Package keypoint maps live GPS coordinates onto a static raster map.
// Surveyed routes mix key points, whose pixel position is authoritative, with
// map points whose pixel position is linearly interpolated between the
// surrounding key points. A Locator indexes the resolved points in a
// vantage-point tree and answers "which pixel is closest to this fix".
package keypoint
