// Package vp provides an index.Index backed by a vantage-point tree. It
// persists using the brute-force binary format so either implementation can
// load the other's blobs.
package vp
