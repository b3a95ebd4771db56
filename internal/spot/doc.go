// Package spot holds the read-only data model consumed by the neighborhood
// and features packages: detected spots, their optional polygon ROI, and the
// per-axis spatial calibration of the image they were detected in.
//
// # Coordinate System
//
// Spot positions, radii and ROI offsets are expressed in physical units
// (for example µm). A Calibration converts them to pixel coordinates by
// dividing by the physical size of one pixel along each axis. Pixel centers
// sit on integer coordinates, so the pixel containing a physical position p
// along axis d is Round(p / calibration[d]).
//
// # Ownership
//
// Spots are produced by an external detection or tracking pipeline. This
// package only copies what it is given and never mutates a Spot afterwards,
// so a Spot may be shared freely between goroutines.
package spot
