// Package detection finds candidate spots in a 2-D intensity plane.
//
// The detector is simple: a pixel becomes a candidate when it reaches the
// threshold and is at least as bright as its eight neighbors. Candidates
// closer than one radius to a brighter spot are dropped. Smooth the image first (imaging.Smooth) to suppress noise peaks.
//
// # Coordinate System
//
// Plane coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Detected spots are returned in physical units, ready to be passed to the
// neighborhood package: POSITION_X = x * calibration[0] and likewise for Y.
//
// # Quality
//
// Each spot carries the peak intensity as its QUALITY feature, and spots are
// ordered by quality, brightest first. Spot IDs follow that order.
package detection
