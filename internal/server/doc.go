// Package server implements the MCP (Model Context Protocol) server for spot
// measurement tools.
//
// This package provides a JSON-RPC 2.0 server that exposes spot pixel
// enumeration through the MCP protocol. A client describes a detected spot
// (center, radius, optional polygon contour) and an image, and the server
// reports which pixels the spot covers and what they measure.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Load image and get metadata
//   - image_crop: Crop a rectangle to a base64 PNG
//
// Spot Detection:
//   - spot_detect: Local intensity maxima as spots in physical units
//
// Spot Geometry:
//   - spot_bounds: Mode, bounding box and member count
//   - spot_pixels: Member pixels with intensities, raster order
//
// Spot Measurement:
//   - spot_intensity: Intensity statistics for one spot
//   - spot_measure_batch: Statistics for many spots on one image
//
// Spot Preview:
//   - spot_crop: PNG of the spot with its mask and bounding box
//
// # Images and Calibration
//
// Spot tools take either path (a 2-D image) or paths (a Z stack, one file
// per plane). Positions, radii and contours are in physical units and are
// converted with the calibration argument, or the configured default.
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32602 (invalid arguments), -32000 (tool execution failure),
//     -32601 (unknown method) or -32700 (unparseable request)
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
