package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"strconv"

	"github.com/ironsheep/spot-tools-mcp/internal/detection"
	"github.com/ironsheep/spot-tools-mcp/internal/features"
	"github.com/ironsheep/spot-tools-mcp/internal/imaging"
	"github.com/ironsheep/spot-tools-mcp/internal/neighborhood"
	"github.com/ironsheep/spot-tools-mcp/internal/spot"
)

// errInvalidArgs marks argument problems, reported as -32602 instead of a
// tool failure.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "spot_intensity").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return code -32602; tool execution errors return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.debug {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		if errors.Is(err, errInvalidArgs) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each spot handler:
//  1. Unmarshals arguments from JSON
//  2. Applies server configuration defaults for omitted values
//  3. Loads the plane or Z stack through the cache
//  4. Builds the spot neighborhood and runs the operation
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_crop":
		return s.handleImageCrop(args)

	case "spot_detect":
		return s.handleSpotDetect(args)

	case "spot_bounds":
		return s.handleSpotBounds(args)
	case "spot_pixels":
		return s.handleSpotPixels(args)

	case "spot_intensity":
		return s.handleSpotIntensity(args)
	case "spot_measure_batch":
		return s.handleSpotMeasureBatch(args)

	case "spot_crop":
		return s.handleSpotCrop(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// === Argument conversion ===

type imageArgs struct {
	Path        string    `json:"path"`
	Paths       []string  `json:"paths"`
	Calibration []float64 `json:"calibration"`
	Intensity   string    `json:"intensity"`
	Smooth      *float64  `json:"smooth"`
}

type roiVertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type spotArgs struct {
	ID      int         `json:"id"`
	X       *float64    `json:"x"`
	Y       *float64    `json:"y"`
	Z       *float64    `json:"z"`
	Radius  *float64    `json:"radius"`
	Quality *float64    `json:"quality"`
	Roi     []roiVertex `json:"roi"`
}

// loadOptions merges per-call image arguments over the configuration.
func (s *Server) loadOptions(a imageArgs) (imaging.LoadOptions, error) {
	cal := a.Calibration
	if len(cal) == 0 {
		cal = s.cfg.Image.Calibration
	}
	if len(cal) < 2 || len(cal) > 3 {
		return imaging.LoadOptions{}, fmt.Errorf("%w: calibration needs 2 or 3 entries, got %d", errInvalidArgs, len(cal))
	}
	for i, v := range cal {
		if v <= 0 {
			return imaging.LoadOptions{}, fmt.Errorf("%w: calibration[%d] must be positive, got %g", errInvalidArgs, i, v)
		}
	}

	modeName := a.Intensity
	if modeName == "" {
		modeName = s.cfg.Image.Intensity
	}
	mode, err := imaging.ParseIntensityMode(modeName)
	if err != nil {
		return imaging.LoadOptions{}, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}

	smooth := s.cfg.Image.SmoothRadius
	if a.Smooth != nil {
		smooth = *a.Smooth
	}
	if smooth < 0 {
		return imaging.LoadOptions{}, fmt.Errorf("%w: smooth must not be negative, got %g", errInvalidArgs, smooth)
	}

	return imaging.LoadOptions{Calibration: spot.Calibration(cal), Mode: mode, Smooth: smooth}, nil
}

// loadImage returns a Plane for path or a Stack for paths.
func (s *Server) loadImage(a imageArgs) (neighborhood.Image[float64], error) {
	opts, err := s.loadOptions(a)
	if err != nil {
		return nil, err
	}
	switch {
	case len(a.Paths) > 0:
		return imaging.LoadStack(s.cache, a.Paths, opts)
	case a.Path != "":
		return imaging.LoadPlane(s.cache, a.Path, opts)
	default:
		return nil, fmt.Errorf("%w: path or paths is required", errInvalidArgs)
	}
}

// toSpot builds an immutable spot record from its arguments.
func (s *Server) toSpot(a spotArgs) (*spot.Spot, error) {
	if a.X == nil || a.Y == nil {
		return nil, fmt.Errorf("%w: spot %d: x and y are required", errInvalidArgs, a.ID)
	}

	radius := s.cfg.Spots.DefaultRadius
	if a.Radius != nil {
		radius = *a.Radius
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: spot %d: radius must not be negative, got %g", errInvalidArgs, a.ID, radius)
	}

	f := map[string]float64{
		spot.PositionX: *a.X,
		spot.PositionY: *a.Y,
		spot.Radius:    radius,
	}
	if a.Z != nil {
		f[spot.PositionZ] = *a.Z
	}
	if a.Quality != nil {
		f[spot.Quality] = *a.Quality
	}

	var roi *spot.Roi
	if len(a.Roi) > 0 {
		xs := make([]float64, len(a.Roi))
		ys := make([]float64, len(a.Roi))
		for i, v := range a.Roi {
			xs[i], ys[i] = v.X, v.Y
		}
		var err error
		if roi, err = spot.NewRoi(xs, ys); err != nil {
			return nil, fmt.Errorf("%w: spot %d: %v", errInvalidArgs, a.ID, err)
		}
	}

	return spot.New(a.ID, f, roi), nil
}

type spotToolArgs struct {
	imageArgs
	spotArgs
}

// neighborhoodFor builds the spot neighborhood from decoded image and spot
// arguments.
func (s *Server) neighborhoodFor(a spotToolArgs) (*spot.Spot, *neighborhood.Neighborhood[float64], error) {
	sp, err := s.toSpot(a.spotArgs)
	if err != nil {
		return nil, nil, err
	}
	img, err := s.loadImage(a.imageArgs)
	if err != nil {
		return nil, nil, err
	}
	if err := checkExtent(sp, img); err != nil {
		return nil, nil, err
	}
	nb, err := neighborhood.New(sp, img)
	if err != nil {
		return nil, nil, fmt.Errorf("spot %d: %w", sp.ID(), err)
	}
	return sp, nb, nil
}

// imageExtent returns the longest side of img in pixels.
func imageExtent(img neighborhood.Image[float64]) int {
	switch im := img.(type) {
	case *imaging.Stack:
		return max(im.Width(), im.Height(), im.Depth())
	case *imaging.Plane:
		return max(im.Width(), im.Height())
	}
	return math.MaxInt32
}

// checkExtent rejects a spot whose radius or contour reaches further from
// its center, in pixels along any axis, than the longest side of img.
func checkExtent(sp *spot.Spot, img neighborhood.Image[float64]) error {
	limit := float64(imageExtent(img))
	cal := img.Calibration()
	n := min(img.NumDimensions(), len(cal))

	if radius, err := sp.Feature(spot.Radius); err == nil {
		for d := 0; d < n; d++ {
			// NaN and Inf fail the comparison too.
			if span := radius / cal[d]; !(span <= limit) {
				return fmt.Errorf("%w: spot %d: radius %g spans %g pixels on axis %d, larger than the image (%d pixels)",
					errInvalidArgs, sp.ID(), radius, span, d, int(limit))
			}
		}
	}

	if roi := sp.Roi(); roi != nil && len(cal) >= 2 {
		for i := 0; i < roi.NumVertices(); i++ {
			x, y := roi.Vertex(i)
			if !(math.Abs(x)/cal[0] <= limit) || !(math.Abs(y)/cal[1] <= limit) {
				return fmt.Errorf("%w: spot %d: roi vertex %d (%g, %g) lies outside the image extent (%d pixels)",
					errInvalidArgs, sp.ID(), i, x, y, int(limit))
			}
		}
	}
	return nil
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	if a.Scale < 0 {
		return nil, fmt.Errorf("%w: scale must not be negative, got %g", errInvalidArgs, a.Scale)
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, image.Rect(a.X1, a.Y1, a.X2, a.Y2), a.Scale)
}

// === Spot Detection Handlers ===

type spotDetectArgs struct {
	imageArgs
	Radius    *float64 `json:"radius"`
	Threshold float64  `json:"threshold"`
	MaxSpots  int      `json:"max_spots"`
}

// DetectedSpot is one detection in physical units.
type DetectedSpot struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Quality float64 `json:"quality"`
}

// SpotDetectResult lists detections brightest first.
type SpotDetectResult struct {
	Count int            `json:"count"`
	Spots []DetectedSpot `json:"spots"`
}

func (s *Server) handleSpotDetect(args json.RawMessage) (interface{}, error) {
	var a spotDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) > 0 {
		return nil, fmt.Errorf("%w: spot_detect works on a single plane; use path", errInvalidArgs)
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}

	opts := detection.Options{
		Radius:    s.cfg.Spots.DefaultRadius,
		Threshold: a.Threshold,
		MaxSpots:  a.MaxSpots,
	}
	if a.Radius != nil {
		opts.Radius = *a.Radius
	}
	if opts.Radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %g", errInvalidArgs, opts.Radius)
	}
	if opts.MaxSpots < 0 {
		return nil, fmt.Errorf("%w: max_spots must not be negative, got %d", errInvalidArgs, opts.MaxSpots)
	}

	loadOpts, err := s.loadOptions(a.imageArgs)
	if err != nil {
		return nil, err
	}
	plane, err := imaging.LoadPlane(s.cache, a.Path, loadOpts)
	if err != nil {
		return nil, err
	}

	spots, err := detection.DetectSpots(plane, opts)
	if err != nil {
		return nil, err
	}

	res := &SpotDetectResult{Count: len(spots), Spots: make([]DetectedSpot, len(spots))}
	for i, sp := range spots {
		f := sp.Features()
		res.Spots[i] = DetectedSpot{
			ID:      sp.ID(),
			X:       f[spot.PositionX],
			Y:       f[spot.PositionY],
			Radius:  f[spot.Radius],
			Quality: f[spot.Quality],
		}
	}
	if s.debug {
		log.Printf("spot_detect %s: %d spots", a.Path, len(spots))
	}
	return res, nil
}

// === Spot Geometry Handlers ===

// SpotBoundsResult describes the pixels a spot covers.
type SpotBoundsResult struct {
	SpotID int     `json:"spot_id"`
	Mode   string  `json:"mode"`
	Region string  `json:"region"`
	Min    []int64 `json:"min"`
	// Max is exclusive.
	Max   []int64 `json:"max"`
	Count int64   `json:"count"`
}

func (s *Server) handleSpotBounds(args json.RawMessage) (interface{}, error) {
	var a spotToolArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	sp, nb, err := s.neighborhoodFor(a)
	if err != nil {
		return nil, err
	}
	n := nb.NumDimensions()
	res := &SpotBoundsResult{
		SpotID: sp.ID(),
		Mode:   nb.Mode().String(),
		Region: nb.Region().Kind().String(),
		Min:    make([]int64, n),
		Max:    make([]int64, n),
		Count:  nb.Size(),
	}
	for d := 0; d < n; d++ {
		res.Min[d] = nb.Min(d)
		res.Max[d] = nb.Max(d)
	}
	return res, nil
}

type spotPixelsArgs struct {
	spotToolArgs
	MaxSamples int `json:"max_samples"`
}

// SpotPixelsResult lists member pixels in raster order.
type SpotPixelsResult struct {
	SpotID    int                            `json:"spot_id"`
	Mode      string                         `json:"mode"`
	Count     int                            `json:"count"`
	Truncated bool                           `json:"truncated"`
	Samples   []neighborhood.Sample[float64] `json:"samples"`
}

func (s *Server) handleSpotPixels(args json.RawMessage) (interface{}, error) {
	var a spotPixelsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	sp, nb, err := s.neighborhoodFor(a.spotToolArgs)
	if err != nil {
		return nil, err
	}
	limit := s.cfg.Output.MaxSamples
	if a.MaxSamples > 0 {
		limit = a.MaxSamples
	}

	res := &SpotPixelsResult{
		SpotID:  sp.ID(),
		Mode:    nb.Mode().String(),
		Samples: []neighborhood.Sample[float64]{},
	}
	for sample := range nb.Samples() {
		if len(res.Samples) == limit {
			res.Truncated = true
			break
		}
		res.Samples = append(res.Samples, sample)
	}
	res.Count = len(res.Samples)
	return res, nil
}

// === Spot Measurement Handlers ===

func (s *Server) handleSpotIntensity(args json.RawMessage) (interface{}, error) {
	var a spotToolArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	sp, nb, err := s.neighborhoodFor(a)
	if err != nil {
		return nil, err
	}
	st := features.MeasureNeighborhood(nb)
	st.SpotID = sp.ID()
	if roi := sp.Roi(); roi != nil {
		st.RoiArea = roi.Area()
	}
	return st, nil
}

type spotMeasureBatchArgs struct {
	imageArgs
	Spots []spotArgs `json:"spots"`
}

// SpotBatchResult holds one entry per requested spot, in request order.
type SpotBatchResult struct {
	Count   int                       `json:"count"`
	Results []features.IntensityStats `json:"results"`
}

func (s *Server) handleSpotMeasureBatch(args json.RawMessage) (interface{}, error) {
	var a spotMeasureBatchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Spots) == 0 {
		return nil, fmt.Errorf("%w: spots must not be empty", errInvalidArgs)
	}

	spots := make([]*spot.Spot, 0, len(a.Spots))
	for _, sa := range a.Spots {
		sp, err := s.toSpot(sa)
		if err != nil {
			return nil, err
		}
		spots = append(spots, sp)
	}

	img, err := s.loadImage(a.imageArgs)
	if err != nil {
		return nil, err
	}
	for _, sp := range spots {
		if err := checkExtent(sp, img); err != nil {
			return nil, err
		}
	}
	results, err := features.MeasureAll(spots, img)
	if err != nil {
		return nil, err
	}
	return &SpotBatchResult{Count: len(results), Results: results}, nil
}

// === Spot Preview Handlers ===

type spotCropArgs struct {
	spotToolArgs
	Padding *int    `json:"padding"`
	Scale   float64 `json:"scale"`
	Color   string  `json:"color"`
}

// SpotCropResult is a preview of the plane through the spot.
type SpotCropResult struct {
	SpotID int    `json:"spot_id"`
	Mode   string `json:"mode"`
	// Plane is the Z index shown for stacks.
	Plane int `json:"plane,omitempty"`
	*imaging.CropResult
}

func (s *Server) handleSpotCrop(args json.RawMessage) (interface{}, error) {
	var a spotCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	sp, nb, err := s.neighborhoodFor(a.spotToolArgs)
	if err != nil {
		return nil, err
	}

	path, plane, err := s.previewPlane(sp, nb, a.imageArgs)
	if err != nil {
		return nil, err
	}
	src, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	members := []image.Point{}
	c := nb.Cursor()
	for c.Next() {
		if nb.NumDimensions() == 3 && c.LongPosition(2) != int64(plane) {
			continue
		}
		members = append(members, image.Pt(int(c.LongPosition(0)), int(c.LongPosition(1))))
	}

	opts := imaging.OverlayOptions{
		Color:   s.cfg.Output.OverlayColor,
		Padding: s.cfg.Output.CropPadding,
		Scale:   s.cfg.Output.CropScale,
		Label:   strconv.Itoa(sp.ID()),
	}
	if a.Color != "" {
		opts.Color = a.Color
	}
	if a.Padding != nil {
		if *a.Padding < 0 {
			return nil, fmt.Errorf("%w: padding must not be negative", errInvalidArgs)
		}
		opts.Padding = *a.Padding
	}
	if a.Scale > 0 {
		opts.Scale = a.Scale
	}

	box := image.Rect(int(nb.Min(0)), int(nb.Min(1)), int(nb.Max(0)), int(nb.Max(1)))
	crop, err := imaging.MaskOverlay(src, box, members, opts)
	if err != nil {
		return nil, fmt.Errorf("spot %d: %w", sp.ID(), err)
	}
	return &SpotCropResult{
		SpotID:     sp.ID(),
		Mode:       nb.Mode().String(),
		Plane:      plane,
		CropResult: crop,
	}, nil
}

// previewPlane picks the file to render: the plane through the spot center,
// clamped to the stack, or the single 2-D image.
func (s *Server) previewPlane(sp *spot.Spot, nb *neighborhood.Neighborhood[float64], a imageArgs) (string, int, error) {
	if len(a.Paths) == 0 {
		return a.Path, 0, nil
	}
	z, err := sp.PixelCenter(2, nb.Image().Calibration())
	if err != nil {
		return "", 0, err
	}
	if z < 0 {
		z = 0
	}
	if last := int64(len(a.Paths) - 1); z > last {
		z = last
	}
	return a.Paths[z], int(z), nil
}
