package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"

	"github.com/ironsheep/ovenstate/internal/detection"
	"github.com/ironsheep/ovenstate/internal/imaging"
	"github.com/ironsheep/ovenstate/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "oven_status").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("server: tool failed", "tool", params.Name, "error", err)
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "oven_status":
		return s.handleOvenStatus(args)
	case "oven_stage_preview":
		return s.handleOvenStagePreview(args)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type regionArg struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// pipelineFor returns the server pipeline, or a copy restricted to roi.
func (s *Server) pipelineFor(roi *regionArg) (*pipeline.Pipeline, error) {
	if roi == nil {
		return s.pipeline, nil
	}
	cfg := s.pipeline.Config()
	cfg.ROI = &imaging.Region{X1: roi.X1, Y1: roi.Y1, X2: roi.X2, Y2: roi.Y2}
	return pipeline.New(cfg, pipeline.WithLogger(s.logger))
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Indicator Detection ===

type ovenStatusArgs struct {
	Path      string     `json:"path"`
	OutputDir string     `json:"output_dir"`
	ROI       *regionArg `json:"roi"`
}

// OvenStatusResult is the oven_status tool result.
type OvenStatusResult struct {
	State       pipeline.State    `json:"state"`
	Message     string            `json:"message"`
	CircleCount int               `json:"circle_count"`
	Circles     detection.Circles `json:"circles"`
	Backend     string            `json:"backend"`
	OutputDir   string            `json:"output_dir,omitempty"`
}

func (s *Server) handleOvenStatus(args json.RawMessage) (interface{}, error) {
	var a ovenStatusArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := s.pipelineFor(a.ROI)
	if err != nil {
		return nil, err
	}
	src, err := s.cache.LoadRGB(a.Path)
	if err != nil {
		return nil, err
	}

	var obs pipeline.Observer
	if a.OutputDir != "" {
		sink, err := pipeline.NewDirSink(a.OutputDir)
		if err != nil {
			return nil, err
		}
		obs = sink
	}

	res, err := p.Run(src, obs)
	if err != nil {
		return nil, err
	}

	circles := res.Circles
	if circles == nil {
		circles = detection.Circles{}
	}
	return &OvenStatusResult{
		State:       res.State,
		Message:     res.Message,
		CircleCount: len(res.Circles),
		Circles:     circles,
		Backend:     detection.Backend,
		OutputDir:   a.OutputDir,
	}, nil
}

type ovenStagePreviewArgs struct {
	Path  string     `json:"path"`
	Stage string     `json:"stage"`
	ROI   *regionArg `json:"roi"`
}

// StagePreviewResult contains one intermediate image encoded as base64 PNG.
type StagePreviewResult struct {
	Stage       string         `json:"stage"`
	State       pipeline.State `json:"state"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	ImageBase64 string         `json:"image_base64"`
	MimeType    string         `json:"mime_type"`
}

func (s *Server) handleOvenStagePreview(args json.RawMessage) (interface{}, error) {
	var a ovenStagePreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	stage, err := pipeline.ParseStage(a.Stage)
	if err != nil {
		return nil, err
	}
	p, err := s.pipelineFor(a.ROI)
	if err != nil {
		return nil, err
	}
	src, err := s.cache.LoadRGB(a.Path)
	if err != nil {
		return nil, err
	}

	sink := pipeline.NewMemorySink()
	res, err := p.Run(src, sink)
	if err != nil {
		return nil, err
	}

	img, ok := sink.Image(stage)
	if !ok {
		return nil, fmt.Errorf("stage %s was not produced: %s", stage, res.Message)
	}
	return encodePreview(stage, res.State, img)
}

func encodePreview(stage pipeline.Stage, state pipeline.State, img image.Image) (*StagePreviewResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode stage image: %w", err)
	}
	return &StagePreviewResult{
		Stage:       string(stage),
		State:       state,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
