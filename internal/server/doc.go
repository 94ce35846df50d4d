// Package server implements an MCP (Model Context Protocol) server for the
// oven indicator detector.
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
//   - image_load: Load an image and report its metadata
//   - oven_status: Classify the indicator as ON or OFF
//   - oven_stage_preview: Return one intermediate pipeline image as PNG
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server process,
// so repeated calls on the same photo avoid redundant disk I/O.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// A load failure is always reported as an error, never as an OFF result.
//
// # Usage
//
//	p, _ := pipeline.New(config.Default())
//	srv := server.New(p, slog.Default(), "1.0.0")
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
