// Package server implements the MCP (Model Context Protocol) server for icon mosaics.
//
// This package provides a JSON-RPC 2.0 server that exposes the mosaic engine
// through the MCP protocol, so MCP-compatible clients can load an icon
// library, preview chunk grids and generate mosaics from images on disk.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//   - notifications/cancelled: Abort an in-flight tools/call
//
// # Available Tools
//
// Asset Library:
//   - mosaic_load_assets: Load an icon directory as the library
//   - mosaic_list_assets: List loaded icons and their average colors
//
// Mosaic Operations:
//   - mosaic_generate: Build a mosaic from an image
//   - mosaic_preview_grid: Draw chunk boundaries over an image
//
// Analysis Helpers:
//   - mosaic_image_info: Dimensions and format of an image
//   - mosaic_compare: Pixel comparison of two images
//
// # Progress and Cancellation
//
// tools/call requests run on their own goroutines while the server keeps
// reading stdin. A request whose params carry _meta.progressToken receives
// notifications/progress (progress 0-100, total 100) at most once per whole
// percent. A notifications/cancelled naming the request id stops the mosaic
// run at the next chunk boundary and suppresses the response.
//
// # Image Caching
//
// Decoded inputs and library icons are cached by path for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(version)
//	if _, err := srv.LoadLibrary(ctx, "/path/to/icons"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
