// Package server implements the MCP (Model Context Protocol) server for image slicing.
//
// This package provides a JSON-RPC 2.0 server that exposes the slicer through
// the MCP protocol, so an MCP client can plan, preview and run the tiling of
// a training image one call at a time.
//
// # Protocol
//
// Requests arrive one per line on stdin and each reply is one line on
// stdout. The server answers initialize, ping, tools/list and tools/call;
// notifications/initialized is accepted silently.
//
// # Available Tools
//
//   - image_dimensions: Width, height, format and file size
//   - slice_auto_params: Orientation, resolution bucket and automatic tile size
//   - slice_plan: Tile rectangles for an image
//   - slice_image: Cut tiles, reproject annotations, optionally write files
//   - slice_overlay: Tile plan and annotation boxes drawn over the image
//
// Tiling arguments that a call leaves out come from the configuration the
// server was created with.
//
// # Image Caching
//
// Decoded source images are cached by path and reused across tool calls, so
// planning, previewing and slicing the same image decodes it once. The
// cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Error codes:
//   - -32700: the line is not JSON (reply carries a null id)
//   - -32601: unknown method
//   - -32602: tools/call params do not decode
//   - -32000: the tool failed; data holds the Go error string
//
// Export failures of individual tiles are not tool errors: slice_image
// returns the tiles it produced and reports the joined failures in
// export_error.
//
// # Usage
//
//	srv := server.New(config.Default())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
