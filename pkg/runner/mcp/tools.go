package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const asOfHelp = "Optional instant: unix ms, RFC3339, YYYY-MM-DD or a window like 3d. Empty means live."

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListFilesTool(srv, svc)
	registerReadFileTool(srv, svc)
	registerActivityTool(srv, svc)
	registerCompositionTool(srv, svc)
	registerLayoutTool(srv, svc)
	registerHistoryTool(srv, svc)
	registerSaveFileTool(srv, svc)
}

func registerListFilesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_files",
		mcp.WithDescription("List the tracked files, optionally as they were at a past instant."),
		mcp.WithString("as_of",
			mcp.Description(asOfHelp),
		),
		mcp.WithString("query",
			mcp.Description("Optional case-insensitive path substring filter."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Manifest(ctx, request.GetString("as_of", ""), request.GetString("query", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerReadFileTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"read_file",
		mcp.WithDescription("Read a tracked file, optionally as it was at a past instant."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Slash separated path relative to the tracked root."),
		),
		mcp.WithString("as_of",
			mcp.Description(asOfHelp),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Read(ctx, path, request.GetString("as_of", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerActivityTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"activity",
		mcp.WithDescription("Summarize when the tracked tree changed, bucketed over time."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Activity(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCompositionTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"composition",
		mcp.WithDescription("Language mix of the tracked files."),
		mcp.WithString("as_of",
			mcp.Description(asOfHelp),
		),
		mcp.WithString("metric",
			mcp.Description("Weight shares by bytes or lines."),
			mcp.Enum("bytes", "lines"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Composition(ctx, request.GetString("as_of", ""), request.GetString("metric", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerLayoutTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"layout",
		mcp.WithDescription("Compute the canvas rectangles for every file and folder."),
		mcp.WithString("as_of",
			mcp.Description(asOfHelp),
		),
		mcp.WithString("mode",
			mcp.Description("Layout algorithm."),
			mcp.Enum("hierarchical", "treemap-flat", "treemap-folders"),
		),
		mcp.WithString("metric",
			mcp.Description("Size measure for treemap tiles."),
			mcp.Enum("bytes", "lines"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			AsOf   string `json:"as_of"`
			Mode   string `json:"mode"`
			Metric string `json:"metric"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.Layout(ctx, args.AsOf, args.Mode, args.Metric)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerHistoryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"file_history",
		mcp.WithDescription("List the recorded revisions of a file."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Slash separated path relative to the tracked root."),
		),
	)

	srv.AddTool(tool, func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.History(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSaveFileTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"save_file",
		mcp.WithDescription("Write new content for a tracked file."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Slash separated path relative to the tracked root."),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Full replacement content."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := request.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.Save(ctx, path, content); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"path": path, "saved": true})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
