package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerManifestResource(srv, svc)
	registerActivityResource(srv, svc)
	registerCompositionTemplate(srv, svc)
}

func registerManifestResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"codecanvas://manifest",
		"Manifest",
		mcp.WithResourceDescription("Every tracked file with its size, line count and language."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.Manifest(ctx, "", "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerActivityResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"codecanvas://activity",
		"Activity",
		mcp.WithResourceDescription("Change activity histogram of the tracked tree."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.Activity(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerCompositionTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"codecanvas://composition/{metric}",
		"Language Composition",
		mcp.WithTemplateDescription("Language shares weighted by bytes or lines."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		metric := argument(request.Params.Arguments, "metric")
		if metric == "" {
			return nil, fmt.Errorf("metric is required")
		}
		dto, err := svc.Composition(ctx, "", metric)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

// argument reads a template variable, which arrives either as a string or
// as a single-element list.
func argument(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
