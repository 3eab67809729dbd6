package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/catime/pkg/catalog"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerCatalogResource(srv, svc)
	registerMonthsResource(srv, svc)
	registerCatTemplate(srv, svc)
	registerCharacterTemplate(srv, svc)
}

func registerCatalogResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"catime://catalog",
		"Catalog",
		mcp.WithResourceDescription("Number of cats, the newest cat and the available filter values."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summary, err := svc.Summary(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, summary)
	})
}

func registerMonthsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"catime://months",
		"Months",
		mcp.WithResourceDescription("Months that have cats, newest first, with counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		months, err := svc.Months(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"months": months,
			"count":  len(months),
		})
	})
}

func registerCatTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"catime://cats/{number}",
		"Cat",
		mcp.WithTemplateDescription("One cat with its detail record."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		number, err := catalog.ParseNumber(templateArg(request.Params.Arguments, "number"))
		if err != nil {
			return nil, err
		}
		dto, err := svc.Cat(ctx, number)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"cat": dto})
	})
}

func registerCharacterTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"catime://characters/{id}",
		"Character",
		mcp.WithTemplateDescription("A recurring character profile and its gallery."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request.Params.Arguments, "id")
		if id == "" {
			return nil, fmt.Errorf("character id is required")
		}
		page, err := svc.Character(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, page)
	})
}

// templateArg reads a URI template variable, which the server may pass as a
// string or a list of strings.
func templateArg(args map[string]any, name string) string {
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
