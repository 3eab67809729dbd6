package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/catime/pkg/gallery"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerSearchCatsTool(srv, svc)
	registerGetCatTool(srv, svc)
	registerRandomCatTool(srv, svc)
	registerListMonthsTool(srv, svc)
	registerGetCharacterTool(srv, svc)
	registerCatalogSummaryTool(srv, svc)
}

func filterOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("query",
			mcp.Description("Case-insensitive match against the cat number and title."),
		),
		mcp.WithString("model",
			mcp.Description("Exact image model name."),
		),
		mcp.WithString("character",
			mcp.Description("Exact character display name."),
		),
		mcp.WithString("inspiration",
			mcp.Description("Inspiration kind."),
			mcp.Enum(string(gallery.InspirationAll), string(gallery.InspirationOriginal), string(gallery.InspirationNews)),
		),
		mcp.WithString("date",
			mcp.Description("Day prefix of the timestamp, YYYY-MM-DD."),
		),
	}
}

func filterFromRequest(request mcp.CallToolRequest) (gallery.Filter, error) {
	insp, err := gallery.ParseInspiration(request.GetString("inspiration", ""))
	if err != nil {
		return gallery.Filter{}, err
	}
	return gallery.Filter{
		Query:       strings.TrimSpace(request.GetString("query", "")),
		Model:       strings.TrimSpace(request.GetString("model", "")),
		Character:   strings.TrimSpace(request.GetString("character", "")),
		Inspiration: insp,
		Date:        strings.TrimSpace(request.GetString("date", "")),
	}, nil
}

func registerSearchCatsTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Search the cat gallery. Results are newest first."),
	}, filterOptions()...)
	opts = append(opts, mcp.WithNumber("limit",
		mcp.Description("Maximum number of cats to return (default 20)."),
		mcp.Min(1),
		mcp.Max(100),
	))
	tool := mcp.NewTool("search_cats", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f, err := filterFromRequest(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.SearchCats(ctx, SearchOptions{Filter: f, Limit: request.GetInt("limit", 20)})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerGetCatTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_cat",
		mcp.WithDescription("Fetch one cat with its prompt, story and idea."),
		mcp.WithNumber("number",
			mcp.Required(),
			mcp.Description("Cat number."),
			mcp.Min(1),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		number := request.GetInt("number", 0)
		if number <= 0 {
			return mcp.NewToolResultError("number is required"), nil
		}
		dto, err := svc.Cat(ctx, number)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRandomCatTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Pick a random cat matching the filters, or any cat when nothing matches."),
	}, filterOptions()...)
	tool := mcp.NewTool("random_cat", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f, err := filterFromRequest(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.RandomCat(ctx, f)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListMonthsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_months",
		mcp.WithDescription("List the months that have cats with their counts, newest first."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		months, err := svc.Months(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"months": months,
			"count":  len(months),
		})
	})
}

func registerGetCharacterTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_character",
		mcp.WithDescription("Fetch a recurring character profile and the cats it appears in."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Character identifier, as found in a cat's character field."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		page, err := svc.Character(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(page)
	})
}

func registerCatalogSummaryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"catalog_summary",
		mcp.WithDescription("Count the cats and list the available models, characters and months."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := svc.Summary(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(summary)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
