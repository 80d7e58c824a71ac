package api

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/openfuid/fuid-registry/pkg/catalog"
	"github.com/openfuid/fuid-registry/pkg/fuid"
	"github.com/openfuid/fuid-registry/pkg/kit"
)

// RegisterMCPTools registers the registry MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, store *catalog.Store) {
	registerSearchCatalog(srv, store)
	registerGenerateFUID(srv, store)
	registerCatalogStats(srv, store)
}

func registerSearchCatalog(srv *server.MCPServer, store *catalog.Store) {
	tool := mcp.NewTool("search_catalog",
		mcp.WithDescription("Search the FUID catalog: exact identifier lookup, company/product drill-down, or fuzzy free-text matching with closest-match fallback."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The query: a FUID identifier, a company name, or a product name")),
		mcp.WithString("mode", mcp.Description("Drill-down mode: 'company' or 'product' (requires selected_term)")),
		mcp.WithString("selected_term", mcp.Description("The pre-selected company or product name for drill-down")),
		mcp.WithString("platform", mcp.Description("Platform filter (e.g. AWS, Azure); 'All' or empty disables it")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 100)")),
	)

	kit.RegisterMCPTool(srv, tool, func(_ context.Context, request any) (any, error) {
		req := request.(*searchReq)
		return searchResponse{Results: fuid.Search(req.Query, store.Snapshot(), req.Opts)}, nil
	}, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		query, _ := args["query"].(string)
		opts := fuid.Options{}
		if v, _ := args["mode"].(string); v != "" {
			opts.Mode = fuid.Mode(v)
		}
		if v, _ := args["selected_term"].(string); v != "" {
			opts.SelectedTerm = v
		}
		if v, _ := args["platform"].(string); v != "" {
			opts.Platform = v
		}
		if v, ok := args["limit"].(float64); ok {
			opts.Limit = int(v)
		}
		return &kit.MCPDecodeResult{Request: &searchReq{Query: query, Opts: opts}}, nil
	})
}

func registerGenerateFUID(srv *server.MCPServer, store *catalog.Store) {
	tool := mcp.NewTool("generate_fuid",
		mcp.WithDescription("Register a company/product/version triple and return its FUID, reusing existing company and product codes."),
		mcp.WithString("company", mcp.Required(), mcp.Description("Company display name")),
		mcp.WithString("product", mcp.Required(), mcp.Description("Product display name")),
		mcp.WithString("version", mcp.Description("Version string; empty means no version (NA)")),
		mcp.WithString("url", mcp.Description("Product listing URL")),
		mcp.WithString("platform", mcp.Description("Platform (e.g. AWS, Azure)")),
		mcp.WithString("categories", mcp.Description("Comma-separated categories")),
	)

	kit.RegisterMCPTool(srv, tool, func(_ context.Context, request any) (any, error) {
		req := request.(*catalog.RegisterRequest)
		return store.Register(*req)
	}, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		r := &catalog.RegisterRequest{}
		r.Company, _ = args["company"].(string)
		r.Product, _ = args["product"].(string)
		r.Version, _ = args["version"].(string)
		r.URL, _ = args["url"].(string)
		r.Platform, _ = args["platform"].(string)
		r.Categories, _ = args["categories"].(string)
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}

func registerCatalogStats(srv *server.MCPServer, store *catalog.Store) {
	tool := mcp.NewTool("catalog_stats",
		mcp.WithDescription("Report catalog totals: FUID count and unique companies, products, and versions."),
	)

	kit.RegisterMCPTool(srv, tool, func(_ context.Context, _ any) (any, error) {
		return store.Stats(), nil
	}, func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}
