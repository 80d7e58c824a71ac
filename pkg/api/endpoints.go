package api

import (
	"context"
	"fmt"

	"github.com/openfuid/fuid-registry/pkg/catalog"
	"github.com/openfuid/fuid-registry/pkg/fuid"
	"github.com/openfuid/fuid-registry/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

type searchReq struct {
	Query string
	Opts  fuid.Options
}

type searchResponse struct {
	Results []fuid.Match `json:"results"`
}

type dataResponse struct {
	FUIDMappings *fuid.Catalog `json:"fuid_mappings"`
	Stats        catalog.Stats `json:"stats"`
}

// Endpoints returns the core kit.Endpoints backed by the store.

func searchEndpoint(store *catalog.Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*searchReq)
		if req.Query == "" {
			return nil, fmt.Errorf("query is required")
		}
		results := fuid.Search(req.Query, store.Snapshot(), req.Opts)
		return searchResponse{Results: results}, nil
	}
}

func registerEndpoint(store *catalog.Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*catalog.RegisterRequest)
		return store.Register(*req)
	}
}

func dataEndpoint(store *catalog.Store) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return dataResponse{FUIDMappings: store.Snapshot(), Stats: store.Stats()}, nil
	}
}

func statsEndpoint(store *catalog.Store) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return store.Stats(), nil
	}
}
