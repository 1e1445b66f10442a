package models

import "context"

// ProviderInfo contains static information about a catalog gateway.
type ProviderInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Gateway defines the contract every remote catalog connector must implement.
// All calls fail with a *GatewayError instead of returning partial data.
type Gateway interface {
	GetInfo() ProviderInfo
	FetchAll(ctx context.Context, page int) (MangaPage, error)
	FetchCurated(ctx context.Context) (MangaPage, error)
	Search(ctx context.Context, filter SearchFilter, page int) (MangaPage, error)
}
