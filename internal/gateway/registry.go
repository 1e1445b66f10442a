// Package gateway keeps the catalog gateways available to the application,
// keyed by provider id, so configuration can pick one by name.
package gateway

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vrsandeep/koma-go/internal/models"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]models.Gateway)
)

// Register adds a new gateway to the registry. It's called at startup.
func Register(g models.Gateway) {
	mu.Lock()
	defer mu.Unlock()
	info := g.GetInfo()
	if _, exists := registry[info.ID]; exists {
		// Panic is appropriate here as it's a developer error during setup.
		panic(fmt.Sprintf("gateway with ID '%s' is already registered", info.ID))
	}
	registry[info.ID] = g
}

// Get returns a gateway by its ID.
func Get(id string) (models.Gateway, bool) {
	mu.RLock()
	defer mu.RUnlock()
	g, ok := registry[id]
	return g, ok
}

// GetAll returns information for all registered gateways, sorted by id.
func GetAll() []models.ProviderInfo {
	mu.RLock()
	defer mu.RUnlock()
	infos := make([]models.ProviderInfo, 0, len(registry))
	for _, g := range registry {
		infos = append(infos, g.GetInfo())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// UnregisterAll clears the registry. Tests use it between runs.
func UnregisterAll() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]models.Gateway)
}
