package service

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"

	taxdomain "github.com/bizsuite/taxkit/internal/tax/domain"
)

const defaultCatalogTTL = 30 * time.Second

// CatalogCache stores the per-org tax catalog for the quote hot path.
// Entries expire quickly; management writes invalidate eagerly as well.
type CatalogCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[snowflake.ID]catalogEntry
}

type catalogEntry struct {
	defs      []taxdomain.TaxDefinition
	expiresAt time.Time
}

// NewCatalogCache returns a catalog cache with the default TTL.
func NewCatalogCache() *CatalogCache {
	return &CatalogCache{
		ttl:     defaultCatalogTTL,
		entries: make(map[snowflake.ID]catalogEntry),
	}
}

func (c *CatalogCache) Get(orgID snowflake.ID) ([]taxdomain.TaxDefinition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[orgID]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.entries, orgID)
		return nil, false
	}
	return entry.defs, true
}

func (c *CatalogCache) Set(orgID snowflake.ID, defs []taxdomain.TaxDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[orgID] = catalogEntry{
		defs:      defs,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *CatalogCache) Invalidate(orgID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, orgID)
}
