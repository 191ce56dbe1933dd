package listcheck

import "go.uber.org/zap"

type clientConfig struct {
	catalogPath string
	entries     []CatalogEntry
	topK        int
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(*clientConfig)

// WithCatalogPath loads the catalog from a CSV file.
func WithCatalogPath(path string) Option {
	return func(c *clientConfig) { c.catalogPath = path }
}

// WithCatalog supplies the catalog directly. WithCatalogPath takes
// precedence when both are set.
func WithCatalog(entries []CatalogEntry) Option {
	return func(c *clientConfig) { c.entries = entries }
}

// WithTopK overrides the neighbour set size used by the engine.
func WithTopK(k int) Option {
	return func(c *clientConfig) { c.topK = k }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}
