package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/haldane/eegx/internal/forms"
	"github.com/haldane/eegx/internal/shared"
)

// SchemaCatalog fetches and memoizes per-section field schemas.
//
// Schemas are treated as immutable for the process lifetime, so each distinct
// section endpoint costs one network call. Callers must treat a fetch failure
// as "do not render this section yet", never as an empty schema.
type SchemaCatalog struct {
	api    *APIClient
	logger *log.Logger

	mu    sync.Mutex
	cache map[string]*forms.Schema
}

// NewSchemaCatalog creates a catalog backed by the given API client.
func NewSchemaCatalog(api *APIClient, logger *log.Logger) *SchemaCatalog {
	return &SchemaCatalog{
		api:    api,
		logger: logger,
		cache:  make(map[string]*forms.Schema),
	}
}

// Fetch returns the schema for a section endpoint name (e.g. "filter").
func (c *SchemaCatalog) Fetch(ctx context.Context, endpoint string) (*forms.Schema, error) {
	c.mu.Lock()
	if schema, ok := c.cache[endpoint]; ok {
		c.mu.Unlock()
		return schema, nil
	}
	c.mu.Unlock()

	resp, err := c.api.Get(ctx, "/schemas/"+endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrSchemaUnavailable, endpoint, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s returned %d", shared.ErrSchemaUnavailable, endpoint, resp.StatusCode)
	}

	schema, err := forms.ParseSchema(endpoint, resp.Body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[endpoint] = schema
	c.mu.Unlock()

	c.logger.Debug("fetched schema", "section", endpoint, "fields", len(schema.Fields))
	return schema, nil
}
