package fieldsync

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/contentflowhq/lead-pipeline/internal/highlevel"
	"github.com/contentflowhq/lead-pipeline/pkg/logging"
)

const defaultTTL = time.Hour

// FieldSpec describes one custom field this system requires to exist
// remotely.
type FieldSpec struct {
	Key      string // canonical catalog key, e.g. "content_goals"
	Name     string // display name to create remotely, e.g. "Content Goals"
	DataType string // remote data type, e.g. "TEXT"
}

// RemoteField is a resolved remote custom field.
type RemoteField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DataType string `json:"dataType,omitempty"`
}

// ResolvedCatalog maps canonical field keys to resolved remote fields.
// Lookups must use canonical keys (see KeyFor); entries may be missing when
// a remote create failed, and callers skip those fields rather than abort.
type ResolvedCatalog map[string]RemoteField

// SchemaClient is the slice of the CRM client the resolver needs.
type SchemaClient interface {
	LocationID() string
	ListCustomFields(ctx context.Context) ([]highlevel.CustomField, error)
	CreateCustomField(ctx context.Context, req highlevel.CreateCustomFieldRequest) (highlevel.CustomField, error)
}

// Resolver reconciles the required field catalog against the CRM's current
// custom fields: fetch, diff by folded name, create what's missing, cache
// the result.
//
// Concurrent cold-cache refreshes for the same location collapse into one
// fetch+reconcile via singleflight; duplicate creates racing from other
// instances surface as conflict errors and are ignored.
type Resolver struct {
	client SchemaClient
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *logging.Logger
}

// NewResolver creates a resolver with the given cache and TTL. A zero ttl
// gets the one hour default.
func NewResolver(client SchemaClient, cache Cache, ttl time.Duration, logger *logging.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Resolve returns the catalog mapping for the required specs, refreshing the
// cache when needed. Partial failure is not fatal: fields whose creation
// failed are absent from the result and the caller skips them.
func (r *Resolver) Resolve(ctx context.Context, specs []FieldSpec) (ResolvedCatalog, error) {
	cacheKey := r.client.LocationID()

	if catalog, ok, err := r.cache.Get(ctx, cacheKey); err != nil {
		r.logger.Warn("field catalog cache read failed", "error", err)
	} else if ok {
		return catalog, nil
	}

	result, err, _ := r.group.Do(cacheKey, func() (any, error) {
		return r.refresh(ctx, cacheKey, specs)
	})
	if err != nil {
		return nil, err
	}
	return result.(ResolvedCatalog), nil
}

func (r *Resolver) refresh(ctx context.Context, cacheKey string, specs []FieldSpec) (ResolvedCatalog, error) {
	remote, err := r.client.ListCustomFields(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make(ResolvedCatalog, len(specs))
	byKey := indexRemoteFields(remote)

	var missing []FieldSpec
	for _, spec := range specs {
		if field, ok := byKey[spec.Key]; ok {
			catalog[spec.Key] = field
		} else {
			missing = append(missing, spec)
		}
	}

	for _, spec := range missing {
		created, err := r.client.CreateCustomField(ctx, highlevel.CreateCustomFieldRequest{
			Name:     spec.Name,
			DataType: spec.DataType,
		})
		if err != nil {
			if highlevel.IsConflict(err) {
				// Lost a create race with another instance. The winner's
				// field is already remote; re-list to pick up its id.
				r.logger.Info("custom field created concurrently", "field", spec.Name)
				if field, ok := r.relist(ctx, spec.Key); ok {
					catalog[spec.Key] = field
				}
				continue
			}
			// Degrade per field: the mapper skips unresolved keys.
			r.logger.Error("failed to create custom field", "field", spec.Name, "error", err)
			continue
		}
		catalog[spec.Key] = RemoteField{ID: created.ID, Name: created.Name, DataType: created.DataType}
	}

	if err := r.cache.Set(ctx, cacheKey, catalog, r.ttl); err != nil {
		r.logger.Warn("field catalog cache write failed", "error", err)
	}
	return catalog, nil
}

func (r *Resolver) relist(ctx context.Context, key string) (RemoteField, bool) {
	remote, err := r.client.ListCustomFields(ctx)
	if err != nil {
		return RemoteField{}, false
	}
	field, ok := indexRemoteFields(remote)[key]
	return field, ok
}

// indexRemoteFields keys the remote fields by canonical key, matching on the
// fieldKey when present and falling back to the folded display name.
func indexRemoteFields(remote []highlevel.CustomField) map[string]RemoteField {
	byKey := make(map[string]RemoteField, len(remote))
	for _, f := range remote {
		field := RemoteField{ID: f.ID, Name: f.Name, DataType: f.DataType}
		if f.FieldKey != "" {
			if key := KeyFor(f.FieldKey); key != "" {
				if _, taken := byKey[key]; !taken {
					byKey[key] = field
				}
			}
		}
		if key := KeyFor(f.Name); key != "" {
			if _, taken := byKey[key]; !taken {
				byKey[key] = field
			}
		}
	}
	return byKey
}
