package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/IsaacT30/airport-console/core/rest"
)

// Resource is a typed handle on one collection endpoint of the
// operations service. The path is the collection root with a trailing
// slash, e.g. "/api/flights/"; element paths append the id.
type Resource[T any] struct {
	client *rest.Client
	path   string
}

// NewResource binds a collection path to a rest client.
func NewResource[T any](client *rest.Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

func (r *Resource[T]) elementPath(id int64) string {
	return r.path + strconv.FormatInt(id, 10) + "/"
}

// List fetches the collection, tolerating bare-array and enveloped
// response shapes. Filters become query parameters; nil means none.
func (r *Resource[T]) List(ctx context.Context, filters url.Values) ([]T, *rest.Page, error) {
	var raw json.RawMessage
	opts := []func(*rest.RequestOption){rest.WithContext(ctx), rest.WithResponse(&raw)}
	if len(filters) > 0 {
		opts = append(opts, rest.WithQuery(filters))
	}
	resp, err := r.client.Get(r.path, opts...)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var items []T
	page, err := rest.UnmarshalCollection(raw, &items)
	if err != nil {
		return nil, nil, err
	}
	return items, page, nil
}

// Get fetches a single record by id.
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	item := new(T)
	resp, err := r.client.Get(r.elementPath(id), rest.WithContext(ctx), rest.WithResponse(item))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return item, nil
}

// Create posts a new record and returns the server's view of it.
func (r *Resource[T]) Create(ctx context.Context, in T) (*T, error) {
	item := new(T)
	resp, err := r.client.Post(r.path, in, rest.WithContext(ctx), rest.WithResponse(item))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return item, nil
}

// Update replaces a record by id.
func (r *Resource[T]) Update(ctx context.Context, id int64, in T) (*T, error) {
	item := new(T)
	resp, err := r.client.Put(r.elementPath(id), in, rest.WithContext(ctx), rest.WithResponse(item))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return item, nil
}

// Patch applies a partial update. Fields holds only the attributes to
// change, keyed by their wire names.
func (r *Resource[T]) Patch(ctx context.Context, id int64, fields map[string]any) (*T, error) {
	item := new(T)
	resp, err := r.client.Patch(r.elementPath(id), fields, rest.WithContext(ctx), rest.WithResponse(item))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return item, nil
}

// Delete removes a record by id.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	resp, err := r.client.Delete(r.elementPath(id), rest.WithContext(ctx))
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
