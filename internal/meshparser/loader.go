package meshparser

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"meshworld/internal/scene"
)

// Fetcher retrieves a document by URL or path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// TransportError reports a document that could not be fetched or decoded.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("meshparser: load %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DescriptorError reports which descriptor of a batch failed.
type DescriptorError struct {
	Index int
	Err   error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("meshparser: descriptor %d: %v", e.Index, e.Err)
}

func (e *DescriptorError) Unwrap() error { return e.Err }

// Loader fetches descriptor documents and turns them into meshes.
type Loader struct {
	parser  *Parser
	fetcher Fetcher
}

// NewLoader returns a loader that parses with p and fetches with f.
func NewLoader(p *Parser, f Fetcher) *Loader {
	return &Loader{parser: p, fetcher: f}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	return data, nil
}

// LoadConfiguration fetches a single-mesh document and parses it.
func (l *Loader) LoadConfiguration(ctx context.Context, url string) (*MeshConfiguration, error) {
	data, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	cfg, err := l.parser.FromJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("meshparser: %s: %w", url, err)
	}
	return cfg, nil
}

// LoadMesh fetches a single-mesh document and builds the mesh.
func (l *Loader) LoadMesh(ctx context.Context, url string) (*scene.Object, error) {
	cfg, err := l.LoadConfiguration(ctx, url)
	if err != nil {
		return nil, err
	}
	obj, err := BuildMesh(cfg)
	if err != nil {
		return nil, fmt.Errorf("meshparser: %s: %w", url, err)
	}
	return obj, nil
}

// LoadMeshes fetches a batch document and builds one mesh per descriptor, in document order.
// The batch fails as a whole: the first bad descriptor is reported as a *DescriptorError.
func (l *Loader) LoadMeshes(ctx context.Context, url string) ([]*scene.Object, error) {
	data, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	items, err := decodeBatch(data)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	meshes, err := l.parser.BuildBatch(items)
	if err != nil {
		return nil, fmt.Errorf("meshparser: %s: %w", url, err)
	}
	return meshes, nil
}

// LoadAll loads several batch documents concurrently and concatenates the meshes in the order
// the URLs were given. Any failure cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, urls ...string) ([]*scene.Object, error) {
	results := make([][]*scene.Object, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() error {
			meshes, err := l.LoadMeshes(ctx, url)
			if err != nil {
				return err
			}
			results[i] = meshes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []*scene.Object
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// decodeBatch accepts either a JSON array of descriptors or {"meshes": [...]}.
func decodeBatch(data []byte) ([]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch v := raw.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if items, ok := v["meshes"].([]any); ok {
			return items, nil
		}
	}
	return nil, fmt.Errorf("expected an array of descriptors or an object with a \"meshes\" array")
}

// BuildBatch parses every descriptor first and only then builds the meshes, so a bad entry
// fails the batch before any mesh exists. Each item is {"mesh": {...}} or a bare mesh object.
func (p *Parser) BuildBatch(items []any) ([]*scene.Object, error) {
	configs := make([]*MeshConfiguration, len(items))
	for i, item := range items {
		doc, ok := item.(map[string]any)
		if !ok {
			return nil, &DescriptorError{Index: i, Err: fmt.Errorf("expected object, got %T", item)}
		}
		var (
			cfg *MeshConfiguration
			err error
		)
		if _, wrapped := doc["mesh"]; wrapped {
			cfg, err = p.FromJSON(doc)
		} else {
			cfg, err = p.fromMesh(doc)
		}
		if err != nil {
			return nil, &DescriptorError{Index: i, Err: err}
		}
		configs[i] = cfg
	}
	meshes := make([]*scene.Object, len(configs))
	for i, cfg := range configs {
		obj, err := BuildMesh(cfg)
		if err != nil {
			return nil, &DescriptorError{Index: i, Err: err}
		}
		meshes[i] = obj
	}
	return meshes, nil
}
