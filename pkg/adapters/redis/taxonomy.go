package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/taxaquery/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// rootMarker is stored as the parent of root taxa; it can never be a valid name.
const rootMarker = ":root"

// Taxonomy implements ports.TaxonomyStore using Redis.
//
// Each taxon owns two keys: "<prefix><name>:parent" (a string) and
// "<prefix><name>:children" (a list in insertion order).
type Taxonomy struct {
	client *backend.Client
	prefix string
}

// Option configures a Taxonomy.
type Option func(*Taxonomy)

// WithPrefix sets the key prefix for taxa.
func WithPrefix(prefix string) Option {
	return func(t *Taxonomy) {
		t.prefix = prefix
	}
}

// New creates a new Redis taxonomy with options.
func New(address, password string, db int, opts ...Option) *Taxonomy {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis taxonomy from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Taxonomy {
	t := &Taxonomy{
		client: client,
		prefix: "taxaquery:taxon:",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Taxonomy) parentKey(name string) string {
	return t.prefix + name + ":parent"
}

func (t *Taxonomy) childrenKey(name string) string {
	return t.prefix + name + ":children"
}

// addScript links and registers a taxon in one step. The children list is pushed
// before the parent key is written, so a failed push leaves nothing behind.
// Returns 1 on success, 0 when the taxon exists and -1 when the parent is unknown.
var addScript = backend.NewScript(`
if redis.call("exists", KEYS[1]) == 1 then
	return 0
end
if #KEYS == 3 then
	if redis.call("exists", KEYS[2]) == 0 then
		return -1
	end
	redis.call("rpush", KEYS[3], ARGV[2])
end
redis.call("set", KEYS[1], ARGV[1])
return 1
`)

// AddTaxon registers name under parent. An empty parent makes name a root.
func (t *Taxonomy) AddTaxon(ctx context.Context, name, parent string) error {
	if name == "" {
		return fmt.Errorf("taxon name is required")
	}

	keys := []string{t.parentKey(name)}
	stored := rootMarker
	if parent != "" {
		keys = append(keys, t.parentKey(parent), t.childrenKey(parent))
		stored = parent
	}

	status, err := addScript.Run(ctx, t.client, keys, stored, name).Int()
	if err != nil {
		return fmt.Errorf("failed to save taxon to redis: %w", err)
	}
	switch status {
	case 0:
		return fmt.Errorf("%w: %q", domain.ErrDuplicateTaxon, name)
	case -1:
		return fmt.Errorf("parent of %q: %w", name, domain.UnknownTaxon(parent))
	}
	return nil
}

// Children returns the children of name in insertion order.
func (t *Taxonomy) Children(ctx context.Context, name string) ([]string, error) {
	pipe := t.client.Pipeline()
	exists := pipe.Exists(ctx, t.parentKey(name))
	children := pipe.LRange(ctx, t.childrenKey(name), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	if exists.Val() == 0 {
		return nil, domain.UnknownTaxon(name)
	}
	return children.Val(), nil
}

// Parent returns the parent of name.
func (t *Taxonomy) Parent(ctx context.Context, name string) (string, error) {
	parent, err := t.parentOf(ctx, name)
	if err != nil {
		return "", err
	}
	if parent == rootMarker {
		return "", domain.NoParent(name)
	}
	return parent, nil
}

// Siblings returns the other children of name's parent in insertion order.
func (t *Taxonomy) Siblings(ctx context.Context, name string) ([]string, error) {
	parent, err := t.parentOf(ctx, name)
	if err != nil {
		return nil, err
	}
	if parent == rootMarker {
		return []string{}, nil
	}

	all, err := t.client.LRange(ctx, t.childrenKey(parent), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	siblings := make([]string, 0, len(all))
	for _, s := range all {
		if s != name {
			siblings = append(siblings, s)
		}
	}
	return siblings, nil
}

func (t *Taxonomy) parentOf(ctx context.Context, name string) (string, error) {
	val, err := t.client.Get(ctx, t.parentKey(name)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", domain.UnknownTaxon(name)
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Close closes the redis client.
func (t *Taxonomy) Close() error {
	return t.client.Close()
}
