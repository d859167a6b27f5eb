// Package bolt implements ports.TaxonomyStore on an embedded bbolt file.
// The "parents" bucket maps a name to its parent (rootMarker for roots) and the
// "children" bucket maps a name to a JSON array of its children in insertion order.
// Every AddTaxon is a single transaction, so a crash cannot leave a half linked taxon.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/taxaquery/pkg/domain"
	bolt "go.etcd.io/bbolt"
)

// rootMarker is stored as the parent of root taxa; it can never be a valid name.
const rootMarker = ":root"

// Bucket keys
var (
	bucketParents  = []byte("parents")
	bucketChildren = []byte("children")
)

// Taxonomy implements ports.TaxonomyStore backed by bbolt.
type Taxonomy struct {
	db *bolt.DB
}

// Open opens (or creates) a bbolt database at the given path.
func Open(path string) (*Taxonomy, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketParents); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketChildren)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init buckets: %w", err)
	}
	return &Taxonomy{db: db}, nil
}

// Close closes the underlying bbolt database.
func (t *Taxonomy) Close() error {
	return t.db.Close()
}

// AddTaxon registers name under parent. An empty parent makes name a root.
func (t *Taxonomy) AddTaxon(ctx context.Context, name, parent string) error {
	if name == "" {
		return fmt.Errorf("taxon name is required")
	}
	return t.db.Update(func(tx *bolt.Tx) error {
		parents := tx.Bucket(bucketParents)
		if parents.Get([]byte(name)) != nil {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateTaxon, name)
		}
		if parent != "" {
			if parents.Get([]byte(parent)) == nil {
				return fmt.Errorf("parent of %q: %w", name, domain.UnknownTaxon(parent))
			}
			children, err := readChildren(tx, parent)
			if err != nil {
				return err
			}
			data, err := json.Marshal(append(children, name))
			if err != nil {
				return fmt.Errorf("marshal children: %w", err)
			}
			if err := tx.Bucket(bucketChildren).Put([]byte(parent), data); err != nil {
				return err
			}
		}
		stored := parent
		if stored == "" {
			stored = rootMarker
		}
		return parents.Put([]byte(name), []byte(stored))
	})
}

// Children returns the children of name in insertion order.
func (t *Taxonomy) Children(ctx context.Context, name string) ([]string, error) {
	var children []string
	err := t.db.View(func(tx *bolt.Tx) error {
		if _, err := parentOf(tx, name); err != nil {
			return err
		}
		var err error
		children, err = readChildren(tx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

// Parent returns the parent of name.
func (t *Taxonomy) Parent(ctx context.Context, name string) (string, error) {
	var parent string
	err := t.db.View(func(tx *bolt.Tx) error {
		var err error
		parent, err = parentOf(tx, name)
		return err
	})
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
	siblings := []string{}
	err := t.db.View(func(tx *bolt.Tx) error {
		parent, err := parentOf(tx, name)
		if err != nil || parent == rootMarker {
			return err
		}
		all, err := readChildren(tx, parent)
		if err != nil {
			return err
		}
		for _, s := range all {
			if s != name {
				siblings = append(siblings, s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return siblings, nil
}

func parentOf(tx *bolt.Tx, name string) (string, error) {
	v := tx.Bucket(bucketParents).Get([]byte(name))
	if v == nil {
		return "", domain.UnknownTaxon(name)
	}
	// Copy out of the transaction (bbolt slices are only valid within tx)
	return string(v), nil
}

func readChildren(tx *bolt.Tx, name string) ([]string, error) {
	children := []string{}
	v := tx.Bucket(bucketChildren).Get([]byte(name))
	if v == nil {
		return children, nil
	}
	if err := json.Unmarshal(v, &children); err != nil {
		return nil, fmt.Errorf("unmarshal children of %q: %w", name, err)
	}
	return children, nil
}
