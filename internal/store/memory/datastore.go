package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Datastore is an in-memory rendition of the realtime key-value store
// the inspection records are persisted through. It exists for local
// serving and tests; a hosted datastore adapter satisfies the same
// contract in a real deployment.
type Datastore struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

func NewDatastore() *Datastore {
	return &Datastore{values: map[string]interface{}{}}
}

func (d *Datastore) Read(ctx context.Context, path string) (interface{}, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	value, ok := d.values[normalize(path)]
	if !ok {
		return nil, fmt.Errorf("no value at path %q", path)
	}
	return value, nil
}

func (d *Datastore) Write(ctx context.Context, path string, value interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.values[normalize(path)] = value
	return nil
}

func (d *Datastore) Remove(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path = normalize(path)
	delete(d.values, path)
	// drop any children of the path as well
	prefix := path + "/"
	for key := range d.values {
		if strings.HasPrefix(key, prefix) {
			delete(d.values, key)
		}
	}
	return nil
}

// ServerTimestamp returns the store-assigned write time.
func (d *Datastore) ServerTimestamp(ctx context.Context) (time.Time, error) {
	return time.Now().UTC(), nil
}

// Size returns the number of stored values.
func (d *Datastore) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.values)
}

func normalize(path string) string {
	return strings.Trim(path, "/")
}
