package mock

import (
	"sync"

	"github.com/zdco/zdchat"
)

// KV is an in-memory zdchat.KV. The function fields, when set, replace the
// map-backed behavior so tests can inject failures.
type KV struct {
	GetFn    func(key string) ([]byte, error)
	SetFn    func(key string, value []byte) error
	DeleteFn func(key string) error

	mu   sync.Mutex
	data map[string][]byte
}

// NewKV returns a KV pre-populated with entries.
func NewKV(entries map[string][]byte) *KV {
	kv := &KV{data: make(map[string][]byte, len(entries))}
	for k, v := range entries {
		kv.data[k] = append([]byte(nil), v...)
	}
	return kv
}

// Get returns a copy of the stored value or zdchat.ErrNotFound.
func (kv *KV) Get(key string) ([]byte, error) {
	if kv.GetFn != nil {
		return kv.GetFn(key)
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	if !ok {
		return nil, zdchat.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (kv *KV) Set(key string, value []byte) error {
	if kv.SetFn != nil {
		return kv.SetFn(key, value)
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.data == nil {
		kv.data = make(map[string][]byte)
	}
	kv.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (kv *KV) Delete(key string) error {
	if kv.DeleteFn != nil {
		return kv.DeleteFn(key)
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}

// Has reports whether key is present in the map.
func (kv *KV) Has(key string) bool {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	_, ok := kv.data[key]
	return ok
}
