package storage

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// KV is the durable snapshot surface the session state mirrors itself to on
// every change and reads back once at startup.
type KV interface {
	Get(key string, out any) (bool, error)
	Put(key string, val any) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// FileKV keeps the whole keyspace in one JSON file, rewritten atomically on
// every Put/Delete. Values are stored as raw JSON so callers round-trip
// their own types.
type FileKV struct {
	path string

	mu   sync.Mutex
	data map[string]json.RawMessage
}

func OpenFile(path string) (*FileKV, error) {
	kv := &FileKV{path: path, data: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return kv, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &kv.data); err != nil {
			// A corrupt snapshot should not keep the service down.
			log.Printf("⚠️ Snapshot file %s is unreadable, starting empty: %v", path, err)
			kv.data = make(map[string]json.RawMessage)
		}
	}
	return kv, nil
}

func (kv *FileKV) Get(key string, out any) (bool, error) {
	kv.mu.Lock()
	raw, ok := kv.data[key]
	kv.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (kv *FileKV) Put(key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = raw
	return kv.flushLocked()
}

func (kv *FileKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return kv.flushLocked()
}

func (kv *FileKV) Keys(prefix string) ([]string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	keys := make([]string, 0, len(kv.data))
	for k := range kv.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (kv *FileKV) flushLocked() error {
	raw, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := kv.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(kv.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, kv.path)
}

// Memory is a map-backed KV for tests.
type Memory struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]json.RawMessage)}
}

func (m *Memory) Get(key string, out any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (m *Memory) Put(key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Keys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
