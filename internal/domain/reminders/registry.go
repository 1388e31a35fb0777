package reminders

import (
	"fmt"
	"sort"
	"sync"
)

// TaskKey identifica un trigger recurrente: "<patientID>-<HH:MM>-<offset>" o "<patientID>-<HH:MM>-post".
type TaskKey string

func preDoseKey(patientID string, at Clock, offset int) TaskKey {
	return TaskKey(fmt.Sprintf("%s-%s-%d", patientID, at.String(), offset))
}

func postCheckKey(patientID string, at Clock) TaskKey {
	return TaskKey(fmt.Sprintf("%s-%s-post", patientID, at.String()))
}

// TaskRegistry evita registrar dos veces el mismo trigger dentro del proceso.
type TaskRegistry interface {
	Has(key TaskKey) bool
	Register(key TaskKey)
}

// MemoryRegistry vive lo que vive el proceso; al reiniciar, el plan se recalcula completo.
type MemoryRegistry struct {
	mu   sync.RWMutex
	keys map[TaskKey]struct{}
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		keys: make(map[TaskKey]struct{}),
	}
}

func (r *MemoryRegistry) Has(key TaskKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.keys[key]
	return ok
}

func (r *MemoryRegistry) Register(key TaskKey) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys[key] = struct{}{}
}

func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.keys)
}

// Keys devuelve un snapshot ordenado (útil para inspección y tests).
func (r *MemoryRegistry) Keys() []TaskKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TaskKey, 0, len(r.keys))
	for k := range r.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
