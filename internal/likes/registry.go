// Package likes содержит реестр понравившихся треков
package likes

import (
	"sort"
	"sync"
)

// Registry хранит множество ID понравившихся треков.
// ID не проверяются по каталогу.
type Registry struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewRegistry создает реестр с начальным набором ID
func NewRegistry(ids ...string) *Registry {
	r := &Registry{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		r.ids[id] = struct{}{}
	}
	return r
}

// Toggle добавляет ID, если его нет, и удаляет, если есть.
// Возвращает новое состояние.
func (r *Registry) Toggle(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[id]; ok {
		delete(r.ids, id)
		return false
	}
	r.ids[id] = struct{}{}
	return true
}

// Has сообщает, отмечен ли трек
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[id]
	return ok
}

// Len возвращает количество отмеченных треков
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// IDs возвращает отсортированный список ID
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Set возвращает копию множества
func (r *Registry) Set() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{}, len(r.ids))
	for id := range r.ids {
		out[id] = struct{}{}
	}
	return out
}
