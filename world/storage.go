package world

import (
	"reflect"
	"sync"

	"github.com/slide-rs/parsec/storage"
)

// componentStores lazily creates one storage.Store[T] per component type T,
// keyed by reflect.Type. Read[T]/Write[T] have to be package-level generic
// functions rather than methods because Go methods cannot themselves take
// type parameters.
type componentStores struct {
	mu     sync.Mutex
	byType map[reflect.Type]any
}

func (w *World) storeFor(t reflect.Type) any {
	w.stores.mu.Lock()
	defer w.stores.mu.Unlock()
	if w.stores.byType == nil {
		w.stores.byType = make(map[reflect.Type]any)
	}
	return w.stores.byType[t]
}

func (w *World) setStore(t reflect.Type, s any) {
	w.stores.mu.Lock()
	defer w.stores.mu.Unlock()
	if w.stores.byType == nil {
		w.stores.byType = make(map[reflect.Type]any)
	}
	w.stores.byType[t] = s
}

func storeOf[T any](w *World) *storage.Store[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if existing := w.storeFor(t); existing != nil {
		return existing.(*storage.Store[T])
	}
	s := storage.NewStore[T]()
	w.setStore(t, s)
	w.registry.Register(s)
	return s
}

// Read returns a read-only view over T's component store, creating the
// store on first use.
func Read[T any](w *World) storage.ReadStorage[T] {
	return storage.NewReadStorage[T](storeOf[T](w))
}

// Write returns a mutable view over T's component store, creating the store
// on first use.
func Write[T any](w *World) storage.WriteStorage[T] {
	return storage.NewWriteStorage[T](storeOf[T](w))
}
