package memory

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
)

var _ ledger.KeyLocker = (*KeyLocker)(nil)

const stripes = 256

// KeyLocker bloqueo por clave dentro del proceso usando un arreglo de mutex (striping).
// Las franjas se toman en orden ascendente, por lo que dos llamadas nunca se bloquean mutuamente.
type KeyLocker struct {
	mu [stripes]sync.Mutex
}

// NewKeyLocker construye el locker.
func NewKeyLocker() *KeyLocker {
	return &KeyLocker{}
}

// Lock bloquea todas las claves; devuelve error solo si el contexto ya fue cancelado.
func (l *KeyLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := make([]int, 0, len(keys))
	seen := make(map[int]bool, len(keys))
	for _, k := range keys {
		i := stripe(k)
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	for _, i := range idx {
		l.mu[i].Lock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			l.mu[idx[j]].Unlock()
		}
	}, nil
}

func stripe(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % stripes)
}
