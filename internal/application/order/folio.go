package order

import (
	"math/rand"
	"sync"
	"time"
)

// NewTimeFolio genera folios milisegundos-unix * 1000 + aleatorio(0..999).
// Cabe en int64 y en el rango entero exacto de JSON/JavaScript.
func NewTimeFolio() FolioGenerator {
	var mu sync.Mutex
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		return time.Now().UnixMilli()*1000 + rng.Int63n(1000)
	}
}
