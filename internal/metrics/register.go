package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// registrations tracks which registries already hold a collector group.
// A group can live on several registries at once.
type registrations struct {
	mu   sync.Mutex
	done map[prometheus.Registerer]bool
}

// register adds cs to reg (prometheus.DefaultRegisterer when nil) once.
// Collectors registered on reg by someone else are reused; any other
// registration error panics like MustRegister.
func (r *registrations) register(reg prometheus.Registerer, cs ...prometheus.Collector) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done[reg] {
		return
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
	if r.done == nil {
		r.done = make(map[prometheus.Registerer]bool)
	}
	r.done[reg] = true
}
