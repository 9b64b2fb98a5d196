package bot

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/odit-bit/textgen/generate"
)

// Sessions keeps per-chat generation options. A chat untouched for ttl falls back to defaults.
type Sessions struct {
	// serializes read-modify-write in Update
	mu       sync.Mutex
	defaults generate.Options
	cache    *ttlcache.Cache[int64, generate.Options]
}

func NewSessions(defaults generate.Options, ttl time.Duration) *Sessions {
	return &Sessions{
		defaults: defaults,
		cache: ttlcache.New(
			ttlcache.WithTTL[int64, generate.Options](ttl),
		),
	}
}

// Start evicts expired sessions until Stop is called.
func (s *Sessions) Start() {
	s.cache.Start()
}

func (s *Sessions) Stop() {
	s.cache.Stop()
}

func (s *Sessions) Get(id int64) generate.Options {
	item := s.cache.Get(id)
	if item == nil {
		return s.defaults
	}
	return item.Value()
}

// Update applies fns to the chat options, invalid results are not stored.
func (s *Sessions) Update(id int64, fns ...generate.OptionFunc) (generate.Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.Get(id)
	opts, err := cur.With(fns...)
	if err != nil {
		return cur, err
	}
	s.cache.Set(id, opts, ttlcache.DefaultTTL)
	return opts, nil
}

func (s *Sessions) Reset(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(id)
}
