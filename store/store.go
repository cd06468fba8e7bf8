package store

import (
	"log"
	"reflect"
	"sync"
	"time"
)

// EqualFunc reports whether an incoming value equals the stored one. Equal
// values collapse into a no-op Set.
type EqualFunc func(prev, next any) bool

// Store holds named state slots with change-detecting writes and synchronous
// subscriber notification. The zero value is not usable; call New.
type Store struct {
	mu     sync.Mutex
	slots  map[string]*slot
	logger *log.Logger
	now    func() time.Time
}

type slot struct {
	value     any
	hasValue  bool
	updatedAt time.Time
	subs      []subscription
	nextSubID uint64

	// Held for the whole notify phase of one Set so two Sets on the same
	// key cannot interleave their callbacks.
	notifyMu sync.Mutex
}

type subscription struct {
	id uint64
	fn func(value any)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes subscriber-panic reports to logger instead of
// log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock substitutes the time source. Tests use it to exercise cache
// expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		slots:  make(map[string]*slot),
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current value for key and whether the slot holds one.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[key]
	if !ok || !sl.hasValue {
		return nil, false
	}
	return sl.value, true
}

// GetCached returns the value for key only if it was last updated within
// maxAge. An older value is a cache miss, not a stale return.
func (s *Store) GetCached(key string, maxAge time.Duration) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[key]
	if !ok || !sl.hasValue {
		return nil, false
	}
	if s.now().Sub(sl.updatedAt) > maxAge {
		return nil, false
	}
	return sl.value, true
}

// UpdatedAt returns the last real-change timestamp for key, zero if the slot
// has never held a value.
func (s *Store) UpdatedAt(key string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.slots[key]; ok {
		return sl.updatedAt
	}
	return time.Time{}
}

// SetOption adjusts one Set call.
type SetOption func(*setConfig)

type setConfig struct {
	force bool
	equal EqualFunc
}

// Force stores and notifies even when the value compares equal.
func Force() SetOption {
	return func(c *setConfig) { c.force = true }
}

// WithEqual substitutes the equality check for this Set call. Callers storing
// aggregate values (slices, structs with slices) supply their own comparison;
// the default shallow check treats uncomparable values as always different.
func WithEqual(eq EqualFunc) SetOption {
	return func(c *setConfig) { c.equal = eq }
}

// Set stores value under key and synchronously notifies the key's
// subscribers, in subscription order. When the value compares equal to the
// stored one and Force is absent, Set is a complete no-op and returns false.
func (s *Store) Set(key string, value any, opts ...SetOption) bool {
	cfg := setConfig{equal: ShallowEqual}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.mu.Lock()
	sl, ok := s.slots[key]
	if !ok {
		sl = &slot{}
		s.slots[key] = sl
	}
	if sl.hasValue && !cfg.force && cfg.equal(sl.value, value) {
		s.mu.Unlock()
		return false
	}
	sl.value = value
	sl.hasValue = true
	sl.updatedAt = s.now()
	subs := append([]subscription(nil), sl.subs...)
	s.mu.Unlock()

	sl.notifyMu.Lock()
	defer sl.notifyMu.Unlock()
	for _, sub := range subs {
		s.notify(key, sub, value)
	}
	return true
}

// notify invokes one subscriber, containing any panic so the remaining
// subscribers of the same Set still run.
func (s *Store) notify(key string, sub subscription, value any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("store: subscriber %d for %q panicked: %v", sub.id, key, r)
		}
	}()
	sub.fn(value)
}

// Subscribe registers fn for future Sets on key and returns a function that
// removes it. The callback is not invoked with the current value; callers
// needing it read once with Get.
func (s *Store) Subscribe(key string, fn func(value any)) func() {
	s.mu.Lock()
	sl, ok := s.slots[key]
	if !ok {
		sl = &slot{}
		s.slots[key] = sl
	}
	sl.nextSubID++
	id := sl.nextSubID
	sl.subs = append(sl.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range sl.subs {
			if sub.id == id {
				sl.subs = append(sl.subs[:i], sl.subs[i+1:]...)
				return
			}
		}
	}
}

// ShallowEqual is the default Set comparison: true only for values of the
// same comparable dynamic type that compare equal with ==. Uncomparable
// values (slices, maps, functions) are never equal, so aggregate writes
// always publish unless the caller supplies a smarter EqualFunc.
func ShallowEqual(prev, next any) bool {
	if prev == nil || next == nil {
		return prev == nil && next == nil
	}
	tp, tn := reflect.TypeOf(prev), reflect.TypeOf(next)
	if tp != tn || !tp.Comparable() {
		return false
	}
	return prev == next
}
