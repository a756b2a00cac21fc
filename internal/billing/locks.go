package billing

import "sync"

// keyedMutex serializes callers contending on the same string key while
// leaving distinct keys independent. Entries are reference counted and
// removed once the last holder releases, so the map stays bounded by the
// number of in-flight keys.
type keyedMutex struct {
	mu   sync.Mutex
	keys map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{keys: make(map[string]*keyLock)}
}

// lock acquires the named key and returns its release func. The release
// func must be called exactly once.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	kl, ok := k.keys[key]
	if !ok {
		kl = &keyLock{}
		k.keys[key] = kl
	}
	kl.refs++
	k.mu.Unlock()

	kl.Lock()
	return func() {
		kl.Unlock()
		k.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(k.keys, key)
		}
		k.mu.Unlock()
	}
}
