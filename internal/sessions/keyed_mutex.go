package sessions

import "sync"

// keyedMutex hands out one mutex per key, dropping it once nobody holds or waits for it.
type keyedMutex struct {
	mutex sync.Mutex
	locks map[int]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: map[int]*refMutex{},
	}
}

// Lock blocks until the key is free and returns the matching unlock func.
func (km *keyedMutex) Lock(key int) func() {
	km.mutex.Lock()
	m, ok := km.locks[key]
	if !ok {
		m = &refMutex{}
		km.locks[key] = m
	}
	m.refs++
	km.mutex.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		km.mutex.Lock()
		m.refs--
		if m.refs == 0 {
			delete(km.locks, key)
		}
		km.mutex.Unlock()
	}
}

func (km *keyedMutex) size() int {
	km.mutex.Lock()
	defer km.mutex.Unlock()
	return len(km.locks)
}
