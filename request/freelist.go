package request

import "sync"

// FreeList is a per-request arena of cleanup actions released
// together at request reset or connection close: temp files created
// by multipart/PUT body handling, mainly. Go's GC makes most of the
// original C free-list (scratch buffer ownership) unnecessary; what's
// left is exactly the external-resource cleanup a garbage collector
// cannot do for us.
type FreeList struct {
	mu      sync.Mutex
	actions []func()
}

func newFreeList() *FreeList {
	return &FreeList{}
}

// Add registers a cleanup action to run on Run.
func (f *FreeList) Add(action func()) {
	f.mu.Lock()
	f.actions = append(f.actions, action)
	f.mu.Unlock()
}

// Run executes every registered action in reverse registration order
// and clears the list. Safe to call multiple times.
func (f *FreeList) Run() {
	f.mu.Lock()
	actions := f.actions
	f.actions = nil
	f.mu.Unlock()

	for i := len(actions) - 1; i >= 0; i-- {
		actions[i]()
	}
}
