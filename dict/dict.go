package dict

import (
	"sort"
	"strings"
	"sync"

	"github.com/onion-http/onion/errs"
)

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgDict) {
		errs.RegisterIdFctMessage(errs.MinPkgDict, getMessage)
	}
}

// Flag controls per-entry insert behavior. Go's garbage collector
// makes FreeKey/FreeValue a no-op (string values already own
// independent copies once assigned), but the flags are kept for call
// site parity with the original C API that every header and form
// insertion in this codebase follows.
type Flag uint8

const (
	FreeKey Flag = 1 << iota
	FreeValue
	DupKey
	DupValue
	Replace
)

const (
	ErrorFromJSON errs.CodeError = errs.MinPkgDict + iota
	ErrorBadRoot
	ErrorUnexpectedChar
)

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorFromJSON:
		return "invalid JSON input"
	case ErrorBadRoot:
		return "JSON root value must be an object"
	case ErrorUnexpectedChar:
		return "unexpected character while parsing JSON"
	}
	return ""
}

type entry struct {
	key   string
	value Value
	flags Flag
}

// Dict is an ordered-by-key, reference counted multimap.
type Dict struct {
	mu          sync.RWMutex
	refMu       sync.Mutex
	ref         int32
	entries     []entry
	insensitive bool
}

// Option configures a new Dict.
type Option func(*Dict)

// CaseInsensitive makes key comparisons case-insensitive, as used for
// HTTP headers.
func CaseInsensitive() Option {
	return func(d *Dict) { d.insensitive = true }
}

// New returns an empty Dict with a reference count of 1.
func New(opts ...Option) *Dict {
	d := &Dict{ref: 1}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Dict) cmp(a, b string) int {
	if d.insensitive {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}
	return strings.Compare(a, b)
}

func (d *Dict) lowerBound(key string) int {
	return sort.Search(len(d.entries), func(i int) bool {
		return d.cmp(d.entries[i].key, key) >= 0
	})
}

func (d *Dict) upperBound(key string) int {
	return sort.Search(len(d.entries), func(i int) bool {
		return d.cmp(d.entries[i].key, key) > 0
	})
}

// Add inserts key=value. Without the Replace flag, a duplicate key is
// kept as an additional entry after any existing ones under that key;
// Get and RGet continue to return the first. With Replace, an exact
// key match is overwritten in place.
func (d *Dict) Add(key string, value Value, flags Flag) {
	d.mu.Lock()
	defer d.mu.Unlock()

	lo := d.lowerBound(key)
	if flags&Replace != 0 && lo < len(d.entries) && d.cmp(d.entries[lo].key, key) == 0 {
		d.entries[lo] = entry{key: key, value: value, flags: flags}
		return
	}

	hi := d.upperBound(key)
	d.entries = append(d.entries, entry{})
	copy(d.entries[hi+1:], d.entries[hi:])
	d.entries[hi] = entry{key: key, value: value, flags: flags}
}

// AddString is a convenience wrapper over Add for plain string
// values, defaulting to Replace semantics off (multimap append).
func (d *Dict) AddString(key, value string) {
	d.Add(key, String(value), DupKey|DupValue)
}

// Set inserts key=value, replacing any existing entry under key.
func (d *Dict) Set(key, value string) {
	d.Add(key, String(value), DupKey|DupValue|Replace)
}

// SetDict inserts a nested dictionary under key, replacing any
// existing entry.
func (d *Dict) SetDict(key string, nested *Dict) {
	d.Add(key, Nested(nested), Replace)
}

// Remove deletes the first entry under key. It reports whether an
// entry was found.
func (d *Dict) Remove(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	lo := d.lowerBound(key)
	if lo >= len(d.entries) || d.cmp(d.entries[lo].key, key) != 0 {
		return false
	}
	d.entries = append(d.entries[:lo], d.entries[lo+1:]...)
	return true
}

// Get returns the first string value stored under key.
func (d *Dict) Get(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	lo := d.lowerBound(key)
	if lo >= len(d.entries) || d.cmp(d.entries[lo].key, key) != 0 {
		return "", false
	}
	if d.entries[lo].value.IsDict() {
		return "", false
	}
	return d.entries[lo].value.AsString(), true
}

// GetDefault returns the first string value under key, or def if
// absent.
func (d *Dict) GetDefault(key, def string) string {
	if v, ok := d.Get(key); ok {
		return v
	}
	return def
}

// GetDict returns the first nested dictionary stored under key.
func (d *Dict) GetDict(key string) (*Dict, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	lo := d.lowerBound(key)
	if lo >= len(d.entries) || d.cmp(d.entries[lo].key, key) != 0 {
		return nil, false
	}
	if !d.entries[lo].value.IsDict() {
		return nil, false
	}
	return d.entries[lo].value.AsDict(), true
}

// RGet walks a chain of keys through nested dictionaries, e.g.
// RGet("a", "b") looks up "a", descends into its nested dict, and
// looks up "b" there.
func (d *Dict) RGet(keys ...string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	cur := d
	for i, k := range keys {
		if i == len(keys)-1 {
			return cur.Get(k)
		}
		nd, ok := cur.GetDict(k)
		if !ok {
			return "", false
		}
		cur = nd
	}
	return "", false
}

// Count returns the number of entries, including duplicates under the
// same key.
func (d *Dict) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Preorder walks entries in key order, calling f for each. Returning
// false from f stops the walk early.
func (d *Dict) Preorder(f func(key string, v Value) bool) {
	d.mu.RLock()
	snapshot := make([]entry, len(d.entries))
	copy(snapshot, d.entries)
	d.mu.RUnlock()

	for _, e := range snapshot {
		if !f(e.key, e.value) {
			return
		}
	}
}

// Merge copies every entry of other into d, preserving other's
// internal order among duplicate keys.
func (d *Dict) Merge(other *Dict) {
	if other == nil {
		return
	}
	other.Preorder(func(k string, v Value) bool {
		if v.IsDict() {
			d.Add(k, Nested(v.AsDict().HardDup()), DupKey)
		} else {
			d.Add(k, v, DupKey|DupValue)
		}
		return true
	})
}

// HardDup returns a structurally independent deep copy: nested dicts
// are copied recursively, and the result starts with its own
// reference count of 1.
func (d *Dict) HardDup() *Dict {
	nd := New()
	nd.insensitive = d.insensitive

	d.mu.RLock()
	defer d.mu.RUnlock()

	nd.entries = make([]entry, len(d.entries))
	for i, e := range d.entries {
		if e.value.IsDict() {
			nd.entries[i] = entry{key: e.key, value: Nested(e.value.AsDict().HardDup()), flags: e.flags}
		} else {
			nd.entries[i] = e
		}
	}
	return nd
}

// SoftDup increments the reference count and returns the same handle.
// The caller must call Release when finished with it.
func (d *Dict) SoftDup() *Dict {
	d.refMu.Lock()
	d.ref++
	d.refMu.Unlock()
	return d
}

// Release decrements the reference count. It reports whether this
// call dropped the count to zero.
func (d *Dict) Release() bool {
	d.refMu.Lock()
	defer d.refMu.Unlock()
	d.ref--
	if d.ref < 0 {
		d.ref = 0
	}
	return d.ref == 0
}

// RefCount returns the current reference count, chiefly for tests.
func (d *Dict) RefCount() int32 {
	d.refMu.Lock()
	defer d.refMu.Unlock()
	return d.ref
}

// LockRead acquires the contents read lock for a caller performing a
// multi-step read-modify-write sequence across several calls.
func (d *Dict) LockRead() { d.mu.RLock() }

// LockWrite acquires the contents write lock.
func (d *Dict) LockWrite() { d.mu.Lock() }

// UnlockRead releases a LockRead.
func (d *Dict) UnlockRead() { d.mu.RUnlock() }

// UnlockWrite releases a LockWrite.
func (d *Dict) UnlockWrite() { d.mu.Unlock() }
