package cache

import "sync/atomic"

// Holder publishes the current Snapshot to concurrent readers.  Readers
// always see a complete Snapshot; a reload swaps the pointer.
type Holder struct {
	p atomic.Pointer[Snapshot]
}

// NewHolder returns a Holder serving s, or Empty when s is nil.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	if s == nil {
		s = Empty()
	}
	h.p.Store(s)
	return h
}

// Current returns the served Snapshot.
func (h *Holder) Current() *Snapshot { return h.p.Load() }

// Swap replaces the served Snapshot and returns the previous one.
func (h *Holder) Swap(s *Snapshot) *Snapshot { return h.p.Swap(s) }

// Reload reads both documents and swaps them in.  On error the served
// Snapshot is left untouched.
func (h *Holder) Reload(compoundsPath, reactionsPath string) (*Snapshot, error) {
	s, err := LoadSnapshot(compoundsPath, reactionsPath)
	if err != nil {
		return nil, err
	}
	h.Swap(s)
	return s, nil
}

//Personal.AI order the ending
