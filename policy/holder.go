package policy

import "sync/atomic"

// Holder publishes the active policy to concurrent readers. Swapping installs
// a whole new policy atomically; readers always see one consistent set of
// tables, never a mix of old and new.
type Holder struct {
	current atomic.Pointer[Policy]
}

// NewHolder starts with the given policy.
func NewHolder(p *Policy) *Holder {
	h := &Holder{}
	h.current.Store(p)
	return h
}

// Current returns the active policy.
func (h *Holder) Current() *Policy {
	return h.current.Load()
}

// Swap validates the candidate and installs it. On error the active policy is
// left untouched.
func (h *Holder) Swap(p *Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	h.current.Store(p)
	return nil
}
