package tree

import "sync"

// errorRing keeps the most recent errors, oldest first. A nil ring keeps
// nothing.
type errorRing struct {
	mu   sync.Mutex
	size int
	errs []error
}

// newErrorRing returns nil for a non-positive size.
func newErrorRing(size int) *errorRing {
	if size <= 0 {
		return nil
	}
	return &errorRing{size: size, errs: make([]error, 0, size)}
}

func (r *errorRing) push(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == r.size {
		copy(r.errs, r.errs[1:])
		r.errs = r.errs[:r.size-1]
	}
	r.errs = append(r.errs, err)
}

func (r *errorRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.errs = r.errs[:0]
	r.mu.Unlock()
}

func (r *errorRing) all() []error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return append([]error(nil), r.errs...)
}
