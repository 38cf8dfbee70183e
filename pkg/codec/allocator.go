package codec

import "fmt"

// Allocator hands out record buffers of an exact size
type Allocator interface {
	Allocate(size int) ([]byte, error)
}

// AllocatorFunc adapts a function to the Allocator interface
type AllocatorFunc func(size int) ([]byte, error)

// Allocate calls f(size)
func (f AllocatorFunc) Allocate(size int) ([]byte, error) {
	return f(size)
}

// HeapAllocator allocates from the Go heap, refusing anything above Max bytes
type HeapAllocator struct {
	Max int // 0 = unlimited
}

// NewHeapAllocator creates a heap allocator with an optional size limit
func NewHeapAllocator(max int) *HeapAllocator {
	return &HeapAllocator{Max: max}
}

// Allocate returns a zeroed buffer of exactly size bytes
func (h *HeapAllocator) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative size %d: %w", size, ErrAllocationFailure)
	}
	if h.Max > 0 && size > h.Max {
		return nil, fmt.Errorf("size %d exceeds limit %d: %w", size, h.Max, ErrAllocationFailure)
	}
	return make([]byte, size), nil
}
