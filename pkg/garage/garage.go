// Package garage holds vehicle records in an owning, ordered collection.
//
// A Garage owns every record it holds. Removal never edits a garage in place:
// RemoveAt moves the surviving records into a new Garage and retires the old
// one, so each record is reachable from exactly one live garage at a time.
package garage

import (
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/garage/pkg/codec"
	"github.com/ssargent/garage/pkg/metrics"
)

// Garage is an ordered collection of vehicle records
type Garage struct {
	mu      sync.Mutex
	id      ksuid.KSUID
	parent  ksuid.KSUID
	slots   []*codec.Record
	retired bool
	opts    *options
}

// Build creates a garage of n vehicles, calling supplier once per slot.
// On any failure every record encoded so far is released and no garage is returned.
func Build(n int, supplier Supplier, opts ...Option) (g *Garage, err error) {
	o := newOptions(opts)

	start := time.Now()
	defer func() {
		o.metrics.RecordOperation(metrics.OpBuild, err, time.Since(start))
	}()

	if n < 0 {
		return nil, fmt.Errorf("%d: %w", n, ErrInvalidCount)
	}

	slots, err := o.allocate(n)
	if err != nil {
		return nil, fmt.Errorf("garage of %d vehicles: %w", n, err)
	}

	for i := range slots {
		v, err := supplier()
		if err != nil {
			o.abandon(slots[:i])
			return nil, fmt.Errorf("vehicle %d: %w", i, err)
		}

		rec, err := o.codec.Encode(v.Description, v.Value, v.Year)
		if err != nil {
			o.abandon(slots[:i])
			return nil, fmt.Errorf("vehicle %d: %w", i, err)
		}

		slots[i] = rec
		o.metrics.RecordAcquired(rec.Size())
	}

	g = &Garage{
		id:    ksuid.New(),
		slots: slots,
		opts:  o,
	}
	o.logger.Debug("garage built", "garage", g.id, "vehicles", n)

	return g, nil
}

// abandon releases records of a garage that was never handed out
func (o *options) abandon(slots []*codec.Record) {
	for _, rec := range slots {
		if err := o.release(rec); err != nil {
			o.logger.Error("release abandoned record", "error", err)
		}
	}
	clear(slots)
}

// ID returns the garage identifier
func (g *Garage) ID() ksuid.KSUID {
	return g.id
}

// Parent returns the ID of the garage this one replaced, or ksuid.Nil
func (g *Garage) Parent() ksuid.KSUID {
	return g.parent
}

// Len returns the number of vehicles held
func (g *Garage) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.slots)
}

// Retired reports whether the garage was replaced or released
func (g *Garage) Retired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.retired
}

// At decodes the vehicle at index
func (g *Garage) At(index int) (codec.Vehicle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.retired {
		return codec.Vehicle{}, ErrRetired
	}
	if index < 0 || index >= len(g.slots) {
		return codec.Vehicle{}, fmt.Errorf("index %d not in [0, %d): %w", index, len(g.slots), ErrInvalidIndex)
	}
	return g.opts.codec.Decode(g.slots[index])
}

// Vehicles returns the decoded vehicles in index order. It does not modify
// the garage. A slot that fails to decode yields its error and iteration
// continues with the next slot. Records are decoded under the garage lock, so
// the sequence reflects the garage as it was when iteration began.
func (g *Garage) Vehicles() iter.Seq2[codec.Vehicle, error] {
	return func(yield func(codec.Vehicle, error) bool) {
		vehicles, errs, err := g.decodeAll()
		if err != nil {
			yield(codec.Vehicle{}, err)
			return
		}

		for i, v := range vehicles {
			if !yield(v, errs[i]) {
				return
			}
		}
	}
}

// decodeAll decodes every slot while holding g.mu
func (g *Garage) decodeAll() (vehicles []codec.Vehicle, errs []error, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.retired {
		return nil, nil, ErrRetired
	}

	start := time.Now()
	var failed error
	defer func() {
		g.opts.metrics.RecordOperation(metrics.OpDisplay, failed, time.Since(start))
	}()

	vehicles = make([]codec.Vehicle, len(g.slots))
	errs = make([]error, len(g.slots))
	for i, rec := range g.slots {
		vehicles[i], errs[i] = g.opts.codec.Decode(rec)
		if errs[i] != nil {
			failed = errs[i]
		}
	}
	return vehicles, errs, nil
}

// Snapshot collects every vehicle. It stops at the first decode failure.
func (g *Garage) Snapshot() ([]codec.Vehicle, error) {
	vehicles := make([]codec.Vehicle, 0, g.Len())
	for v, err := range g.Vehicles() {
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

// RemoveAt removes the vehicle at index. The surviving records move, in order,
// into a new garage which is returned; the receiver is retired.
//
// An out of range index returns the receiver unchanged with ErrInvalidIndex.
// If the replacement storage cannot be obtained the receiver is returned
// unchanged with ErrAllocationFailure and nothing is released.
func (g *Garage) RemoveAt(index int) (next *Garage, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	defer func() {
		g.opts.metrics.RecordOperation(metrics.OpRemove, err, time.Since(start))
	}()

	if g.retired {
		return g, ErrRetired
	}

	n := len(g.slots)
	if index < 0 || index >= n {
		g.opts.logger.Warn("invalid index, no vehicle removed", "garage", g.id, "index", index, "vehicles", n)
		return g, fmt.Errorf("index %d not in [0, %d): %w", index, n, ErrInvalidIndex)
	}

	slots, err := g.opts.allocate(n - 1)
	if err != nil {
		g.opts.logger.Error("replacement garage allocation failed", "garage", g.id, "error", err)
		return g, fmt.Errorf("replacement garage: %w", err)
	}

	removed := g.slots[index]
	copy(slots, g.slots[:index])
	copy(slots[index:], g.slots[index+1:])

	if err := g.opts.release(removed); err != nil {
		return g, fmt.Errorf("vehicle %d: %w", index, err)
	}

	next = &Garage{
		id:     ksuid.New(),
		parent: g.id,
		slots:  slots,
		opts:   g.opts,
	}
	g.retire()

	g.opts.logger.Debug("vehicle removed", "garage", next.id, "replaced", g.id, "index", index, "vehicles", len(slots))

	return next, nil
}

// Release releases every record exactly once, then the garage's slot storage
func (g *Garage) Release() (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	defer func() {
		g.opts.metrics.RecordOperation(metrics.OpRelease, err, time.Since(start))
	}()

	if g.retired {
		return ErrRetired
	}

	var errs []error
	for i, rec := range g.slots {
		if err := g.opts.release(rec); err != nil {
			errs = append(errs, fmt.Errorf("vehicle %d: %w", i, err))
		}
	}
	g.retire()

	g.opts.logger.Debug("garage released", "garage", g.id)

	return errors.Join(errs...)
}

// retire drops the slot storage without touching the records it pointed to.
// Callers hold g.mu.
func (g *Garage) retire() {
	clear(g.slots)
	g.slots = nil
	g.retired = true
}
