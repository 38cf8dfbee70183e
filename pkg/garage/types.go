package garage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ssargent/garage/pkg/codec"
	"github.com/ssargent/garage/pkg/logging"
	"github.com/ssargent/garage/pkg/metrics"
)

// Errors
var (
	ErrInvalidIndex = errors.New("invalid index")
	ErrInvalidCount = errors.New("invalid vehicle count")
	ErrRetired      = errors.New("garage retired")

	ErrAllocationFailure = codec.ErrAllocationFailure
)

// Supplier yields the next vehicle to store. Build calls it once per slot, in order.
type Supplier func() (codec.Vehicle, error)

// FromVehicles returns a Supplier that yields vs in order
func FromVehicles(vs ...codec.Vehicle) Supplier {
	i := 0
	return func() (codec.Vehicle, error) {
		if i >= len(vs) {
			return codec.Vehicle{}, io.EOF
		}
		v := vs[i]
		i++
		return v, nil
	}
}

// SlotAllocator obtains backing storage for n record slots
type SlotAllocator func(n int) ([]*codec.Record, error)

func heapSlots(n int) ([]*codec.Record, error) {
	return make([]*codec.Record, n), nil
}

// Option configures a Garage
type Option func(*options)

type options struct {
	codec       *codec.RecordCodec
	slots       SlotAllocator
	logger      *slog.Logger
	metrics     *metrics.Metrics
	maxVehicles int
}

// WithCodec sets the record codec used for encoding and display
func WithCodec(c *codec.RecordCodec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithSlotAllocator replaces the slot storage allocator
func WithSlotAllocator(a SlotAllocator) Option {
	return func(o *options) {
		o.slots = a
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithMaxVehicles bounds the number of slots a garage may hold. Zero means no limit.
func WithMaxVehicles(n int) Option {
	return func(o *options) {
		o.maxVehicles = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		codec:  codec.NewRecordCodec(),
		slots:  heapSlots,
		logger: logging.Discard,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// allocate obtains storage for n slots, all nil
func (o *options) allocate(n int) ([]*codec.Record, error) {
	if o.maxVehicles > 0 && n > o.maxVehicles {
		return nil, fmt.Errorf("%d slots exceeds limit %d: %w", n, o.maxVehicles, ErrAllocationFailure)
	}

	slots, err := o.slots(n)
	if err != nil {
		if !errors.Is(err, ErrAllocationFailure) {
			err = fmt.Errorf("%w: %w", ErrAllocationFailure, err)
		}
		return nil, fmt.Errorf("%d slots: %w", n, err)
	}
	if len(slots) != n {
		return nil, fmt.Errorf("allocator returned %d slots, want %d: %w", len(slots), n, ErrAllocationFailure)
	}
	return slots, nil
}

// release gives up a record's storage and accounts for it
func (o *options) release(rec *codec.Record) error {
	size := rec.Size()
	if err := rec.Release(); err != nil {
		return err
	}
	o.metrics.RecordReleased(size)
	return nil
}
