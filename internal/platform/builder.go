package platform

import (
	"fmt"

	"github.com/tinyrange/plic/internal/bus"
)

type mmioBinding struct {
	base    uint64
	size    uint64
	handler bus.Device
}

// Builder registers devices and their MMIO windows before creating a
// Platform.
type Builder struct {
	devices map[string]bus.Device
	mmio    []mmioBinding
	sink    InterruptSink
}

// NewBuilder returns an empty Builder instance.
func NewBuilder() *Builder {
	return &Builder{
		devices: make(map[string]bus.Device),
	}
}

// RegisterDevice adds a named device at the given base address.
func (b *Builder) RegisterDevice(name string, base uint64, dev bus.Device) error {
	if b == nil {
		return fmt.Errorf("platform builder is nil")
	}
	if name == "" {
		return fmt.Errorf("device name is empty")
	}
	if dev == nil {
		return fmt.Errorf("device %q is nil", name)
	}
	if _, exists := b.devices[name]; exists {
		return fmt.Errorf("device %q already registered", name)
	}

	if err := b.withMmioRegion(base, dev.Size(), dev); err != nil {
		return fmt.Errorf("device %q: %w", name, err)
	}

	b.devices[name] = dev
	return nil
}

// WithInterruptSink sets the sink that receives device line assertions.
func (b *Builder) WithInterruptSink(sink InterruptSink) error {
	if sink == nil {
		return fmt.Errorf("interrupt sink is nil")
	}
	if b.sink != nil {
		return fmt.Errorf("interrupt sink already registered")
	}
	b.sink = sink
	return nil
}

func (b *Builder) withMmioRegion(base, size uint64, handler bus.Device) error {
	if size == 0 {
		return fmt.Errorf("MMIO region at 0x%x has zero size", base)
	}
	if base+size < base {
		return fmt.Errorf("MMIO region at 0x%x with size 0x%x overflows", base, size)
	}
	for _, existing := range b.mmio {
		if regionsOverlap(base, size, existing.base, existing.size) {
			return fmt.Errorf(
				"MMIO region 0x%x-0x%x overlaps existing region 0x%x-0x%x",
				base, base+size-1, existing.base, existing.base+existing.size-1)
		}
	}

	b.mmio = append(b.mmio, mmioBinding{base: base, size: size, handler: handler})
	return nil
}

// Build finalizes the layout and returns the constructed Platform.
func (b *Builder) Build() (*Platform, error) {
	if b == nil {
		return nil, fmt.Errorf("platform builder is nil")
	}

	busDispatch := bus.New()
	for _, binding := range b.mmio {
		busDispatch.AddDevice(binding.base, binding.handler)
	}

	return &Platform{
		bus:   busDispatch,
		lines: NewLineSet(b.sink),
	}, nil
}

func regionsOverlap(baseA, sizeA, baseB, sizeB uint64) bool {
	endA := baseA + sizeA
	endB := baseB + sizeB
	return baseA < endB && baseB < endA
}

// Platform is the built dispatch surface: a bus of registered MMIO devices
// plus the interrupt line fabric feeding the controller.
type Platform struct {
	bus   *bus.Bus
	lines *LineSet
}

// Bus returns the MMIO dispatch bus.
func (p *Platform) Bus() *bus.Bus {
	return p.bus
}

// Line allocates an input-line handle for a device line number.
func (p *Platform) Line(line int) InputLine {
	return p.lines.AllocateLine(line)
}
