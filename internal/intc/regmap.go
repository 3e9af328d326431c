package intc

import (
	"github.com/tinyrange/plic/internal/bus"
)

// Register group offsets within the controller's MMIO window.
const (
	PriorityBase = 0x000000 // one 4-byte priority register per device
	PendingBase  = 0x001000 // read-only pending bits, 1 bit per device
	EnableBase   = 0x002000 // enable bits, one block per context
	HartBase     = 0x200000 // threshold + claim/complete, one block per context
)

const (
	// EnableStride is the byte size of one context's enable block:
	// ceil((MaxDevices+1)/8).
	EnableStride = 0x80

	// HartStride is the byte size of one context's threshold/claim block.
	HartStride = 0x1000
)

// RegionSize is the byte size of the full register window, covering the
// architectural maximum context count.
const RegionSize uint64 = HartBase + MaxContexts*HartStride

// Claim/complete register offset within a hart block.
const (
	hartThresholdReg = 0
	hartClaimReg     = 4
)

// Size implements bus.Device.
func (c *Controller) Size() uint64 {
	return RegionSize
}

// Read implements bus.Device. Reads of reserved or out-of-range offsets
// return zero. Reading a claim register claims the winning device for that
// context as a side effect.
func (c *Controller) Read(offset uint64, size int) (uint64, error) {
	switch {
	case offset < PendingBase:
		device := int(offset / 4)
		if device <= c.cfg.Devices {
			return uint64(c.devicePriority(device)), nil
		}

	case offset < EnableBase:
		word := (offset - PendingBase) / 4
		if word < uint64(len(c.pending)) {
			return uint64(c.pending[word]), nil
		}

	case offset < HartBase:
		rel := offset - EnableBase
		ctx := rel / EnableStride
		word := (rel % EnableStride) / 4
		if ctx < uint64(c.cfg.Contexts) && word < uint64(len(c.pending)) {
			return uint64(c.enable[ctx][word]), nil
		}

	default:
		rel := offset - HartBase
		ctx := rel / HartStride
		if ctx < uint64(c.cfg.Contexts) {
			switch rel % HartStride {
			case hartThresholdReg:
				return uint64(c.contextThreshold(int(ctx))), nil
			case hartClaimReg:
				return uint64(c.Claim(int(ctx))), nil
			}
		}
	}

	return 0, nil
}

// Write implements bus.Device. Writes to read-only, reserved or out-of-range
// offsets are ignored. Writing a claim register completes the written device
// id for that context.
func (c *Controller) Write(offset uint64, size int, value uint64) error {
	switch {
	case offset < PendingBase:
		device := int(offset / 4)
		// Device 0 is reserved; in fixed-priority mode the registers are
		// constants.
		if device >= 1 && device <= c.cfg.Devices && !c.fixedPriority() {
			c.priority[device] = uint32(value) & c.prioMask
			c.update()
		}

	case offset < EnableBase:
		// Pending bits are read-only.

	case offset < HartBase:
		rel := offset - EnableBase
		ctx := rel / EnableStride
		word := (rel % EnableStride) / 4
		if ctx < uint64(c.cfg.Contexts) && word < uint64(len(c.pending)) {
			c.enable[ctx][word] = uint32(value) & c.enableMask(int(word))
			c.update()
		}

	default:
		rel := offset - HartBase
		ctx := rel / HartStride
		if ctx < uint64(c.cfg.Contexts) {
			switch rel % HartStride {
			case hartThresholdReg:
				if !c.fixedPriority() {
					c.threshold[ctx] = uint32(value) & c.prioMask
					c.update()
				}
			case hartClaimReg:
				c.Complete(int(ctx), uint32(value))
			}
		}
	}

	return nil
}

// enableMask returns the writable bits of one enable word: bit 0 of word 0
// is pinned to zero and bits beyond the configured device count do not
// exist.
func (c *Controller) enableMask(word int) uint32 {
	var mask uint32
	for bit := 0; bit < 32; bit++ {
		device := word*32 + bit
		if device >= 1 && device <= c.cfg.Devices {
			mask |= 1 << bit
		}
	}
	return mask
}

var _ bus.Device = (*Controller)(nil)
