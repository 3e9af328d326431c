package intc

import (
	"math/bits"
)

// OutputLine receives level changes of a context's interrupt-pending output.
type OutputLine interface {
	SetLevel(high bool)
}

// Controller models a platform-level interrupt controller: per-device
// priorities and pending bits, per-context enable masks and thresholds, and
// a claim/complete protocol that routes the highest-priority pending device
// to each context.
//
// The controller has no internal locking. It is a deterministic state
// machine: every mutation (line change, register access, claim, complete)
// is applied synchronously and the host must serialize accesses into a
// single stream.
type Controller struct {
	cfg Config

	// Effective priority levels and the register mask derived from them.
	levels   int
	prioMask uint32

	priority  []uint32   // per device, index 0 fixed at 0
	pending   []uint32   // 1 bit per device, index 0 fixed at 0
	enable    [][]uint32 // per context, 1 bit per device, bit 0 fixed at 0
	threshold []uint32   // per context
	claimed   []uint32   // per context, last claimed device id

	gateways []gateway // per device, index 0 unused

	ip    []bool       // per context interrupt-pending output level
	sinks []OutputLine // optional per-context output lines
}

// New constructs a controller from a validated configuration. Invalid
// bounds refuse to initialize.
func New(cfg Config) (*Controller, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	levels := cfg.priorityLevels()
	var prioMask uint32
	if levels > 0 {
		prioMask = uint32(1)<<bits.Len(uint(levels)) - 1
	}

	words := (cfg.Devices + 1 + 31) / 32

	enable := make([][]uint32, cfg.Contexts)
	for ctx := range enable {
		enable[ctx] = make([]uint32, words)
	}

	return &Controller{
		cfg:       cfg,
		levels:    levels,
		prioMask:  prioMask,
		priority:  make([]uint32, cfg.Devices+1),
		pending:   make([]uint32, words),
		enable:    enable,
		threshold: make([]uint32, cfg.Contexts),
		claimed:   make([]uint32, cfg.Contexts),
		gateways:  make([]gateway, cfg.Devices+1),
		ip:        make([]bool, cfg.Contexts),
		sinks:     make([]OutputLine, cfg.Contexts),
	}, nil
}

// Devices returns the configured number of interrupt sources.
func (c *Controller) Devices() int { return c.cfg.Devices }

// Contexts returns the configured number of consumer contexts.
func (c *Controller) Contexts() int { return c.cfg.Contexts }

// Base returns the configured MMIO base address.
func (c *Controller) Base() uint64 { return c.cfg.Base }

// fixedPriority reports whether the controller runs in the degenerate
// zero-level mode where priorities are pinned to 1 and thresholds to 0.
func (c *Controller) fixedPriority() bool {
	return c.levels == 0
}

func (c *Controller) pendingBit(device int) bool {
	return c.pending[device/32]&(1<<(device%32)) != 0
}

func (c *Controller) setPendingBit(device int, pending bool) {
	if pending {
		c.pending[device/32] |= 1 << (device % 32)
	} else {
		c.pending[device/32] &^= 1 << (device % 32)
	}
}

func (c *Controller) enabled(ctx, device int) bool {
	return c.enable[ctx][device/32]&(1<<(device%32)) != 0
}

// devicePriority returns the priority a device arbitrates with. Device 0
// always reads 0; in fixed-priority mode every real device is pinned to 1.
func (c *Controller) devicePriority(device int) uint32 {
	if device == 0 {
		return 0
	}
	if c.fixedPriority() {
		return 1
	}
	return c.priority[device]
}

func (c *Controller) contextThreshold(ctx int) uint32 {
	if c.fixedPriority() {
		return 0
	}
	return c.threshold[ctx]
}

// Pending reports whether a device has an unclaimed event.
func (c *Controller) Pending(device int) bool {
	if device <= 0 || device > c.cfg.Devices {
		return false
	}
	return c.pendingBit(device)
}

// Enabled reports whether a context has a device enabled.
func (c *Controller) Enabled(ctx, device int) bool {
	if ctx < 0 || ctx >= c.cfg.Contexts || device <= 0 || device > c.cfg.Devices {
		return false
	}
	return c.enabled(ctx, device)
}

// ContextPending reports the level of a context's interrupt-pending output.
func (c *Controller) ContextPending(ctx int) bool {
	if ctx < 0 || ctx >= c.cfg.Contexts {
		return false
	}
	return c.ip[ctx]
}

// SetContextSink attaches an output line to a context. The sink is called
// with the current level immediately and on every subsequent change.
func (c *Controller) SetContextSink(ctx int, sink OutputLine) {
	if ctx < 0 || ctx >= c.cfg.Contexts {
		return
	}
	c.sinks[ctx] = sink
	if sink != nil {
		sink.SetLevel(c.ip[ctx])
	}
}

// update recomputes every context's output line from the current pending,
// enable, priority and threshold state.
func (c *Controller) update() {
	for ctx := range c.ip {
		maxPriority, _ := c.arbitrate(ctx)
		high := maxPriority > c.contextThreshold(ctx)
		if high == c.ip[ctx] {
			continue
		}
		c.ip[ctx] = high
		if sink := c.sinks[ctx]; sink != nil {
			sink.SetLevel(high)
		}
	}
}

// Claim returns the highest-priority pending enabled device for a context
// and clears its pending bit. Returns 0 when nothing is pending.
func (c *Controller) Claim(ctx int) uint32 {
	if ctx < 0 || ctx >= c.cfg.Contexts {
		return 0
	}

	_, device := c.arbitrate(ctx)
	if device != 0 {
		c.setPendingBit(int(device), false)
		c.claimed[ctx] = device
	}

	c.update()
	return device
}

// Complete signals that a context finished servicing a device, re-arming
// its gateway. Completing a device the context has not enabled is a no-op.
func (c *Controller) Complete(ctx int, device uint32) {
	if ctx < 0 || ctx >= c.cfg.Contexts {
		return
	}
	if device == 0 || device > uint32(c.cfg.Devices) {
		return
	}
	if !c.enabled(ctx, int(device)) {
		return
	}

	if c.claimed[ctx] == device {
		c.claimed[ctx] = 0
	}

	c.gateways[device].inFlight = false

	// A still-asserted line produces a fresh event as soon as the gateway
	// re-arms.
	c.refreshGateway(int(device))
	c.update()
}
