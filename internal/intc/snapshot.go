package intc

import (
	"encoding/gob"
	"fmt"
	"io"
)

// Snapshot captures the full mutable state of a controller.
type Snapshot struct {
	Priority  []uint32
	Pending   []uint32
	Enable    [][]uint32
	Threshold []uint32
	Claimed   []uint32

	Levels   []bool
	InFlight []bool
}

func init() {
	// Register the snapshot type for gob encoding/decoding so controller
	// state can be embedded in larger machine snapshots.
	gob.Register(&Snapshot{})
}

// CaptureSnapshot copies the controller's mutable state.
func (c *Controller) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{
		Priority:  append([]uint32(nil), c.priority...),
		Pending:   append([]uint32(nil), c.pending...),
		Enable:    make([][]uint32, len(c.enable)),
		Threshold: append([]uint32(nil), c.threshold...),
		Claimed:   append([]uint32(nil), c.claimed...),
		Levels:    make([]bool, len(c.gateways)),
		InFlight:  make([]bool, len(c.gateways)),
	}

	for ctx := range c.enable {
		snap.Enable[ctx] = append([]uint32(nil), c.enable[ctx]...)
	}
	for device, g := range c.gateways {
		snap.Levels[device] = g.level
		snap.InFlight[device] = g.inFlight
	}

	return snap
}

// RestoreSnapshot replaces the controller's state with a snapshot captured
// from an identically configured controller.
func (c *Controller) RestoreSnapshot(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("intc: nil snapshot")
	}
	if len(snap.Priority) != len(c.priority) {
		return fmt.Errorf("intc: snapshot device count mismatch: got %d, want %d", len(snap.Priority)-1, c.cfg.Devices)
	}
	if len(snap.Enable) != len(c.enable) || len(snap.Threshold) != len(c.threshold) || len(snap.Claimed) != len(c.claimed) {
		return fmt.Errorf("intc: snapshot context count mismatch: got %d, want %d", len(snap.Threshold), c.cfg.Contexts)
	}
	if len(snap.Pending) != len(c.pending) {
		return fmt.Errorf("intc: snapshot pending word count mismatch: got %d, want %d", len(snap.Pending), len(c.pending))
	}
	if len(snap.Levels) != len(c.gateways) || len(snap.InFlight) != len(c.gateways) {
		return fmt.Errorf("intc: snapshot gateway count mismatch: got %d, want %d", len(snap.Levels), len(c.gateways))
	}
	for ctx := range snap.Enable {
		if len(snap.Enable[ctx]) != len(c.enable[ctx]) {
			return fmt.Errorf("intc: snapshot enable word count mismatch for context %d", ctx)
		}
	}

	copy(c.priority, snap.Priority)
	copy(c.pending, snap.Pending)
	copy(c.threshold, snap.Threshold)
	copy(c.claimed, snap.Claimed)
	for ctx := range snap.Enable {
		copy(c.enable[ctx], snap.Enable[ctx])
	}
	for device := range c.gateways {
		c.gateways[device].level = snap.Levels[device]
		c.gateways[device].inFlight = snap.InFlight[device]
	}

	c.update()
	return nil
}

// EncodeSnapshot writes the current state to w with gob.
func (c *Controller) EncodeSnapshot(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(c.CaptureSnapshot()); err != nil {
		return fmt.Errorf("intc: encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a gob snapshot from r and restores it.
func (c *Controller) DecodeSnapshot(r io.Reader) error {
	var snap Snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("intc: decode snapshot: %w", err)
	}
	return c.RestoreSnapshot(&snap)
}
