// Package plic provides a behavioral model of a platform-level interrupt
// controller: a shared arbiter that collects level-triggered interrupt lines
// from many devices and routes the highest-priority pending event to each of
// several consumer contexts through a claim/complete register protocol.
package plic

import (
	"github.com/tinyrange/plic/internal/bus"
	"github.com/tinyrange/plic/internal/intc"
	"github.com/tinyrange/plic/internal/platform"
)

// -----------------------------------------------------------------------------
// Type Aliases - These re-export types from internal packages
// -----------------------------------------------------------------------------

// Config describes a controller instance: device, context and priority-level
// counts plus the MMIO base address.
type Config = intc.Config

// Controller is the interrupt controller model. It implements Device over
// its own register window.
type Controller = intc.Controller

// Snapshot captures the full mutable state of a Controller.
type Snapshot = intc.Snapshot

// OutputLine receives level changes of a context's interrupt-pending output.
type OutputLine = intc.OutputLine

// Device is a memory-mapped device addressable by offset.
type Device = bus.Device

// Bus dispatches sized reads and writes to memory-mapped devices.
type Bus = bus.Bus

// MemoryRegion is a RAM-backed Device.
type MemoryRegion = bus.MemoryRegion

// Builder assembles a Platform from devices and an interrupt sink.
type Builder = platform.Builder

// Platform is a built MMIO dispatch surface plus interrupt line fabric.
type Platform = platform.Platform

// InputLine models one device's level-triggered interrupt line.
type InputLine = platform.InputLine

// InterruptSink receives interrupt assertions for a given line.
type InterruptSink = platform.InterruptSink

// LineSet hands out per-device line handles feeding an InterruptSink.
type LineSet = platform.LineSet

// Architectural limits and defaults.
const (
	MaxDevices  = intc.MaxDevices
	MaxContexts = intc.MaxContexts
	DefaultBase = intc.DefaultBase
)

// Register layout within the controller's MMIO window.
const (
	PriorityBase = intc.PriorityBase
	PendingBase  = intc.PendingBase
	EnableBase   = intc.EnableBase
	HartBase     = intc.HartBase
	EnableStride = intc.EnableStride
	HartStride   = intc.HartStride
	RegionSize   = intc.RegionSize
)

// New constructs a Controller, refusing invalid configuration bounds.
func New(cfg Config) (*Controller, error) {
	return intc.New(cfg)
}

// LoadConfig reads a yaml controller configuration from path.
func LoadConfig(path string) (Config, error) {
	return intc.LoadConfig(path)
}

// NewBuilder returns an empty platform Builder.
func NewBuilder() *Builder {
	return platform.NewBuilder()
}

// NewBus creates an empty device bus.
func NewBus() *Bus {
	return bus.New()
}

// NewLineSet builds a LineSet forwarding assertions to the provided sink.
func NewLineSet(sink InterruptSink) *LineSet {
	return platform.NewLineSet(sink)
}
