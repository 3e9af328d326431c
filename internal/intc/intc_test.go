package intc

import "testing"

// newTestController builds a controller or fails the test.
func newTestController(t *testing.T, devices, contexts, priorities int) *Controller {
	t.Helper()
	ctl, err := New(Config{Devices: devices, Contexts: contexts, Priorities: priorities})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ctl
}

// enableDevice sets one enable bit through the register interface.
func enableDevice(t *testing.T, ctl *Controller, ctx, device int) {
	t.Helper()
	offset := uint64(EnableBase) + uint64(ctx)*EnableStride + uint64(device/32)*4
	word, err := ctl.Read(offset, 4)
	if err != nil {
		t.Fatalf("read enable word: %v", err)
	}
	word |= 1 << (device % 32)
	if err := ctl.Write(offset, 4, word); err != nil {
		t.Fatalf("write enable word: %v", err)
	}
}

// setPriority programs one priority register.
func setPriority(t *testing.T, ctl *Controller, device int, priority uint32) {
	t.Helper()
	if err := ctl.Write(uint64(PriorityBase)+uint64(device)*4, 4, uint64(priority)); err != nil {
		t.Fatalf("write priority: %v", err)
	}
}

// setThreshold programs one context threshold register.
func setThreshold(t *testing.T, ctl *Controller, ctx int, threshold uint32) {
	t.Helper()
	if err := ctl.Write(uint64(HartBase)+uint64(ctx)*HartStride, 4, uint64(threshold)); err != nil {
		t.Fatalf("write threshold: %v", err)
	}
}
