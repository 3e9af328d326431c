package intc

import "testing"

func TestRegmapPriorityRegisters(t *testing.T) {
	ctl := newTestController(t, 4, 1, 7)

	if err := ctl.Write(PriorityBase+2*4, 4, 5); err != nil {
		t.Fatalf("write priority: %v", err)
	}
	if got, _ := ctl.Read(PriorityBase+2*4, 4); got != 5 {
		t.Fatalf("priority read = %d, want 5", got)
	}

	// Device 0 is reserved; the register exists but stays zero.
	if err := ctl.Write(PriorityBase, 4, 7); err != nil {
		t.Fatalf("write device 0 priority: %v", err)
	}
	if got, _ := ctl.Read(PriorityBase, 4); got != 0 {
		t.Fatalf("device 0 priority = %d, want 0", got)
	}

	// Values are truncated to the register width (7 levels -> 3 bits).
	if err := ctl.Write(PriorityBase+3*4, 4, 0xff); err != nil {
		t.Fatalf("write priority: %v", err)
	}
	if got, _ := ctl.Read(PriorityBase+3*4, 4); got != 7 {
		t.Fatalf("priority read = %d, want masked 7", got)
	}
}

func TestRegmapPendingBitsReadOnly(t *testing.T) {
	ctl := newTestController(t, 4, 1, 7)
	ctl.SetLevel(3, true)

	word, _ := ctl.Read(PendingBase, 4)
	if word != 1<<3 {
		t.Fatalf("pending word = %#x, want %#x", word, 1<<3)
	}

	if err := ctl.Write(PendingBase, 4, 0); err != nil {
		t.Fatalf("write pending: %v", err)
	}
	if word, _ := ctl.Read(PendingBase, 4); word != 1<<3 {
		t.Fatalf("pending word changed by write: %#x", word)
	}
}

func TestRegmapEnableStride(t *testing.T) {
	ctl := newTestController(t, 40, 2, 7)

	// Context 1's enable block sits one stride after context 0's.
	if err := ctl.Write(EnableBase+EnableStride, 4, 1<<5); err != nil {
		t.Fatalf("write enable: %v", err)
	}
	if got, _ := ctl.Read(EnableBase+EnableStride, 4); got != 1<<5 {
		t.Fatalf("context 1 enable word = %#x, want %#x", got, 1<<5)
	}
	if got, _ := ctl.Read(EnableBase, 4); got != 0 {
		t.Fatalf("context 0 enable word = %#x, want 0", got)
	}
	if !ctl.Enabled(1, 5) || ctl.Enabled(0, 5) {
		t.Fatalf("enable bit routed to wrong context")
	}

	// Second enable word covers devices 32..40.
	if err := ctl.Write(EnableBase+4, 4, 1<<1); err != nil {
		t.Fatalf("write enable word 1: %v", err)
	}
	if !ctl.Enabled(0, 33) {
		t.Fatalf("device 33 not enabled via word 1")
	}
}

func TestRegmapEnableBitZeroPinned(t *testing.T) {
	ctl := newTestController(t, 4, 1, 7)

	if err := ctl.Write(EnableBase, 4, ^uint64(0)); err != nil {
		t.Fatalf("write enable: %v", err)
	}
	word, _ := ctl.Read(EnableBase, 4)
	if word&1 != 0 {
		t.Fatalf("enable bit 0 stuck high: %#x", word)
	}
	// Bits past the device count do not exist either.
	if word != 0b11110 {
		t.Fatalf("enable word = %#x, want 0b11110", word)
	}
}

func TestRegmapHartBlocks(t *testing.T) {
	ctl := newTestController(t, 4, 3, 7)
	enableDevice(t, ctl, 2, 1)
	setPriority(t, ctl, 1, 5)

	// Threshold registers are per context with a 0x1000 stride.
	if err := ctl.Write(HartBase+2*HartStride, 4, 3); err != nil {
		t.Fatalf("write threshold: %v", err)
	}
	if got, _ := ctl.Read(HartBase+2*HartStride, 4); got != 3 {
		t.Fatalf("context 2 threshold = %d, want 3", got)
	}
	if got, _ := ctl.Read(HartBase, 4); got != 0 {
		t.Fatalf("context 0 threshold = %d, want 0", got)
	}

	// Reading the claim register claims; writing it completes.
	ctl.SetLevel(1, true)
	got, err := ctl.Read(HartBase+2*HartStride+4, 4)
	if err != nil {
		t.Fatalf("claim read: %v", err)
	}
	if got != 1 {
		t.Fatalf("claim read = %d, want 1", got)
	}
	if ctl.Pending(1) {
		t.Fatalf("claim read did not clear pending")
	}

	if err := ctl.Write(HartBase+2*HartStride+4, 4, 1); err != nil {
		t.Fatalf("complete write: %v", err)
	}
	if !ctl.Pending(1) {
		t.Fatalf("complete write did not re-arm the still-asserted gateway")
	}
}

func TestRegmapReservedOffsets(t *testing.T) {
	ctl := newTestController(t, 4, 1, 7)
	enableDevice(t, ctl, 0, 1)
	setPriority(t, ctl, 1, 5)
	ctl.SetLevel(1, true)

	reserved := []uint64{
		PriorityBase + 5*4,        // past the last device
		PendingBase + 0x800,       // past the pending words
		EnableBase + EnableStride, // past the last context
		HartBase + 8,              // reserved hart register
		HartBase + HartStride,     // past the last context
		RegionSize - 4,
	}
	for _, offset := range reserved {
		if got, err := ctl.Read(offset, 4); err != nil || got != 0 {
			t.Fatalf("reserved read at 0x%x = (%d, %v), want (0, nil)", offset, got, err)
		}
		if err := ctl.Write(offset, 4, ^uint64(0)); err != nil {
			t.Fatalf("reserved write at 0x%x: %v", offset, err)
		}
	}

	// None of that disturbed live state.
	if !ctl.Pending(1) || !ctl.ContextPending(0) {
		t.Fatalf("reserved accesses disturbed controller state")
	}
}

func TestRegmapRegionSize(t *testing.T) {
	ctl := newTestController(t, 4, 1, 7)
	if got := ctl.Size(); got != RegionSize {
		t.Fatalf("Size() = %#x, want %#x", got, RegionSize)
	}
	if RegionSize != 0x0400_0000 {
		t.Fatalf("RegionSize = %#x, want 0x0400_0000", RegionSize)
	}
}
