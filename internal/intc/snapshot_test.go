package intc

import (
	"bytes"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	src := newTestController(t, 8, 2, 7)
	enableDevice(t, src, 0, 1)
	enableDevice(t, src, 0, 2)
	enableDevice(t, src, 1, 2)
	setPriority(t, src, 1, 3)
	setPriority(t, src, 2, 5)
	setThreshold(t, src, 1, 2)

	src.SetLevel(1, true)
	src.SetLevel(2, true)
	if got := src.Claim(0); got != 2 {
		t.Fatalf("claim = %d, want 2", got)
	}
	// Device 2 is now claimed-but-not-completed, device 1 still pending.

	var buf bytes.Buffer
	if err := src.EncodeSnapshot(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dst := newTestController(t, 8, 2, 7)
	if err := dst.DecodeSnapshot(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !dst.Pending(1) || dst.Pending(2) {
		t.Fatalf("pending state not restored")
	}
	if !dst.Enabled(0, 1) || !dst.Enabled(1, 2) || dst.Enabled(1, 1) {
		t.Fatalf("enable state not restored")
	}
	if !dst.ContextPending(0) {
		t.Fatalf("context 0 output not recomputed after restore")
	}

	// The restored gateway for device 2 must still be in flight: the held
	// line may not refire until completion.
	dst.SetLevel(2, false)
	dst.SetLevel(2, true)
	if dst.Pending(2) {
		t.Fatalf("restored gateway refired before completion")
	}
	dst.Complete(0, 2)
	if !dst.Pending(2) {
		t.Fatalf("restored gateway did not re-arm on completion")
	}
}

func TestSnapshotConfigMismatch(t *testing.T) {
	src := newTestController(t, 8, 2, 7)
	snap := src.CaptureSnapshot()

	wrongDevices := newTestController(t, 4, 2, 7)
	if err := wrongDevices.RestoreSnapshot(snap); err == nil {
		t.Fatalf("device count mismatch accepted")
	}

	wrongContexts := newTestController(t, 8, 3, 7)
	if err := wrongContexts.RestoreSnapshot(snap); err == nil {
		t.Fatalf("context count mismatch accepted")
	}

	if err := src.RestoreSnapshot(nil); err == nil {
		t.Fatalf("nil snapshot accepted")
	}
}
