package intc

// arbitrate finds the highest-priority pending enabled device for a
// context. Ties resolve to the lower device id: the scan runs in id order
// and only a strictly greater priority replaces the current winner. A
// device with priority 0 never wins; (0, 0) means nothing is pending.
//
// The threshold does not participate here. It only gates the context's
// output line, never which device a claim observes.
func (c *Controller) arbitrate(ctx int) (maxPriority, maxDevice uint32) {
	for word, pendingWord := range c.pending {
		ready := pendingWord & c.enable[ctx][word]
		if ready == 0 {
			continue
		}

		for bit := 0; bit < 32; bit++ {
			if ready&(1<<bit) == 0 {
				continue
			}
			device := word*32 + bit
			if device > c.cfg.Devices {
				break
			}
			if priority := c.devicePriority(device); priority > maxPriority {
				maxPriority = priority
				maxDevice = uint32(device)
			}
		}
	}

	return maxPriority, maxDevice
}
