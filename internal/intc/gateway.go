package intc

// gateway shapes one device's level-triggered input line into single pending
// events. While an event is in flight the line may stay asserted, drop, or
// re-assert without producing another event; only a completion re-arms it.
type gateway struct {
	level    bool
	inFlight bool
}

// refreshGateway forwards a new event into the pending state when the
// device's line is asserted, the gateway is idle, and the pending bit is
// clear (the "ready" condition).
func (c *Controller) refreshGateway(device int) {
	g := &c.gateways[device]
	if g.level && !g.inFlight && !c.pendingBit(device) {
		g.inFlight = true
		c.setPendingBit(device, true)
	}
}

// SetLevel drives the level of one device's interrupt line. Device ids
// outside [1, Devices] are ignored.
func (c *Controller) SetLevel(device int, high bool) {
	if device <= 0 || device > c.cfg.Devices {
		return
	}

	g := &c.gateways[device]
	if g.level == high {
		return
	}
	g.level = high

	if high {
		c.refreshGateway(device)
	}
	c.update()
}

// SetIRQ drives a device line. It mirrors SetLevel with the signature used
// by interrupt sinks.
func (c *Controller) SetIRQ(line int, high bool) {
	c.SetLevel(line, high)
}
