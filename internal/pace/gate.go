// Package pace holds the speed multiplier gate and the real-time frame
// skipper that decide which emulated frames and audio chunks reach a host.
package pace

import (
	"errors"
	"fmt"
)

var ErrInvalidSpeed = errors.New("invalid speed")

// Gate lets one call in every divisor through. A divisor of 1 is normal
// speed; N drops N-1 of every N outputs so the machine runs N times faster
// against a fixed-rate host. The zero value passes every call.
type Gate struct {
	counter int
	divisor int
}

// NewGate returns a gate at normal speed.
func NewGate() *Gate { return &Gate{divisor: 1} }

// Tick advances the counter and reports whether this call produces output.
func (g *Gate) Tick() bool {
	if g.divisor <= 1 {
		return true
	}
	g.counter = (g.counter + 1) % g.divisor
	return g.counter == 0
}

// SetSpeed changes the divisor. Non-positive values are rejected and the
// previous speed is kept.
func (g *Gate) SetSpeed(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSpeed, n)
	}
	g.divisor = n
	g.counter = 0
	return nil
}

// Speed returns the current divisor.
func (g *Gate) Speed() int {
	if g.divisor <= 0 {
		return 1
	}
	return g.divisor
}
