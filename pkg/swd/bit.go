package swd

// Bit is one SWCLK low-high-low cycle. StateRising holds SWDIO one sample
// before the rising edge (what the receiver latches), StateFalling holds
// SWDIO at the falling edge (what the sender drives).
type Bit struct {
	LowStart     int64
	Rising       int64
	StateRising  BitState
	Falling      int64
	StateFalling BitState
	LowEnd       int64
}

// IsHigh reports the bit value in the requested sampling direction.
func (b Bit) IsHigh(rising bool) bool {
	if rising {
		return b.StateRising == High
	}
	return b.StateFalling == High
}

func (b Bit) halfWindow() int64 {
	s := (b.Rising - b.LowStart) / 2
	e := (b.LowEnd - b.Falling) / 2
	if s < e {
		return s
	}
	return e
}

// StartSample is the first sample of the bit's display window. Windows of
// adjacent bits never overlap.
func (b Bit) StartSample() int64 {
	return b.Rising - b.halfWindow() + 1
}

// EndSample is the last sample of the bit's display window.
func (b Bit) EndSample() int64 {
	return b.Falling + b.halfWindow() - 1
}
