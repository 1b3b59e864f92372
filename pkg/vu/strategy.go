package vu

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xyproto/env/v2"
	"golang.org/x/sys/cpu"
)

// Strategy selects how handlers process the eight lanes.
type Strategy int

const (
	StrategyAuto   Strategy = iota // pick from the host CPU at New
	StrategyScalar                 // one lane at a time
	StrategyWide                   // four lanes per 64-bit word
)

// PortableEnv forces the scalar path when set to a true value.
const PortableEnv = "VU_PORTABLE"

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyScalar:
		return "scalar"
	case StrategyWide:
		return "wide"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StrategyAuto, nil
	case "scalar", "portable":
		return StrategyScalar, nil
	case "wide", "simd":
		return StrategyWide, nil
	}
	return StrategyAuto, fmt.Errorf("unknown strategy %q", s)
}

// envMu serializes env.Load, which swaps the package-wide cache.
var envMu sync.Mutex

// SelectStrategy picks the wide path when the host has 128-bit integer
// vectors and VU_PORTABLE is not set. The environment is re-read on
// every call.
func SelectStrategy() Strategy {
	envMu.Lock()
	env.Load()
	portable := env.Bool(PortableEnv)
	envMu.Unlock()
	if portable {
		return StrategyScalar
	}
	if cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD {
		return StrategyWide
	}
	return StrategyScalar
}
