package triscan

import (
	"fmt"
	"runtime"
)

// Strategy selects how a batch operation distributes its work across workers.
type Strategy uint8

const (
	// StrategyDataParallel splits the item domain into contiguous sub-ranges,
	// one per worker, with no queueing at all.
	StrategyDataParallel Strategy = iota

	// StrategyCentralizedQueue splits the item domain into chunks pushed
	// through one shared queue that every worker drains. Balances load
	// dynamically when items have uneven cost.
	StrategyCentralizedQueue

	// StrategyRoundRobin assigns chunk i to the private queue of worker
	// i mod workerCount. Workers never contend on a queue, at the cost of
	// load imbalance when chunk costs are uneven.
	StrategyRoundRobin
)

// String returns the stable name of the strategy, the inverse of
// ParseStrategy.
func (s Strategy) String() string {
	switch s {
	case StrategyDataParallel:
		return "data_parallel"
	case StrategyCentralizedQueue:
		return "centralized_queue"
	case StrategyRoundRobin:
		return "round_robin"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// ParseStrategy resolves a strategy name produced by String.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "data_parallel":
		return StrategyDataParallel, nil
	case "centralized_queue":
		return StrategyCentralizedQueue, nil
	case "round_robin":
		return StrategyRoundRobin, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Strategies returns all execution strategies, in declaration order.
func Strategies() []Strategy {
	return []Strategy{StrategyDataParallel, StrategyCentralizedQueue, StrategyRoundRobin}
}

// DefaultWorkerCount is the number of workers a batch operation uses when not
// configured explicitly: the number of available execution contexts, falling
// back to 4 if that cannot be determined.
func DefaultWorkerCount() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 4
}
