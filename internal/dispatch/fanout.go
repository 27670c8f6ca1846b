package dispatch

import (
	"context"
	"sync"
)

// Outcome is the settled result of one independent operation: either a
// payload or an error message, never both.
type Outcome struct {
	OK      bool   `json:"ok"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Operation is one keyed unit of work for Settle.
type Operation struct {
	Key string
	Run func(ctx context.Context) (any, error)
}

// KeyedOutcome pairs an operation key with its settled outcome.
type KeyedOutcome struct {
	Key string
	Outcome
}

// Settle launches every operation concurrently and waits for all of them
// to finish, success or failure. One operation failing never aborts or
// hides its siblings: the returned slice always has exactly one entry per
// operation, in input order, regardless of completion order. Each
// goroutine writes only its own slot, so no locking is needed.
func Settle(ctx context.Context, ops []Operation) []KeyedOutcome {
	results := make([]KeyedOutcome, len(ops))

	var wg sync.WaitGroup
	for i, op := range ops {
		wg.Add(1)
		go func(i int, op Operation) {
			defer wg.Done()
			payload, err := op.Run(ctx)
			if err != nil {
				results[i] = KeyedOutcome{Key: op.Key, Outcome: Outcome{Error: err.Error()}}
				return
			}
			results[i] = KeyedOutcome{Key: op.Key, Outcome: Outcome{OK: true, Payload: payload}}
		}(i, op)
	}
	wg.Wait()
	return results
}
