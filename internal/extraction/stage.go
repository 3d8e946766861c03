package extraction

import "context"

// Stage is the uniform contract every pipeline stage implements.
// A stage reads a snapshot of the state and returns a partial update;
// it never mutates the state it receives. Read/write declarations let
// the machine verify that forked stages are independent.
type Stage interface {
	// Phase identifies the stage in the machine's transition table.
	Phase() Phase
	// Reads lists the state fields the stage consumes.
	Reads() []Field
	// Writes lists the state fields the stage's delta may set.
	Writes() []Field
	// Run executes the stage against a state snapshot.
	Run(ctx context.Context, s State) (Delta, error)
}
