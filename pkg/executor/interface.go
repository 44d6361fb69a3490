package executor

import "context"

// Executor runs external commands. It exists as an interface so
// capabilities that shell out can be tested without the real binary.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}
