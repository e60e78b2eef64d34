package mock

import "context"

// Compiler is a test double for mend.Compiler.
// Set RunFn before calling Run.
type Compiler struct {
	RunFn func(ctx context.Context, target string) (string, error)
}

// Run delegates to RunFn.
func (c *Compiler) Run(ctx context.Context, target string) (string, error) {
	return c.RunFn(ctx, target)
}
