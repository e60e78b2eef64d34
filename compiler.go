package mend

import "context"

// Compiler invokes an external build on a project or solution and returns
// its combined stdout+stderr. The output is returned even when the build
// fails: a non-zero exit is the expected case when errors exist, and a
// launch failure still yields whatever output was captured. The error
// reports exit status or launch failure for callers that want to surface it.
type Compiler interface {
	Run(ctx context.Context, target string) (string, error)
}
