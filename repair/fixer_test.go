package repair_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/mend"
	"github.com/fwojciec/mend/mock"
	"github.com/fwojciec/mend/repair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompiler returns a compiler that replays outputs in order,
// repeating the last one, and counts invocations.
func scriptedCompiler(outputs ...string) (*mock.Compiler, *int) {
	runs := 0
	c := &mock.Compiler{
		RunFn: func(ctx context.Context, target string) (string, error) {
			i := runs
			runs++
			if i >= len(outputs) {
				i = len(outputs) - 1
			}
			return outputs[i], nil
		},
	}
	return c, &runs
}

func fencedReply(content string) []mend.Part {
	return []mend.Part{mend.TextPart{Text: "```csharp\n" + content + "```"}}
}

func errorLine(path string) string {
	return path + "(1,1): error CS0103: The name 'x' does not exist"
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Program.cs")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFixer_CleanInitialCheckSendsNothing(t *testing.T) {
	t.Parallel()
	path := writeSource(t, "class A {}\n")
	comp, runs := scriptedCompiler("Build succeeded.")
	sends := 0
	gen := &mock.Generator{
		SendFn: func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
			sends++
			return fencedReply("class A {}\n"), nil
		},
	}

	f := repair.NewFixer(gen, repair.WithCompiler(comp, "/proj/App.csproj"))
	res, err := f.Fix(context.Background(), "ses_1", path)

	require.NoError(t, err)
	assert.Equal(t, repair.Result{Attempts: 0, Remaining: 0}, res)
	assert.Equal(t, 0, sends)
	assert.Equal(t, 1, *runs)
}

func TestFixer_DoneAfterOneFollowUp(t *testing.T) {
	t.Parallel()
	path := writeSource(t, "class A {\n")
	comp, runs := scriptedCompiler(errorLine(path), "Build succeeded.")

	var gotSession string
	var gotPrompt mend.Prompt
	sends := 0
	gen := &mock.Generator{
		SendFn: func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
			sends++
			gotSession = sessionID
			gotPrompt = prompt
			return fencedReply("class A {}\n"), nil
		},
	}

	f := repair.NewFixer(gen, repair.WithCompiler(comp, "/proj/App.csproj"))
	res, err := f.Fix(context.Background(), "ses_1", path)

	require.NoError(t, err)
	assert.Equal(t, repair.Result{Attempts: 1, Remaining: 0}, res)
	assert.Equal(t, 1, sends)
	assert.Equal(t, 2, *runs)
	assert.Equal(t, "ses_1", gotSession)
	assert.Contains(t, gotPrompt.Text, errorLine(path))
	assert.Contains(t, gotPrompt.Text, "fenced csharp code block")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "class A {}\n", string(data))
}

func TestFixer_AttemptBudget(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		opts     []repair.Option
		wantSent int
		wantRuns int
	}{
		{"default three attempts", nil, 3, 4},
		{"single attempt", []repair.Option{repair.WithAttempts(1)}, 1, 2},
		{"invalid attempts ignored", []repair.Option{repair.WithAttempts(0)}, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeSource(t, "class A {\n")
			comp, runs := scriptedCompiler(errorLine(path))
			sends := 0
			gen := &mock.Generator{
				SendFn: func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
					sends++
					return fencedReply("class A {\n"), nil
				},
			}

			opts := append([]repair.Option{repair.WithCompiler(comp, "/proj/App.csproj")}, tt.opts...)
			f := repair.NewFixer(gen, opts...)
			res, err := f.Fix(context.Background(), "ses_1", path)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, sends)
			assert.Equal(t, tt.wantSent, res.Attempts)
			assert.Equal(t, 1, res.Remaining)
			assert.Equal(t, tt.wantRuns, *runs)
		})
	}
}

func TestFixer_FollowUpQuotesAllDiagnostics(t *testing.T) {
	t.Parallel()
	path := writeSource(t, "class A {\n")
	first := path + "(1,1): error CS0103: The name 'x' does not exist"
	second := path + "[7,3]: error CS1002: ; expected"
	comp, _ := scriptedCompiler(first+"\n"+second, "Build succeeded.")

	var gotPrompt mend.Prompt
	gen := &mock.Generator{
		SendFn: func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
			gotPrompt = prompt
			return fencedReply("class A {}\n"), nil
		},
	}

	f := repair.NewFixer(gen, repair.WithCompiler(comp, "/proj/App.csproj"))
	_, err := f.Fix(context.Background(), "ses_1", path)

	require.NoError(t, err)
	assert.Contains(t, gotPrompt.Text, first)
	assert.Contains(t, gotPrompt.Text, second)
	assert.Empty(t, gotPrompt.Files)
}

func TestFixer_WritesBeforeRechecking(t *testing.T) {
	t.Parallel()
	path := writeSource(t, "class A {\n")
	runs := 0
	comp := &mock.Compiler{
		RunFn: func(ctx context.Context, target string) (string, error) {
			runs++
			if runs == 1 {
				return errorLine(path), nil
			}
			// The corrected content must already be on disk by the
			// time the build reruns.
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "class A {}\n", string(data))
			return "Build succeeded.", nil
		},
	}
	gen := &mock.Generator{
		SendFn: func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
			return fencedReply("class A {}\n"), nil
		},
	}

	f := repair.NewFixer(gen, repair.WithCompiler(comp, "/proj/App.csproj"))
	_, err := f.Fix(context.Background(), "ses_1", path)

	require.NoError(t, err)
	assert.Equal(t, 2, runs)
}

func TestFixer_SendFailureStopsLoop(t *testing.T) {
	t.Parallel()
	path := writeSource(t, "class A {\n")
	comp, _ := scriptedCompiler(errorLine(path))
	wantErr := errors.New("connection refused")
	gen := &mock.Generator{
		SendFn: func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
			return nil, wantErr
		},
	}

	f := repair.NewFixer(gen, repair.WithCompiler(comp, "/proj/App.csproj"))
	res, err := f.Fix(context.Background(), "ses_1", path)

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, repair.Result{Attempts: 0, Remaining: 1}, res)
}

func TestFixer_EmptyReply(t *testing.T) {
	t.Parallel()
	path := writeSource(t, "class A {\n")
	comp, _ := scriptedCompiler(errorLine(path))
	gen := &mock.Generator{
		SendFn: func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
			return []mend.Part{mend.TextPart{Text: "   \n"}}, nil
		},
	}

	f := repair.NewFixer(gen, repair.WithCompiler(comp, "/proj/App.csproj"))
	_, err := f.Fix(context.Background(), "ses_1", path)

	assert.ErrorIs(t, err, mend.ErrEmptyResponse)
}

func TestFixer_RequiresCompiler(t *testing.T) {
	t.Parallel()
	f := repair.NewFixer(&mock.Generator{})
	_, err := f.Fix(context.Background(), "ses_1", "/src/Program.cs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a compiler")
}
