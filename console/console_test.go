package console_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/mend"
	"github.com/fwojciec/mend/console"
	"github.com/fwojciec/mend/repair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance check.
var _ repair.Reporter = (*console.Reporter)(nil)

func plainReporter(opts ...console.Option) (*console.Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	opts = append([]console.Option{console.WithNoColor()}, opts...)
	return console.NewReporter(&buf, opts...), &buf
}

func TestReporter_FileStart(t *testing.T) {
	t.Parallel()
	r, buf := plainReporter()
	r.FileStart("/src/Program.cs", 1, 3)
	assert.Equal(t, "[1/3] /src/Program.cs\n", buf.String())
}

func TestReporter_Attempt(t *testing.T) {
	t.Parallel()
	r, buf := plainReporter()
	r.Attempt(2, 3)
	assert.Equal(t, "fix attempt 2/3\n", buf.String())
}

func TestReporter_DiagnosticsTruncated(t *testing.T) {
	t.Parallel()
	r, buf := plainReporter(console.WithWidth(10))
	r.Diagnostics([]string{strings.Repeat("a", 15)})
	assert.Equal(t, strings.Repeat("a", 9)+"…\n", buf.String())
}

func TestReporter_DiagnosticsUntruncated(t *testing.T) {
	t.Parallel()
	line := "/src/Program.cs(12,5): error CS0103: The name 'x' does not exist"
	r, buf := plainReporter(console.WithWidth(0))
	r.Diagnostics([]string{line})
	assert.Equal(t, line+"\n", buf.String())
}

func TestReporter_Preview(t *testing.T) {
	t.Parallel()
	t.Run("appends missing newline", func(t *testing.T) {
		t.Parallel()
		r, buf := plainReporter()
		r.Preview("/src/Program.cs", "class A {}")
		assert.Equal(t,
			"--- preview: /src/Program.cs ---\nclass A {}\n--- end preview ---\n",
			buf.String())
	})

	t.Run("keeps existing newline", func(t *testing.T) {
		t.Parallel()
		r, buf := plainReporter()
		r.Preview("/src/Program.cs", "class A {}\n")
		assert.Equal(t,
			"--- preview: /src/Program.cs ---\nclass A {}\n--- end preview ---\n",
			buf.String())
	})
}

func TestReporter_Result(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		report mend.Report
		want   string
	}{
		{
			"written without attempts",
			mend.Report{Outcome: mend.OutcomeWritten},
			"✓ written\n",
		},
		{
			"written after attempts",
			mend.Report{Outcome: mend.OutcomeWritten, Attempts: 2},
			"✓ written after 2 fix attempts\n",
		},
		{
			"written after one attempt",
			mend.Report{Outcome: mend.OutcomeWritten, Attempts: 1},
			"✓ written after 1 fix attempt\n",
		},
		{
			"previewed",
			mend.Report{Outcome: mend.OutcomePreviewed},
			"✓ previewed\n",
		},
		{
			"unchanged",
			mend.Report{Outcome: mend.OutcomeUnchanged},
			"• no changes\n",
		},
		{
			"errors remain",
			mend.Report{Outcome: mend.OutcomeErrorsRemain, Attempts: 3, Remaining: 2},
			"✗ errors remain (2 errors)\n",
		},
		{
			"failed",
			mend.Report{Outcome: mend.OutcomeFailed, Err: errors.New("connection refused")},
			"✗ connection refused\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, buf := plainReporter()
			r.Result(tt.report)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestReporter_Summary(t *testing.T) {
	t.Parallel()
	r, buf := plainReporter()
	r.Summary([]mend.Report{
		{Outcome: mend.OutcomeWritten},
		{Outcome: mend.OutcomeWritten},
		{Outcome: mend.OutcomeUnchanged},
		{Outcome: mend.OutcomeFailed},
	})
	assert.Equal(t, "4 files: 2 written, 1 no changes, 1 error\n", buf.String())
}

func TestReporter_SummaryEmpty(t *testing.T) {
	t.Parallel()
	r, buf := plainReporter()
	r.Summary(nil)
	assert.Empty(t, buf.String())
}

func TestReporter_StreamEnd(t *testing.T) {
	t.Parallel()
	t.Run("closes an open line", func(t *testing.T) {
		t.Parallel()
		r, buf := plainReporter()
		_, err := r.Stream().Write([]byte("partial output"))
		require.NoError(t, err)
		r.StreamEnd()
		assert.Equal(t, "partial output\n", buf.String())
	})

	t.Run("leaves a closed line alone", func(t *testing.T) {
		t.Parallel()
		r, buf := plainReporter()
		_, err := r.Stream().Write([]byte("full line\n"))
		require.NoError(t, err)
		r.StreamEnd()
		assert.Equal(t, "full line\n", buf.String())
	})

	t.Run("silent when nothing streamed", func(t *testing.T) {
		t.Parallel()
		r, buf := plainReporter()
		r.StreamEnd()
		assert.Empty(t, buf.String())
	})
}
