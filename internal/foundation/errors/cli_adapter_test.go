package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "markdown", err: NewError(CategoryMarkdown, "unbalanced").Fatal().UserAction().Build(), expected: 4},
		{name: "template", err: NewError(CategoryTemplate, "no placeholder").Fatal().UserAction().Build(), expected: 4},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "internal", err: NewError(CategoryInternal, "bug").Fatal().Build(), expected: 10},
		{name: "filesystem", err: FileSystemError("write failed").Build(), expected: 11},
		{name: "unclassified", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	t.Run("user error shows message and context", func(t *testing.T) {
		adapter := NewCLIErrorAdapter(false, slog.Default())
		err := NewError(CategoryMarkdown, "unbalanced delimiter").Fatal().UserAction().WithContext("page", "index.md").Build()

		got := adapter.FormatError(err)
		if !strings.HasPrefix(got, "Error: unbalanced delimiter") {
			t.Errorf("unexpected message: %q", got)
		}
		if !strings.Contains(got, "page: index.md") {
			t.Errorf("expected context in message: %q", got)
		}
	})

	t.Run("internal error hidden unless verbose", func(t *testing.T) {
		err := NewError(CategoryInternal, "shape mismatch").Fatal().Build()
		quiet := NewCLIErrorAdapter(false, slog.Default())
		if got := quiet.FormatError(err); !strings.Contains(got, "use -v") {
			t.Errorf("expected hint, got %q", got)
		}
		loud := NewCLIErrorAdapter(true, slog.Default())
		if got := loud.FormatError(err); !strings.Contains(got, "shape mismatch") {
			t.Errorf("expected details, got %q", got)
		}
	})
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("missing template").Build())

	if code != 7 {
		t.Errorf("expected exit code 7, got %d", code)
	}
	if !strings.Contains(out.String(), "missing template") {
		t.Errorf("expected message on output, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=config") {
		t.Errorf("expected fatal error to be logged, got %q", logs.String())
	}
}
