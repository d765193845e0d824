package format

// Options controls formatting behavior for human-readable CLI output.
type Options struct {
	UseColors bool
	MaxWidth  int // max content width, 0 = no limit
	MaxLines  int // max content lines, 0 = no limit
}

// DefaultOptions returns sensible defaults for an interactive terminal.
func DefaultOptions() Options {
	return Options{UseColors: true, MaxWidth: 80, MaxLines: 10}
}

// PlainOptions returns options for a non-TTY destination (pipes, redirected output).
func PlainOptions() Options {
	return Options{UseColors: false, MaxWidth: 0, MaxLines: 0}
}
