package cli

import (
	"io"

	"github.com/okian/playerdex/pkg/logger"
)

// DefaultPrompt is printed before every REPL read.
const DefaultPrompt = "Enter a query (or 'sair' to quit): "

// Option applies a configuration option to the Shell.
type Option func(*Shell)

// WithInput sets the reader the REPL reads lines from.
func WithInput(r io.Reader) Option {
	return func(s *Shell) {
		if r != nil {
			s.in = r
		}
	}
}

// WithOutput sets where results are written.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		if w != nil {
			s.out = w
		}
	}
}

// WithMessages sets where notices such as "not found" are written.
// Defaults to the output writer.
func WithMessages(w io.Writer) Option {
	return func(s *Shell) {
		if w != nil {
			s.msg = w
		}
	}
}

// WithJSON renders results as JSON instead of tables.
func WithJSON(enabled bool) Option {
	return func(s *Shell) {
		s.json = enabled
	}
}

// WithPrompt sets the REPL prompt.
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithLogger sets a custom logger for the shell.
func WithLogger(l logger.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}
