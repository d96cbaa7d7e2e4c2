package query

// DefaultHistoryLimit caps UserHistory results unless overridden.
const DefaultHistoryLimit = 20

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithHistoryLimit sets the maximum number of entries UserHistory returns.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}
