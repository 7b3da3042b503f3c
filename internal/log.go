package internal

import "github.com/rs/zerolog"

// logger is an optional structured logger. The default discards everything,
// keeping the library silent unless the host application installs one.
var logger = zerolog.Nop()

// SetLogger installs a structured logger used for flush and failure traces.
func SetLogger(l zerolog.Logger) {
	logger = l
}
