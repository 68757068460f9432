// Package obslog provides the structured-logging register this module
// uses everywhere except cmd/server's human-operated startup banner
// (which keeps the teacher's plain log.Printf + emoji style). Grounded
// on the sibling event-indexer/payout-engine/webhook-handler services
// in the same monorepo as the teacher, all of which log through
// zerolog rather than the standard library's log package.
package obslog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the base logger every package-level service derives its
// own sub-logger from via .With().Str("component", ...).
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Component returns a logger tagged with the given component name.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
