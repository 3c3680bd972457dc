package monitoring

import (
	"github.com/rs/zerolog/log"
)

// Alert reports an operational problem that needs admin attention
// (logs for now; a pager integration can hook in here)
func Alert(message string, labels map[string]string) {
	log.Error().
		Str("alert", message).
		Fields(labels).
		Msg("ALERT: operational issue detected")
}
