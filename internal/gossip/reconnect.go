package gossip

import (
	"os"
	"time"
)

const (
	reconnectInitialDelay = 10 * time.Second
	reconnectRecheckDelay = 5 * time.Second
)

// scheduleLivenessCheck arms a one-shot liveness check: the delay is 10s
// for the first socket close and 5s for every close after it (spec §4.4
// "Reconnect/restart"). teardownSocket calls this on every socket close.
// If no socket is OPEN when the check fires, the process exits and relies
// on an external supervisor to restart it.
func (m *Mesh) scheduleLivenessCheck(delay time.Duration) {
	time.Sleep(delay)
	if m.OpenCount() == 0 {
		m.logger.Error().Msg("no open peer connections after reconnect window, exiting for supervisor restart")
		os.Exit(0)
	}
}
