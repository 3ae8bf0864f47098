/*
notify.go - Log-backed notification sink

PURPOSE:
  Default implementation of punchclock.NotificationSink. Cycle closures
  are announced on the server log; a real deployment would swap in push
  or e-mail delivery behind the same interface.

DELIVERY CONTRACT:
  Fire-and-forget. The cycle engine ignores sink failures, so this
  implementation never returns errors and never blocks.

SEE ALSO:
  - punchclock/store.go: NotificationSink interface
  - punchclock/cycle.go: The caller
*/
package api

import (
	"log"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

// LogNotifier announces cycle closures on the standard logger.
type LogNotifier struct{}

func (LogNotifier) CycleClosed(closure punchclock.CycleClosure) {
	log.Printf("[Notify] Cycle %s closed for %s (%s): balance %s minutes zeroed",
		closure.Period, closure.EmployerID, closure.Type, closure.PriorBalance.Value)
}
