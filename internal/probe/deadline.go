package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/devisefutures/check-CMD-plugin/internal/domain"
)

// RunWithDeadline races op against a hard wall-clock deadline,
// independent of the HTTP client's own timeout. Whichever finishes
// first wins; the loser is abandoned. Cancelling the context asks
// net/http to tear down any in-flight request, but cleanup is
// best-effort and the guard does not wait for it. The buffered channel
// lets a late op result be dropped without leaking the goroutine.
func RunWithDeadline(timeout time.Duration, op func(ctx context.Context) domain.ProbeOutcome) domain.ProbeOutcome {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan domain.ProbeOutcome, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case outcome := <-done:
		return outcome
	case <-ctx.Done():
		return domain.ProbeOutcome{
			ElapsedSeconds: timeout.Seconds(),
			Fault: &domain.FaultInfo{
				Kind:   domain.Timeout,
				Detail: fmt.Sprintf("plugin timed out after %g seconds", timeout.Seconds()),
			},
		}
	}
}
