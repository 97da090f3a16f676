package reencrypt

import (
	"context"
)

// Task is the handle of a running job.
type Task struct {
	job    *Job
	done   chan struct{}
	cancel context.CancelFunc
}

func (t *Task) JobID() string { return t.job.id }

func (t *Task) Job() *Job { return t.job }

// Done is closed when the job reaches a terminal state.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the job finishes or ctx ends, and returns the final
// snapshot in the first case.
func (t *Task) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-t.done:
		return t.job.Snapshot(), nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Cancel stops scheduling new files. Files already in flight complete and the
// job ends as failed.
func (t *Task) Cancel() { t.cancel() }
