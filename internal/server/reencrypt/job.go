// Package reencrypt rotates every stored file of a user from the key of an
// old password to the key of a new one, in the background, with progress
// tracked on a Job.
package reencrypt

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one re-encryption run. All counters are guarded by mu and only
// grow; once the job is terminal it is never modified again.
type Job struct {
	mu sync.Mutex

	id        string
	userID    string
	total     int
	processed int
	failed    int
	status    Status
	createdAt time.Time
	doneAt    time.Time
	failures  map[string]string
	reason    string
}

// Snapshot is a point-in-time copy of a Job.
type Snapshot struct {
	JobID          string            `json:"jobId"`
	UserID         string            `json:"userId"`
	TotalFiles     int               `json:"totalFiles"`
	ProcessedFiles int               `json:"processedFiles"`
	FailedFiles    int               `json:"failedFiles"`
	Status         Status            `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
	Failures       map[string]string `json:"failures,omitempty"`
	Error          string            `json:"error,omitempty"`
}

func newJob(id, userID string, total int, now time.Time) *Job {
	return &Job{
		id:        id,
		userID:    userID,
		total:     total,
		status:    StatusPending,
		createdAt: now,
		failures:  make(map[string]string),
	}
}

// NewJobID returns reencrypt-<userID>-<unix millis>-<random hex>.
func NewJobID(userID string, now time.Time) (string, error) {
	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("reencrypt-%s-%d-%s", userID, now.UnixMilli(), suffix), nil
}

func (j *Job) ID() string     { return j.id }
func (j *Job) UserID() string { return j.userID }

func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	s := Snapshot{
		JobID:          j.id,
		UserID:         j.userID,
		TotalFiles:     j.total,
		ProcessedFiles: j.processed,
		FailedFiles:    j.failed,
		Status:         j.status,
		CreatedAt:      j.createdAt,
		Error:          j.reason,
	}
	if !j.doneAt.IsZero() {
		t := j.doneAt
		s.CompletedAt = &t
	}
	if len(j.failures) > 0 {
		s.Failures = maps.Clone(j.failures)
	}
	return s
}

func (j *Job) begin() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == StatusPending {
		j.status = StatusInProgress
	}
}

func (j *Job) fileDone() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() || j.processed >= j.total {
		return
	}
	j.processed++
}

func (j *Job) fileFailed(fileID, reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() || j.processed >= j.total {
		return
	}
	j.processed++
	j.failed++
	j.failures[fileID] = reason
}

func (j *Job) finish(now time.Time, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() {
		return
	}
	j.doneAt = now
	if err != nil {
		j.status = StatusFailed
		j.reason = err.Error()
		return
	}
	j.status = StatusCompleted
}
