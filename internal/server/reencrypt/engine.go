package reencrypt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/blobstore"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

type FileRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.File, error)
	UpdateEncryption(ctx context.Context, id string, enc models.FileEncryption) error
}

// Engine runs re-encryption jobs. One Engine is shared by the whole process.
type Engine struct {
	users   UserRepository
	files   FileRepository
	blobs   blobstore.Store
	jobs    JobStore
	workers int
	log     logging.Logger
	now     func() time.Time

	mu     sync.Mutex
	tasks  map[string]*Task
	active map[string]struct{}
	closed bool
	wg     sync.WaitGroup
}

type Option func(*Engine)

// WithWorkers bounds how many files are transformed at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(users UserRepository, files FileRepository, blobs blobstore.Store, jobs JobStore, opts ...Option) *Engine {
	e := &Engine{
		users:   users,
		files:   files,
		blobs:   blobs,
		jobs:    jobs,
		workers: DefaultWorkers,
		log:     logging.Nop{},
		now:     time.Now,
		tasks:   make(map[string]*Task),
		active:  make(map[string]struct{}),
	}
	for _, o := range opts {
		o(e)
	}
	e.log = e.log.With("module", "reencrypt")
	return e
}

// Reservation is a prepared job: the user's files are listed and no other
// rotation for that user can be prepared until it is launched and finished,
// or released.
type Reservation struct {
	e         *Engine
	userID    string
	jobID     string
	createdAt time.Time
	files     []*models.File
	claim     sync.Once
}

// Files is the list the job will process if launched.
func (r *Reservation) Files() []*models.File { return r.files }

// Release gives the slot back. It is a no-op after Launch.
func (r *Reservation) Release() {
	r.claim.Do(func() {
		r.e.release(r.userID)
		r.e.wg.Done()
	})
}

func (e *Engine) release(userID string) {
	e.mu.Lock()
	delete(e.active, userID)
	e.mu.Unlock()
}

// Prepare reserves the user's rotation slot and enumerates the files a job
// would process. It fails with common.ErrRotationInProgress while another
// job for the user is prepared or running, and with common.ErrShuttingDown
// once Shutdown was called.
func (e *Engine) Prepare(ctx context.Context, userID string) (*Reservation, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, common.ErrShuttingDown
	}
	if _, busy := e.active[userID]; busy {
		e.mu.Unlock()
		return nil, common.ErrRotationInProgress
	}
	e.active[userID] = struct{}{}
	e.wg.Add(1)
	e.mu.Unlock()

	r := &Reservation{e: e, userID: userID, createdAt: e.now()}

	if _, err := e.users.Get(ctx, userID); err != nil {
		r.Release()
		return nil, fmt.Errorf("load user: %w", err)
	}
	files, err := e.files.ListByUser(ctx, userID)
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("list files: %w", err)
	}
	id, err := NewJobID(userID, r.createdAt)
	if err != nil {
		r.Release()
		return nil, err
	}
	r.files = files
	r.jobID = id
	return r, nil
}

// Launch records a pending job for r and starts it in the background. The
// work continues after ctx ends; only Shutdown or Task.Cancel stop it. A
// reservation taken before Shutdown is still launched, and Shutdown waits
// for it.
func (e *Engine) Launch(ctx context.Context, r *Reservation, oldPassword, newPassword string) (*Task, error) {
	claimed := false
	r.claim.Do(func() { claimed = true })
	if !claimed {
		return nil, errors.New("re-encryption reservation already released")
	}

	job := newJob(r.jobID, r.userID, len(r.files), r.createdAt)
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	task := &Task{job: job, done: make(chan struct{}), cancel: cancel}

	e.mu.Lock()
	e.tasks[job.id] = task
	e.mu.Unlock()

	e.jobs.Put(job)
	e.log.Info(ctx, "re-encryption job created", "job_id", job.id, "user_id", r.userID, "total_files", len(r.files))

	go func() {
		defer e.wg.Done()
		defer close(task.done)
		defer cancel()
		e.run(runCtx, job, r.files, oldPassword, newPassword)

		e.mu.Lock()
		delete(e.tasks, job.id)
		e.mu.Unlock()
	}()

	return task, nil
}

// Start is Prepare followed by Launch.
func (e *Engine) Start(ctx context.Context, userID, oldPassword, newPassword string) (*Task, error) {
	r, err := e.Prepare(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.Launch(ctx, r, oldPassword, newPassword)
}

func (e *Engine) run(ctx context.Context, job *Job, files []*models.File, oldPassword, newPassword string) {
	job.begin()
	log := e.log.With("job_id", job.id, "user_id", job.userID)

	// In-flight files finish even if scheduling is stopped.
	workCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(e.workers)

	var orchErr error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			orchErr = fmt.Errorf("%w: %w", common.ErrJobOrchestration, err)
			break
		}
		if _, err := e.users.Get(ctx, job.userID); err != nil {
			orchErr = fmt.Errorf("%w: user lookup: %w", common.ErrJobOrchestration, err)
			break
		}
		g.Go(func() error {
			e.processFile(workCtx, log, job, f, oldPassword, newPassword)
			return nil
		})
	}
	_ = g.Wait()

	// Every file is settled; the next rotation may be prepared.
	e.release(job.userID)
	job.finish(e.now(), orchErr)
	s := job.Snapshot()
	if orchErr != nil {
		log.Error(ctx, "re-encryption job failed", "error", orchErr, "processed", s.ProcessedFiles, "failed", s.FailedFiles)
		return
	}
	log.Info(ctx, "re-encryption job completed", "processed", s.ProcessedFiles, "failed", s.FailedFiles)
}

func (e *Engine) processFile(ctx context.Context, log logging.Logger, job *Job, f *models.File, oldPassword, newPassword string) {
	log = log.With("file_id", f.ID)
	if f.RemoteHandle == "" {
		log.Warn(ctx, "file has no remote handle, skipping")
		job.fileDone()
		return
	}

	log.Debug(ctx, "re-encrypting file")
	if err := e.reencryptFile(ctx, log, job.userID, f, oldPassword, newPassword); err != nil {
		log.Error(ctx, "failed to re-encrypt file", "error", err)
		job.fileFailed(f.ID, err.Error())
		return
	}
	job.fileDone()
}

func (e *Engine) reencryptFile(ctx context.Context, log logging.Logger, userID string, f *models.File, oldPassword, newPassword string) error {
	ciphertext, err := e.blobs.Download(ctx, userID, f.RemoteHandle)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	plaintext, err := cryptox.OpenEncoded(ciphertext, oldPassword, f.Nonce, f.Salt)
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}
	env, err := cryptox.Seal(plaintext, newPassword)
	common.WipeByteArray(plaintext)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}

	newHandle, err := e.blobs.Upload(ctx, userID, f.FileName, env.Ciphertext)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	enc := models.FileEncryption{
		RemoteHandle: newHandle,
		Nonce:        cryptox.EncodeB64(env.Nonce),
		Salt:         cryptox.EncodeB64(env.Salt),
		AuthTag:      cryptox.EncodeB64(env.AuthTag),
	}
	if err := e.files.UpdateEncryption(ctx, f.ID, enc); err != nil {
		if derr := e.blobs.Delete(ctx, userID, newHandle); derr != nil {
			log.Warn(ctx, "failed to remove orphaned upload", "handle", newHandle, "error", derr)
		}
		return fmt.Errorf("update record: %w", err)
	}

	if err := e.blobs.Delete(ctx, userID, f.RemoteHandle); err != nil {
		log.Warn(ctx, "failed to delete previous ciphertext", "handle", f.RemoteHandle, "error", err)
	}
	return nil
}

// Status returns a snapshot of the job or common.ErrorNotFound. It does not
// check ownership.
func (e *Engine) Status(jobID string) (Snapshot, error) {
	job, err := e.jobs.Get(jobID)
	if err != nil {
		return Snapshot{}, err
	}
	return job.Snapshot(), nil
}

func (e *Engine) ListJobs(userID string) []Snapshot {
	jobs := e.jobs.ListByUser(userID)
	out := make([]Snapshot, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Snapshot())
	}
	return out
}

// Shutdown refuses new reservations, stops scheduling on running jobs and
// waits for them, and for outstanding reservations, to finish or for ctx to
// end.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	for _, t := range e.tasks {
		t.Cancel()
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
