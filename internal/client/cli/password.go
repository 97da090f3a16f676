package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/spf13/cobra"
)

const (
	jobCompleted = "completed"
	jobFailed    = "failed"
)

var errNoJob = errors.New("no job id given and no job started from this machine")

func (a *App) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check a password against the stored verifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := promptPassword(cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}
			ctx, cancel := a.callCtx(cmd.Context())
			defer cancel()

			ok, err := api.VerifyPassword(ctx, pw)
			if err != nil {
				return err
			}
			if !ok {
				return client.ErrWrongPassword
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password OK")
			return nil
		},
	}
}

func (a *App) newPasswdCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Set or change the encryption password and re-encrypt stored files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.client(cmd.Context())
			if err != nil {
				return err
			}

			current, err := promptPassword(cmd.ErrOrStderr(), "Current password (empty if never set): ")
			if err != nil {
				return err
			}
			next, err := promptNewPassword(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if len(next) < common.MinPasswordLength {
				return fmt.Errorf("%w: at least %d characters", common.ErrPasswordTooShort, common.MinPasswordLength)
			}

			ctx, cancel := a.callCtx(cmd.Context())
			defer cancel()

			jobID, err := api.ChangePassword(ctx, current, next)
			if err != nil {
				return err
			}
			if err := a.state.RecordJob(cmd.Context(), jobID, time.Now()); err != nil {
				a.logger.Warn(cmd.Context(), "job not recorded locally", "job_id", jobID, "error", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password changed; re-encryption job %s\n", jobID)

			if wait {
				return a.waitJob(cmd.Context(), api, jobID, time.Second, cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "wait for re-encryption to finish")
	return cmd
}

func (a *App) newStatusCmd() *cobra.Command {
	var (
		wait     bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show re-encryption job progress (defaults to the last job started here)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.client(cmd.Context())
			if err != nil {
				return err
			}

			var jobID string
			if len(args) == 1 {
				jobID = args[0]
			} else {
				jobID, err = a.state.LastJob(cmd.Context())
				if err != nil {
					return err
				}
				if jobID == "" {
					return errNoJob
				}
			}

			if wait {
				return a.waitJob(cmd.Context(), api, jobID, interval, cmd.OutOrStdout())
			}

			ctx, cancel := a.callCtx(cmd.Context())
			defer cancel()

			job, err := api.JobStatus(ctx, jobID)
			if err != nil {
				return err
			}
			printJob(cmd.OutOrStdout(), job)
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the job finishes")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval with --wait")
	return cmd
}

func (a *App) newJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List re-encryption jobs for the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := a.callCtx(cmd.Context())
			defer cancel()

			jobs, err := api.ListJobs(ctx)
			if err != nil {
				return err
			}
			sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "JOB\tSTATUS\tPROCESSED\tFAILED\tCREATED")
			for _, j := range jobs {
				fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d\t%s\n",
					j.JobID, j.Status, j.ProcessedFiles, j.TotalFiles, j.FailedFiles, j.CreatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

// waitJob polls until the job reaches a terminal state. A job that ends
// with failed files or as failed is reported as an error.
func (a *App) waitJob(ctx context.Context, api client.Client, jobID string, interval time.Duration, w io.Writer) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		callCtx, cancel := a.callCtx(ctx)
		job, err := api.JobStatus(callCtx, jobID)
		cancel()
		if err != nil {
			return err
		}

		if job.Status == jobCompleted || job.Status == jobFailed {
			printJob(w, job)
			switch {
			case job.Status == jobFailed:
				return fmt.Errorf("job %s failed: %s", jobID, job.Error)
			case job.FailedFiles > 0:
				return fmt.Errorf("job %s finished with %d failed files", jobID, job.FailedFiles)
			}
			return nil
		}

		fmt.Fprintf(w, "%s: %d/%d processed\n", job.Status, job.ProcessedFiles, job.TotalFiles)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func printJob(w io.Writer, job *rpc.Job) {
	fmt.Fprintf(w, "job:       %s\n", job.JobID)
	fmt.Fprintf(w, "status:    %s\n", job.Status)
	fmt.Fprintf(w, "processed: %d/%d\n", job.ProcessedFiles, job.TotalFiles)
	fmt.Fprintf(w, "failed:    %d\n", job.FailedFiles)
	if job.CompletedAt != nil {
		fmt.Fprintf(w, "completed: %s\n", job.CompletedAt.Local().Format(time.DateTime))
	}
	if job.Error != "" {
		fmt.Fprintf(w, "error:     %s\n", job.Error)
	}

	ids := make([]string, 0, len(job.Failures))
	for id := range job.Failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  %s: %s\n", id, job.Failures[id])
	}
}
