package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	jobsJobID    string
	jobsSurveyID int64
	jobsLimit    int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and control enrichment jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs, optionally filtered by survey",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		jobs, err := st.ListJobs(ctx, jobsSurveyID, jobsLimit)
		if err != nil {
			return eris.Wrap(err, "list jobs")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(jobs)
	},
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show one job's status and counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		job, err := st.GetJob(ctx, jobsJobID)
		if err != nil {
			return eris.Wrap(err, "get job")
		}
		if job == nil {
			return eris.Errorf("job not found: %s", jobsJobID)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(job)
	},
}

var jobsPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause a running job at the next client boundary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Manager.Pause(ctx, jobsJobID); err != nil {
			return err
		}
		zap.L().Info("job pause requested", zap.String("job_id", jobsJobID))
		return nil
	},
}

var jobsResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused job and wait for it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Manager.Resume(ctx, jobsJobID); err != nil {
			return err
		}
		env.Manager.Wait()

		job, err := env.Store.GetJob(ctx, jobsJobID)
		if err != nil || job == nil {
			return err
		}
		zap.L().Info("job finished",
			zap.String("job_id", job.ID),
			zap.String("status", string(job.Status)),
			zap.Int("processed", job.ProcessedClients),
		)
		return nil
	},
}

func init() {
	jobsListCmd.Flags().Int64Var(&jobsSurveyID, "survey", 0, "filter by survey id (0 = all)")
	jobsListCmd.Flags().IntVar(&jobsLimit, "limit", 20, "maximum jobs to list")

	for _, c := range []*cobra.Command{jobsStatusCmd, jobsPauseCmd, jobsResumeCmd} {
		c.Flags().StringVar(&jobsJobID, "job", "", "job id (required)")
		_ = c.MarkFlagRequired("job")
	}

	jobsCmd.AddCommand(jobsListCmd, jobsStatusCmd, jobsPauseCmd, jobsResumeCmd)
	rootCmd.AddCommand(jobsCmd)
}
