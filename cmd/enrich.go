package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/store"
)

var (
	enrichSurveyIDs  []int64
	enrichClientSeed string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the enrichment pipeline for one or more surveys",
	Long:  "Creates an enrichment job per survey and waits for all of them. Jobs for different surveys run concurrently; clients within a job are processed sequentially.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if enrichClientSeed != "" {
			if len(enrichSurveyIDs) != 1 {
				return eris.New("--clients requires exactly one --survey")
			}
			n, err := seedClients(ctx, env.Store, enrichSurveyIDs[0], enrichClientSeed)
			if err != nil {
				return eris.Wrap(err, "seed clients")
			}
			zap.L().Info("clients seeded",
				zap.Int("count", n),
				zap.Int64("survey_id", enrichSurveyIDs[0]),
			)
		}

		g, gctx := errgroup.WithContext(ctx)
		jobIDs := make([]string, len(enrichSurveyIDs))
		for i, surveyID := range enrichSurveyIDs {
			g.Go(func() error {
				jobID, err := env.Manager.Submit(gctx, surveyID)
				if err != nil {
					return err
				}
				jobIDs[i] = jobID
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "submit jobs")
		}

		env.Manager.Wait()

		for _, jobID := range jobIDs {
			job, err := env.Store.GetJob(ctx, jobID)
			if err != nil || job == nil {
				continue
			}
			zap.L().Info("job finished",
				zap.String("job_id", job.ID),
				zap.Int64("survey_id", job.SurveyID),
				zap.String("status", string(job.Status)),
				zap.Int("processed", job.ProcessedClients),
				zap.Int("success", job.SuccessClients),
				zap.Int("failed", job.FailedClients),
			)
		}
		return nil
	},
}

// seedClients loads a YAML list of clients and inserts them into the
// survey.
func seedClients(ctx context.Context, st store.Store, surveyID int64, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, eris.Wrap(err, "read seed file")
	}

	var clients []model.ClientRecord
	if err := yaml.Unmarshal(data, &clients); err != nil {
		return 0, eris.Wrap(err, "parse seed file")
	}

	survey, err := st.GetSurvey(ctx, surveyID)
	if err != nil {
		return 0, err
	}
	if survey == nil {
		return 0, eris.Errorf("survey not found: %d", surveyID)
	}

	for i := range clients {
		clients[i].SurveyID = surveyID
		clients[i].ProjectID = survey.ProjectID
		if err := st.CreateClient(ctx, &clients[i]); err != nil {
			return i, eris.Wrapf(err, "insert client %q", clients[i].Name)
		}
	}
	return len(clients), nil
}

func init() {
	enrichCmd.Flags().Int64SliceVar(&enrichSurveyIDs, "survey", nil, "survey id to enrich (repeatable)")
	enrichCmd.Flags().StringVar(&enrichClientSeed, "clients", "", "YAML file of clients to seed before enriching")
	_ = enrichCmd.MarkFlagRequired("survey")
	rootCmd.AddCommand(enrichCmd)
}
