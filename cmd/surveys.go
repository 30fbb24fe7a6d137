package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	surveyProjectID int64
	surveyName      string
)

var surveysCmd = &cobra.Command{
	Use:   "surveys",
	Short: "Manage research surveys",
}

var surveysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a survey to import and enrich clients into",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		survey, err := st.CreateSurvey(ctx, surveyProjectID, surveyName)
		if err != nil {
			return eris.Wrap(err, "create survey")
		}

		zap.L().Info("survey created",
			zap.Int64("survey_id", survey.ID),
			zap.String("name", survey.Name),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(survey)
	},
}

func init() {
	surveysCreateCmd.Flags().Int64Var(&surveyProjectID, "project", 1, "owning project id")
	surveysCreateCmd.Flags().StringVar(&surveyName, "name", "", "survey name (required)")
	_ = surveysCreateCmd.MarkFlagRequired("name")

	surveysCmd.AddCommand(surveysCreateCmd)
	rootCmd.AddCommand(surveysCmd)
}
