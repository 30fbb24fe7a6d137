package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/importer"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
)

var (
	importFilePath string
	importSurveyID int64
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import clients from a CSV or XLSX file into a survey",
	Long:  "Validates every row, skips duplicates against the survey's existing clients and within the batch, and prints the resulting report. A bad row never aborts the import.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		survey, err := st.GetSurvey(ctx, importSurveyID)
		if err != nil {
			return eris.Wrap(err, "get survey")
		}
		if survey == nil {
			return eris.Errorf("survey not found: %d", importSurveyID)
		}

		var rows []model.ImportRow
		switch strings.ToLower(filepath.Ext(importFilePath)) {
		case ".csv":
			rows, err = importer.LoadCSV(importFilePath)
		case ".xlsx":
			rows, err = importer.LoadXLSX(importFilePath)
		default:
			return eris.Errorf("unsupported file type: %s", filepath.Ext(importFilePath))
		}
		if err != nil {
			return err
		}

		existing, err := st.ListClients(ctx, importSurveyID)
		if err != nil {
			return eris.Wrap(err, "list clients")
		}

		proc := importer.NewProcessor(existing,
			importer.WithDuplicateThreshold(cfg.Pipeline.DuplicateThreshold),
		)
		accepted, report := proc.Process(rows)

		for i := range accepted {
			client := model.ClientRecord{
				SurveyID:  importSurveyID,
				ProjectID: survey.ProjectID,
				Name:      accepted[i].Name,
				TaxID:     accepted[i].TaxID,
				Email:     accepted[i].Email,
				Phone:     accepted[i].Phone,
				Site:      accepted[i].Site,
				City:      accepted[i].City,
				State:     accepted[i].State,
			}
			if err := st.CreateClient(ctx, &client); err != nil {
				return eris.Wrapf(err, "insert client %q", client.Name)
			}
		}

		zap.L().Info("import complete",
			zap.String("file", importFilePath),
			zap.Int64("survey_id", importSurveyID),
			zap.Int("accepted", report.Success),
			zap.Int("duplicates", report.Duplicates),
			zap.Int("errors", report.Errors),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to CSV or XLSX file (required)")
	importCmd.Flags().Int64Var(&importSurveyID, "survey", 0, "target survey id (required)")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("survey")
	rootCmd.AddCommand(importCmd)
}
