package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/assess-cli/internal/assess"
	"github.com/sells-group/assess-cli/internal/model"
)

var (
	assessInput  string
	assessOutput string
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess one project from a JSON request file",
	Long:  "Reads a request in the POST /api/assess format (use - for stdin), runs the assessment and writes the report as indented JSON.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input, err := readProjectInput(cmd.InOrStdin(), assessInput)
		if err != nil {
			return err
		}

		env, err := initAssessEnv(ctx, "assess")
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Validator.Check(&input); err != nil {
			return err
		}

		report, err := env.Service.Assess(ctx, input)
		if err != nil {
			return eris.Wrap(err, "assess")
		}

		if err := writeReport(cmd.OutOrStdout(), assessOutput, report); err != nil {
			return err
		}

		zap.L().Info("assessment complete",
			zap.String("id", report.ID),
			zap.String("traffic_light", string(report.OverallTrafficLight)),
			zap.Int("companies", len(report.CompanyEvaluations)),
		)
		return nil
	},
}

// readProjectInput decodes a request from path, or from stdin when path
// is "-".
func readProjectInput(stdin io.Reader, path string) (model.ProjectInput, error) {
	var input model.ProjectInput

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return input, eris.Wrap(err, "open input")
		}
		defer f.Close() //nolint:errcheck
		r = f
	}

	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, eris.Wrap(err, "decode input")
	}
	return input, nil
}

// writeReport encodes the report as indented JSON to path, or to stdout
// when path is empty. A failed close of the output file is reported.
func writeReport(stdout io.Writer, path string, report *assess.Assessment) (err error) {
	out := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = eris.Wrap(cerr, "close output file")
			}
		}()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return eris.Wrap(err, "write report")
	}
	return nil
}

func init() {
	assessCmd.Flags().StringVar(&assessInput, "input", "", "path to request JSON, or - for stdin (required)")
	assessCmd.Flags().StringVarP(&assessOutput, "output", "o", "", "write the report to this file instead of stdout")
	_ = assessCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(assessCmd)
}
