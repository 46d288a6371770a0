package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fillscope/fillscope-cli/api/schemas"
	"github.com/fillscope/fillscope-cli/internal/autofill/extract"
	"github.com/fillscope/fillscope-cli/internal/engine"
	"github.com/fillscope/fillscope-cli/internal/observability"
	"github.com/fillscope/fillscope-cli/internal/trust"
)

var (
	classifySurface string
	classifyManual  bool
	classifyOrigin  string
	classifyOutput  string
	classifyCompact bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [files...]",
	Short: "Classify captured field snapshots or HTML documents.",
	Long: `Classify reads one or more snapshot files and reports the detected
autofill scenario for each. JSON files must contain a node dump as
produced by a host-side field traversal; HTML files are parsed directly
and their input elements extracted in document order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifySurface, "surface", "", "package id of the surface that rendered the fields")
	classifyCmd.Flags().BoolVar(&classifyManual, "manual", false, "treat the request as explicitly user-triggered")
	classifyCmd.Flags().StringVar(&classifyOrigin, "origin", "", "web origin to annotate HTML-extracted fields with")
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "", "write the report to a file instead of stdout")
	classifyCmd.Flags().BoolVar(&classifyCompact, "compact", false, "emit compact JSON")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger().Named("Classify")
	policy := trust.NewPolicy(cfg.Trust.MultiOriginSurfaces)
	eng := engine.New(cfg.Engine, policy, logger)

	origin := classifyOrigin
	if origin != "" {
		normalized, err := trust.Origin(origin)
		if err != nil {
			return fmt.Errorf("invalid --origin: %w", err)
		}
		origin = normalized
	}

	report := schemas.BatchReport{GeneratedAt: time.Now().UTC()}
	for _, path := range args {
		result, err := classifyFile(eng, policy, path, origin)
		if err != nil {
			return err
		}
		report.Results = append(report.Results, result)
		logger.Info("Classified input",
			zap.String("file", path),
			zap.Bool("matched", result.Matched),
		)
	}

	return writeReport(report)
}

func classifyFile(eng *engine.Engine, policy *trust.Policy, path, origin string) (schemas.ClassificationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schemas.ClassificationResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		form, err := extract.FromHTML(bytes.NewReader(data), origin)
		if err != nil {
			return schemas.ClassificationResult{}, fmt.Errorf("extracting %s: %w", path, err)
		}
		singleOrigin := policy.SingleOriginOnly(classifySurface)
		result, _ := eng.ClassifyForm(form, singleOrigin, classifyManual)
		result.Source = path
		result.Surface = classifySurface
		return result, nil
	default:
		var snap engine.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return schemas.ClassificationResult{}, fmt.Errorf("decoding snapshot %s: %w", path, err)
		}
		if snap.Source == "" {
			snap.Source = path
		}
		if snap.Surface == "" {
			snap.Surface = classifySurface
		}
		if classifyManual {
			snap.Manual = true
		}
		return eng.Classify(snap), nil
	}
}

func writeReport(report schemas.BatchReport) error {
	var (
		data []byte
		err  error
	)
	if classifyCompact {
		data, err = json.Marshal(report)
	} else {
		data, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	if classifyOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(classifyOutput, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
