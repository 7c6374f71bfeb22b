// Command attainment-cli computes a CO-PO attainment report from a snapshot file
// without a database, using the same engine and thresholds as the API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/attainment"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/config"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/logger"
)

func main() {
	in := flag.String("in", "", "offering snapshot (YAML or JSON)")
	compact := flag.Bool("compact", false, "print the report on one line")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(*in, *compact, cfg.Attainment, logr, os.Stdout); err != nil {
		logr.Fatal("attainment calculation failed", zap.String("snapshot", *in), zap.Error(err))
	}
}

func run(path string, compact bool, cfg config.AttainmentConfig, logr *zap.Logger, out io.Writer) error {
	input, err := loadSnapshot(path)
	if err != nil {
		return err
	}

	engine := attainment.NewEngine(models.AttainmentThresholds{
		ThresholdPercentage:     cfg.ThresholdPercentage,
		TargetStudentPercentage: cfg.TargetStudentPercentage,
		Level2StudentPercentage: cfg.Level2StudentPercentage,
		StudentLevel2Percentage: cfg.StudentLevel2Percentage,
		PassPercentage:          cfg.PassPercentage,
	}, logr)
	report, err := engine.Compute(input)
	if err != nil {
		return err
	}
	for _, issue := range report.Issues {
		logr.Warn("attainment issue", zap.String("kind", string(issue.Kind)), zap.String("detail", issue.Detail))
	}

	enc := json.NewEncoder(out)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
