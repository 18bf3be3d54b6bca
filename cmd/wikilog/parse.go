package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaibhaw-/wikilog/internal/wikilog/config"
	"github.com/vaibhaw-/wikilog/internal/wikilog/parsers"
	"github.com/vaibhaw-/wikilog/internal/wikilog/runner"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Decode and classify access-log lines into events",
	RunE:  runParse,
}

var (
	flagFormat       string
	flagInput        string
	flagOutput       string
	flagOutputFormat string
	flagRejectFile   string
	flagStrict       bool
	flagExactFields  bool
	flagWorkers      int
	flagBatchSize    int
	flagTaxonomy     string
)

func init() {
	parseCmd.Flags().StringVar(&flagFormat, "format", "", "log format: confluence (default from input.format)")
	parseCmd.Flags().StringVar(&flagInput, "input", "", "input file (default stdin)")
	parseCmd.Flags().StringVar(&flagOutput, "output", "", "output file (default stdout)")
	parseCmd.Flags().StringVar(&flagOutputFormat, "output-format", "", "output format: ndjson|csv")
	parseCmd.Flags().StringVar(&flagRejectFile, "reject-file", "", "file to store rejected log lines")
	parseCmd.Flags().BoolVar(&flagStrict, "strict", false, "abort on the first malformed line")
	parseCmd.Flags().BoolVar(&flagExactFields, "exact-fields", false, "treat lines with trailing fields as malformed")
	parseCmd.Flags().IntVar(&flagWorkers, "workers", 0, "parallel decode workers")
	parseCmd.Flags().IntVar(&flagBatchSize, "batch-size", 0, "lines per decode batch")
	parseCmd.Flags().StringVar(&flagTaxonomy, "taxonomy", "", "YAML taxonomy extension file")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	// Override config with command line flags
	if flagFormat != "" {
		cfg.Input.Format = flagFormat
	}
	if flagInput != "" {
		cfg.Input.FilePath = flagInput
	}
	if flagOutput != "" {
		cfg.Output.File = flagOutput
	}
	if flagOutputFormat != "" {
		cfg.Output.Format = flagOutputFormat
	}
	if flagRejectFile != "" {
		cfg.Output.RejectFile = flagRejectFile
	}
	if cmd.Flags().Changed("strict") {
		cfg.Pipeline.Strict = flagStrict
	}
	if cmd.Flags().Changed("exact-fields") {
		cfg.Input.ExactFields = flagExactFields
	}
	if flagWorkers > 0 {
		cfg.Pipeline.Workers = flagWorkers
	}
	if flagBatchSize > 0 {
		cfg.Pipeline.BatchSize = flagBatchSize
	}
	if flagTaxonomy != "" {
		cfg.Taxonomy.File = flagTaxonomy
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	in, err := openInput(cfg.Input.FilePath)
	if err != nil {
		return err
	}
	defer closeFile(in)

	out, err := createOutput(cfg.Output.File)
	if err != nil {
		return err
	}
	defer closeFile(out)

	p, err := parsers.NewFactory().NewParser(cfg.Input.Format, parsers.ParserOptions{ExactFields: cfg.Input.ExactFields})
	if err != nil {
		return fmt.Errorf("create parser: %w", err)
	}
	c, err := loadClassifier(cfg.Taxonomy.File)
	if err != nil {
		return err
	}

	_, err = runner.RunParse(cmd.Context(), p, c, in, out, cfg)
	return err
}
