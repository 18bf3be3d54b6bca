package main

import (
	"github.com/spf13/cobra"

	"github.com/vaibhaw-/wikilog/internal/wikilog/config"
	"github.com/vaibhaw-/wikilog/internal/wikilog/loadgen"
	"github.com/vaibhaw-/wikilog/internal/wikilog/logger"
)

var (
	genLines   int
	genSeed    int64
	genOutput  string
	genProfile string
	genStart   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic Confluence access log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get().Generate
		if genProfile != "" {
			cfg.Profile = genProfile
		}

		p := loadgen.DefaultProfile()
		if cfg.Profile != "" {
			var err error
			if p, err = loadgen.ReadProfile(cfg.Profile); err != nil {
				return err
			}
		} else {
			p.Seed = cfg.Seed
			p.Lines = cfg.Lines
			p.Host = cfg.Host
			p.Start = cfg.Start
		}

		// Flags win over both the profile and the config file.
		if cmd.Flags().Changed("seed") {
			p.Seed = genSeed
		}
		if cmd.Flags().Changed("lines") {
			p.Lines = genLines
		}
		if genStart != "" {
			p.Start = genStart
		}

		g, err := loadgen.New(p)
		if err != nil {
			return err
		}
		out, err := createOutput(genOutput)
		if err != nil {
			return err
		}
		defer closeFile(out)

		n, err := g.Write(cmd.Context(), out, p.Lines)
		logger.L().Infow("generated access log", "lines", n, "seed", p.Seed, "host", p.Host)
		return err
	},
}

func init() {
	generateCmd.Flags().IntVar(&genLines, "lines", 1000, "number of lines")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed (0 picks one)")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "output file (default stdout)")
	generateCmd.Flags().StringVar(&genProfile, "profile", "", "YAML generator profile")
	generateCmd.Flags().StringVar(&genStart, "start", "", "timestamp of the first line")
}
