package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaconvert/internal/model"
	"vaconvert/internal/runner"
)

var convertFlags struct {
	input, test    string
	out, testOut   string
	format, cutoff string
	scheme, cause  string
	showUnresolved bool
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a raw questionnaire table (and optional test table) into symptom indicators",
	Example: `  vaconvert convert --input train.csv --test test.csv --format adult --cutoff adaptive --out out.csv
  vaconvert convert --input child.xlsx --format child --scheme short`,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFlags.input, "input", "i", "", "Training table (.csv / .xlsx)")
	f.StringVar(&convertFlags.test, "test", "", "Optional test table with the same header")
	f.StringVarP(&convertFlags.out, "out", "o", "", "Output for the training table (default: <input>_converted.<ext>)")
	f.StringVar(&convertFlags.testOut, "test-out", "", "Output for the test table (default: <test>_converted.<ext>)")
	f.StringVar(&convertFlags.format, "format", "", "Questionnaire format: adult, child (default from config)")
	f.StringVar(&convertFlags.cutoff, "cutoff", "", "Cutoff mode: default, adaptive (default from config)")
	f.StringVar(&convertFlags.scheme, "scheme", "", "Output encoding: legacy, short (default from config)")
	f.StringVar(&convertFlags.cause, "cause-column", "", "Cause-of-death label column (default from config)")
	f.BoolVar(&convertFlags.showUnresolved, "show-unresolved", false, "List every cell that could not be converted")
	_ = convertCmd.MarkFlagRequired("input")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := model.ParseFormat(orDefault(convertFlags.format, cfg.Convert.Format))
	if err != nil {
		return err
	}
	cutoff, err := model.ParseCutoffMode(orDefault(convertFlags.cutoff, cfg.Convert.CutoffMode))
	if err != nil {
		return err
	}
	scheme, err := model.ParseScheme(orDefault(convertFlags.scheme, cfg.Convert.Scheme))
	if err != nil {
		return err
	}

	st, err := openRunLog()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := runner.New(st, logger, cfg.Convert.Workers).ConvertSync(ctx, runner.ConvertOptions{
		TrainPath:   convertFlags.input,
		TestPath:    convertFlags.test,
		OutPath:     convertFlags.out,
		TestOutPath: convertFlags.testOut,
		Format:      format,
		CutoffMode:  cutoff,
		Scheme:      scheme,
		CauseColumn: orDefault(convertFlags.cause, cfg.Convert.CauseColumn),
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	d := report.Diagnostics
	fmt.Fprintf(w, "format %s, cutoff %s: %d train rows, %d test rows, %d columns\n",
		d.Format, d.CutoffMode, d.TrainRows, d.TestRows, d.Columns)
	fmt.Fprintf(w, "cells: %d yes, %d no, %d missing, %d unresolved\n",
		d.Counts.Yes, d.Counts.No, d.Counts.Missing, d.Counts.Unresolved)
	for _, n := range d.Notices {
		fmt.Fprintf(w, "note: %s\n", n)
	}
	if convertFlags.showUnresolved {
		for _, u := range d.Unresolved {
			fmt.Fprintf(w, "unresolved: id=%s column=%s value=%q\n", u.ID, u.Column, u.Value)
		}
	}
	fmt.Fprintf(w, "wrote %s\n", report.TrainOut)
	if report.TestOut != "" {
		fmt.Fprintf(w, "wrote %s\n", report.TestOut)
	}
	return nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
