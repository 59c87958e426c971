package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaconvert/internal/model"
	"vaconvert/internal/remap"
	"vaconvert/internal/runner"
)

var remapFlags struct {
	input, out, dataType string
	yes, no, missing     []string
}

var remapCmd = &cobra.Command{
	Use:     "remap",
	Short:   "Re-encode a tabulated symptom table using caller-supplied yes/no/missing labels",
	Example: `  vaconvert remap --input in.csv --yes Yes --no No --missing "Don't know" --missing "" --data-type short`,
	RunE:    runRemap,
}

func init() {
	f := remapCmd.Flags()
	f.StringVarP(&remapFlags.input, "input", "i", "", "Input table; first column holds record IDs")
	f.StringVarP(&remapFlags.out, "out", "o", "", "Output table (default: <input>_remapped.<ext>)")
	f.StringVar(&remapFlags.dataType, "data-type", "", "Output encoding: legacy, short (default from config)")
	// 每次出现一个标签，允许空字符串
	f.StringArrayVar(&remapFlags.yes, "yes", nil, "Label meaning yes (repeatable)")
	f.StringArrayVar(&remapFlags.no, "no", nil, "Label meaning no (repeatable)")
	f.StringArrayVar(&remapFlags.missing, "missing", nil, "Label meaning missing (repeatable)")
	_ = remapCmd.MarkFlagRequired("input")
}

func runRemap(cmd *cobra.Command, args []string) error {
	scheme, err := model.ParseScheme(orDefault(remapFlags.dataType, cfg.Remap.DataType))
	if err != nil {
		return err
	}
	labels := remap.Labels{
		Yes:     labelsOrDefault(cmd, "yes", remapFlags.yes, cfg.Remap.Yes),
		No:      labelsOrDefault(cmd, "no", remapFlags.no, cfg.Remap.No),
		Missing: labelsOrDefault(cmd, "missing", remapFlags.missing, cfg.Remap.Missing),
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

	report, err := runner.New(st, logger, 0).RemapSync(ctx, runner.RemapOptions{
		InputPath: remapFlags.input,
		OutPath:   remapFlags.out,
		Labels:    labels,
		Scheme:    scheme,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, col := range report.Unrecognized {
		fmt.Fprintf(w, "left unchanged (unrecognized values): %s\n", col)
	}
	fmt.Fprintf(w, "wrote %s (%d rows, %d columns)\n", report.Out, report.Rows, report.Columns)
	return nil
}

func labelsOrDefault(cmd *cobra.Command, flag string, given, def []string) []string {
	if cmd.Flags().Changed(flag) {
		return given
	}
	return def
}
