package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vaconvert/internal/model"
	"vaconvert/internal/rules"
)

var rulesFlags struct {
	format string
	output string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the built-in rule catalogue for a questionnaire format",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesFlags.format, "format", "adult", "Questionnaire format: adult, child")
	rulesCmd.Flags().StringVarP(&rulesFlags.output, "output", "o", "yaml", "Output format: yaml, json")
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := model.ParseFormat(rulesFlags.format)
	if err != nil {
		return err
	}
	rs, err := rules.Load(format)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch rulesFlags.output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rs); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rs)
	}
	return fmt.Errorf("unknown output format %q (want yaml or json)", rulesFlags.output)
}
