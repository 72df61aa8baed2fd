package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haldane/riskgate/internal/rules"
	"github.com/haldane/riskgate/internal/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate rule logic against a context, both read from JSON files",
	RunE:  runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().String("logic", "", "path to rule logic JSON")
	evaluateCmd.Flags().String("context", "", "path to evaluation context JSON (defaults to empty object)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	logicPath, _ := cmd.Flags().GetString("logic")
	contextPath, _ := cmd.Flags().GetString("context")

	if logicPath == "" {
		return fmt.Errorf("--logic required")
	}

	raw, err := os.ReadFile(logicPath)
	if err != nil {
		return fmt.Errorf("failed to read logic file: %w", err)
	}
	var logic rules.RuleLogic
	if err := json.Unmarshal(raw, &logic); err != nil {
		return fmt.Errorf("failed to parse logic file: %w", err)
	}
	if err := rules.ValidateLogic(&logic); err != nil {
		return fmt.Errorf("invalid rule logic: %w", err)
	}

	evalCtx := types.Context(`{}`)
	if contextPath != "" {
		rawCtx, err := os.ReadFile(contextPath)
		if err != nil {
			return fmt.Errorf("failed to read context file: %w", err)
		}
		evalCtx = types.Context(rawCtx)
	}

	result, err := rules.Evaluate(&logic, evalCtx)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
