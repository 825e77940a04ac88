package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/noviz/internal/engine"
	"github.com/copyleftdev/noviz/internal/optimization"
	"github.com/copyleftdev/noviz/internal/optimization/objective"
)

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the objective functions and their coefficients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tCOEFFICIENTS\tFORMULA")
			for _, k := range objective.Kinds() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k, k.Title(), coeffSummary(k), defaultFormula(k))
			}
			return w.Flush()
		},
	}
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the optimization methods and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tPARAMETERS")
			for _, m := range engine.Methods() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m, m.Title(), paramSummary(m.Params()))
			}
			return w.Flush()
		},
	}
}

func coeffSummary(k objective.Kind) string {
	if k.SelectsPoints() {
		return fmt.Sprintf("%d+ points (--points)", objective.MinInterpolationPoints)
	}
	coeffs := k.Coefficients(0)
	if len(coeffs) == 0 {
		return "-"
	}
	parts := make([]string, len(coeffs))
	for i, c := range coeffs {
		parts[i] = fmt.Sprintf("%s=%g", c.Name, c.Default)
	}
	return strings.Join(parts, " ")
}

func defaultFormula(k objective.Kind) string {
	formula, err := objective.Formula(k, k.DefaultCoefficients(0))
	if err != nil || formula == "" {
		return "-"
	}
	return formula
}

func paramSummary(params []optimization.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s=%g [%g, %g]", p.Name, p.Default, p.Min, p.Max)
	}
	return strings.Join(parts, ", ")
}
