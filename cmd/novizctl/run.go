package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/copyleftdev/noviz/internal/engine"
	"github.com/copyleftdev/noviz/internal/optimization"
	"github.com/copyleftdev/noviz/internal/optimization/objective"
	"github.com/copyleftdev/noviz/internal/playback"
)

// plotWidth is the number of samples drawn per chart.
const plotWidth = 72

type runOptions struct {
	function     string
	coefficients []float64
	points       []string
	method       string
	params       []float64
	start        float64
	seed         uint64

	steps bool
	plot  bool
	play  bool
	speed int
}

func newRunCmd(c *cli) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Calculate a run and print, plot or play it",
		Example: `  novizctl run --function polynomial --coefficients 0,0,1 --method gd --start 4 --steps
  novizctl run --function sim_crash --method sa --start 1.5 --seed 7 --plot
  novizctl run --function interpolated --points 0:1,1:0,2:1 --method gd --start 0.2 --play --speed 80`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := o.request(cmd)
			if err != nil {
				return err
			}
			run, err := engine.New(c.zapLogger()).Calculate(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSummary(out, run)
			if o.steps {
				if err := printSteps(out, run); err != nil {
					return err
				}
			}
			if o.plot {
				if err := plotRun(out, run); err != nil {
					return err
				}
			}
			if o.play {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return playRun(ctx, out, run, o.speed, c)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.function, "function", "", "Objective function (see 'novizctl functions')")
	f.Float64SliceVar(&o.coefficients, "coefficients", nil, "Function coefficients, defaults when omitted")
	f.StringSliceVar(&o.points, "points", nil, "Interpolation points as x:y pairs")
	f.StringVar(&o.method, "method", "", "Optimization method (see 'novizctl methods')")
	f.Float64SliceVar(&o.params, "params", nil, "Method parameters, defaults when omitted")
	f.Float64Var(&o.start, "start", 0, "Start point x0")
	f.Uint64Var(&o.seed, "seed", 0, "Random seed for stochastic methods, 0 is random")
	f.BoolVar(&o.steps, "steps", false, "Print every recorded step")
	f.BoolVar(&o.plot, "plot", false, "Plot the function and the step trace")
	f.BoolVar(&o.play, "play", false, "Replay the run step by step, Ctrl-C stops")
	f.IntVar(&o.speed, "speed", 50, "Playback speed from 0 to 100")

	_ = cmd.MarkFlagRequired("function")
	_ = cmd.MarkFlagRequired("method")
	return cmd
}

// request resolves the flags into an engine request. Coefficients and
// parameters left unset select the defaults.
func (o *runOptions) request(cmd *cobra.Command) (engine.Request, error) {
	kind, err := objective.ParseKind(o.function)
	if err != nil {
		return engine.Request{}, err
	}
	method, err := engine.ParseMethod(o.method)
	if err != nil {
		return engine.Request{}, err
	}
	points, err := parsePoints(o.points)
	if err != nil {
		return engine.Request{}, err
	}

	req := engine.Request{
		Function: &engine.FunctionSpec{Kind: kind, Coefficients: o.coefficients, Points: points},
		Method:   &method,
		Params:   o.params,
		Seed:     o.seed,
	}
	if cmd.Flags().Changed("start") {
		start := o.start
		req.Start = &start
	}
	return req, nil
}

// parsePoints reads "x:y" pairs.
func parsePoints(pairs []string) ([]objective.Point, error) {
	points := make([]objective.Point, 0, len(pairs))
	for _, pair := range pairs {
		xs, ys, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, optimization.ConfigurationError("point %q is not an x:y pair", pair)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err := errors.Join(errX, errY); err != nil {
			return nil, optimization.ConfigurationError("point %q: %v", pair, err)
		}
		points = append(points, objective.Point{X: x, Y: y})
	}
	return points, nil
}

func printSummary(out io.Writer, run *engine.Run) {
	buf := run.Buffer()
	fmt.Fprintf(out, "function:   %s\n", run.Function.Kind().Title())
	if formula := run.Function.Formula(); formula != "" {
		fmt.Fprintf(out, "formula:    %s\n", formula)
	}
	fmt.Fprintf(out, "method:     %s\n", run.Method.Title())
	for _, line := range strings.Split(strings.TrimSuffix(optimization.ParamsString(run.Method.Params(), run.Algorithm.Values()), "\n"), "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
	fmt.Fprintf(out, "start:      %g\n", run.Start)
	fmt.Fprintf(out, "iterations: %d\n", run.Algorithm.Iterations())
	fmt.Fprintf(out, "records:    %d\n", buf.Len())
	if p, ok := buf.LowestPoint(buf.Len() - 1); ok {
		fmt.Fprintf(out, "lowest:     f(%.6g) = %.6g\n", p.X, p.Y)
	}
}

func printSteps(out io.Writer, run *engine.Run) error {
	code := run.Algorithm.Pseudocode()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLINE\tCODE\tPOINTS\tNEXT")
	for i, rec := range run.Buffer().Records() {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", i, rec.Line, codeLine(code, rec.Line), formatPoints(rec.Points), formatNext(rec))
	}
	return w.Flush()
}

func codeLine(code []string, line int) string {
	if line < 0 || line >= len(code) {
		return ""
	}
	return strings.TrimSpace(code[line])
}

func formatPoints(points []optimization.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("(%.4g, %.4g)", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func formatNext(rec optimization.Record) string {
	if !rec.HasNext() {
		return ""
	}
	return fmt.Sprintf("(%.4g, %.4g) %s", rec.Next.Point.X, rec.Next.Point.Y, rec.Next.State)
}

// plotRun charts the function over its axis window, then the y value of
// every step that recorded a point.
func plotRun(out io.Writer, run *engine.Run) error {
	hint := run.Function.AxisHint()
	curve := make([]float64, 0, plotWidth)
	for i := 0; i < plotWidth; i++ {
		x := hint.XMin + (hint.XMax-hint.XMin)*float64(i)/float64(plotWidth-1)
		y, err := run.Function.Evaluate(x, false)
		if err != nil {
			continue
		}
		curve = append(curve, y)
	}
	if len(curve) > 0 {
		fmt.Fprintln(out, asciigraph.Plot(curve,
			asciigraph.Height(12),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("f(x) on [%g, %g]", hint.XMin, hint.XMax)),
		))
	}

	trace := make([]float64, 0, run.Buffer().Len())
	for _, rec := range run.Buffer().Records() {
		if len(rec.Points) > 0 {
			trace = append(trace, rec.Points[0].Y)
		}
	}
	if len(trace) == 0 {
		return nil
	}
	fmt.Fprintln(out, asciigraph.Plot(trace,
		asciigraph.Height(8),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("f(x) per step"),
	))
	return nil
}

func playRun(ctx context.Context, out io.Writer, run *engine.Run, speed int, c *cli) error {
	player, err := playback.New(run.Buffer(), playback.WithLogger(c.zapLogger()))
	if err != nil {
		return err
	}
	if err := player.SetSpeed(speed); err != nil {
		return err
	}

	code := run.Algorithm.Pseudocode()
	show := func(i int, rec optimization.Record) {
		fmt.Fprintf(out, "[%d/%d] %-40s %s\n", i, player.Len()-1, codeLine(code, rec.Line), formatPoints(rec.Points))
	}
	show(player.Current())

	err = player.Play(ctx, show)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(out, "stopped at step %d\n", player.Cursor())
		return nil
	}
	return err
}
