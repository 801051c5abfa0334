// Package main provides the axiom CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/axiom/pkg/axiom"
	"github.com/cognicore/axiom/pkg/axiom/config"
	"github.com/cognicore/axiom/pkg/axiom/explain"
	"github.com/cognicore/axiom/pkg/axiom/export"
	"github.com/cognicore/axiom/pkg/axiom/infer"
	"github.com/cognicore/axiom/pkg/axiom/shell"
	"github.com/cognicore/axiom/pkg/axiom/stats"
)

// Version is the current axiom CLI version
var Version = "1.0.0"

var (
	configPath string
	cfg        *config.Config

	traceFlag bool
	quietFlag bool

	htmlOut string

	dotOut    string
	jsonOut   string
	sqliteOut string
)

var rootCmd = &cobra.Command{
	Use:     "axiom",
	Short:   "Axiom - propositional calculus inference engine",
	Long:    `Axiom loads a rule file, builds a knowledge graph and answers truth-value queries using backward chaining over three-valued logic.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("trace") {
			traceFlag = cfg.Trace
		}
		if !cmd.Flags().Changed("quiet") {
			quietFlag = cfg.Quiet
		}
		return nil
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve <file>",
	Short: "Answer the queries in a rule file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

var explainCmd = &cobra.Command{
	Use:   "explain <file> [facts...]",
	Short: "Show the reasoning behind query results",
	Long: `Show step-by-step reasoning for queries in natural language and formal
logic notation. With no facts given, the file's own queries are explained.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print rule set statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the justification graph",
	Long: `Build a justification graph by tracing the file's queries and write it
in DOT, JSON or SQLite form. With no output flag the configured default
format and path are used.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var shellCmd = &cobra.Command{
	Use:   "shell <file>",
	Short: "Start an interactive fact validation session",
	Args:  cobra.ExactArgs(1),
	RunE:  runShell,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "axiom.yaml", "path to config file")

	solveCmd.Flags().BoolVar(&traceFlag, "trace", false, "print evaluation traces for each query")
	solveCmd.Flags().BoolVar(&quietFlag, "quiet", false, "print only query results")

	statsCmd.Flags().StringVar(&htmlOut, "html", "", "write an HTML report to this path")

	exportCmd.Flags().StringVar(&dotOut, "dot", "", "write DOT output to this path")
	exportCmd.Flags().StringVar(&jsonOut, "json", "", "write JSON output to this path")
	exportCmd.Flags().StringVar(&sqliteOut, "sqlite", "", "write a SQLite database to this path")

	rootCmd.AddCommand(solveCmd, explainCmd, statsCmd, exportCmd, shellCmd)
}

// load reads a rule file and reports skipped lines on stderr.
func load(path string) (*axiom.System, error) {
	sys, err := axiom.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range sys.Warnings() {
		log.Printf("warning: line %d skipped: %v", w.Line, w.Err)
	}
	for _, w := range sys.Graph().Warnings {
		log.Printf("warning: %s", w)
	}
	return sys, nil
}

func factList(set map[string]struct{}) string {
	if len(set) == 0 {
		return "None"
	}
	facts := make([]string, 0, len(set))
	for f := range set {
		facts = append(facts, f)
	}
	sort.Strings(facts)
	return strings.Join(facts, ", ")
}

func symbol(v infer.Truth) string {
	switch v {
	case infer.True:
		return "✓"
	case infer.False:
		return "✗"
	default:
		return "?"
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	sys, err := load(args[0])
	if err != nil {
		return err
	}

	sep := strings.Repeat("=", 60)
	if !quietFlag {
		fmt.Println(sep)
		fmt.Println("EXPERT SYSTEM - PROPOSITIONAL CALCULUS")
		fmt.Println(sep)
		fmt.Printf("\nLoaded %d rule(s)\n", len(sys.Rules()))
		fmt.Printf("Initial facts: %s\n\n", factList(sys.InitialFacts()))
	}

	if traceFlag {
		x := explain.New(sys.Graph())
		for _, tr := range x.ExplainAll(sys.Queries()) {
			fmt.Printf("=== Query: %s [%s] ===\n", tr.Fact, tr.ID)
			fmt.Println(tr)
		}
	}

	if !quietFlag {
		fmt.Println(sep)
		fmt.Println("QUERY RESULTS")
		fmt.Println(sep)
	}
	for _, res := range sys.Answer() {
		fmt.Printf("%s: %s %s\n", res.Fact, symbol(res.Value), res.Value)
	}
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	sys, err := load(args[0])
	if err != nil {
		return err
	}

	facts := args[1:]
	if len(facts) == 0 {
		facts = sys.Queries()
	}

	sep := strings.Repeat("=", 70)
	fmt.Println(sep)
	fmt.Println("REASONING VISUALIZATION")
	fmt.Println(sep)
	fmt.Printf("Initial facts: %s\n", factList(sys.InitialFacts()))
	fmt.Printf("Queries: %s\n\n", strings.Join(facts, ", "))

	x := explain.New(sys.Graph())
	for _, tr := range x.ExplainAll(facts) {
		fmt.Println(sep)
		fmt.Printf("QUERY: %s\n", tr.Fact)
		fmt.Println(sep)
		fmt.Println(tr)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	sys, err := load(args[0])
	if err != nil {
		return err
	}

	report := stats.Analyze(sys.Rules(), sys.InitialFacts())
	if htmlOut != "" {
		f, err := os.Create(htmlOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.WriteHTML(f); err != nil {
			return err
		}
		fmt.Printf("HTML report written to: %s\n", htmlOut)
		return nil
	}
	return report.WriteText(os.Stdout)
}

func runExport(cmd *cobra.Command, args []string) error {
	sys, err := load(args[0])
	if err != nil {
		return err
	}

	if dotOut == "" && jsonOut == "" && sqliteOut == "" {
		switch cfg.Export.Format {
		case "dot":
			dotOut = cfg.Export.Output
		case "json":
			jsonOut = cfg.Export.Output
		case "sqlite":
			sqliteOut = cfg.Export.Output
		}
	}

	g := export.Build(sys.Engine(), sys.Queries())
	fmt.Printf("Graph contains %d nodes and %d edges\n", len(g.Nodes()), len(g.Edges()))

	if dotOut != "" {
		if err := writeTo(dotOut, g.WriteDOT); err != nil {
			return err
		}
		fmt.Printf("DOT export written to: %s\n", dotOut)
		fmt.Printf("  Visualize with: dot -Tpng %s -o graph.png\n", dotOut)
	}
	if jsonOut != "" {
		if err := writeTo(jsonOut, g.WriteJSON); err != nil {
			return err
		}
		fmt.Printf("JSON export written to: %s\n", jsonOut)
	}
	if sqliteOut != "" {
		if err := g.WriteSQLite(context.Background(), sqliteOut); err != nil {
			return err
		}
		fmt.Printf("SQLite export written to: %s\n", sqliteOut)
	}
	return nil
}

func writeTo(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func runShell(cmd *cobra.Command, args []string) error {
	sys, err := load(args[0])
	if err != nil {
		return err
	}

	session := shell.NewSession(sys.Rules(), sys.InitialFacts(), os.Stdout,
		shell.WithHistoryLimit(cfg.Shell.HistorySize))
	return session.Run(os.Stdin)
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
