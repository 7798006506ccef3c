package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gasnet/calculator/internal/codec"
	"github.com/gasnet/calculator/internal/config"
	"github.com/gasnet/calculator/internal/evaluator"
	"github.com/gasnet/calculator/internal/handler" // registers report formats
	"github.com/gasnet/calculator/internal/logger"
	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/profile"
	"github.com/gasnet/calculator/internal/registry"
	"github.com/gasnet/calculator/internal/report"
	"github.com/gasnet/calculator/internal/result"
	"github.com/gasnet/calculator/internal/session"
)

var (
	configPath string
	cfg        *config.Config
	log        *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gasnet",
		Short:         "Gas distribution network calculator",
		Long:          "Computes pressure loss and velocity along a gas pipe network, checks each segment against the design limits and writes technical reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search $GASNET_CONFIG, ./gasnet.yaml, XDG)")

	rootCmd.AddCommand(newEvaluateCmd(), newConvertCmd(), newProfileCmd(), newFormatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, handler.FormatNotice(result.Notice{Severity: result.SeverityDanger, Message: err.Error()}))
		os.Exit(1)
	}
}

func loadConfig() error {
	var err error
	if configPath != "" {
		cfg, _, err = config.LoadFromPath(configPath)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		return err
	}
	log = logger.NewWithLevel(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	return nil
}

func newEvaluateCmd() *cobra.Command {
	var (
		input   string
		output  string
		formats []string
		basis   string
		jsonOut bool
		noFiles bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a network file and write reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = cfg.Output
			}
			if len(formats) == 0 {
				formats = cfg.Formats
			}
			if basis != "" {
				cfg.Report.VelocityBasis = basis
			}
			return runEvaluate(cmd.Context(), input, output, formats, jsonOut, noFiles)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to network file (.json, .yaml, .hcl) or - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory for report files")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Report formats (see 'gasnet formats')")
	cmd.Flags().StringVar(&basis, "velocity-basis", "", "Inlet pressure used for exported rows: propagated or stored")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&noFiles, "no-files", false, "Do not write report files")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runEvaluate(ctx context.Context, input, output string, formats []string, jsonOut, noFiles bool) error {
	n, err := readNetwork(input)
	if err != nil {
		return err
	}

	evOpts := evaluator.DefaultOptions()
	evOpts.Logger = log
	ev := evaluator.New(evOpts)
	res, err := ev.Run(n)
	if err != nil {
		return err
	}
	if !res.Success {
		printResult(res, jsonOut)
		os.Exit(1)
	}

	sess, closeStore, err := openSession(ev)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := sess.LoadProfile(ctx); err != nil {
		return err
	}
	if err := sess.Load(n); err != nil {
		return err
	}
	if err := sess.LastError(); err != nil {
		return err
	}

	opts, err := cfg.ReportOptions()
	if err != nil {
		return err
	}
	doc, err := report.Build(opts, n.Metadata, sess.Segments(), sess.Profile(), sess.Evaluation())
	if err != nil {
		return err
	}

	if !noFiles {
		files, errs := handler.Render(registry.Default, doc, formats)
		res.Errors = append(res.Errors, errs...)
		res.Files = files.Build()
	}
	res.Evaluation = sess.Evaluation()

	if jsonOut {
		printResult(res, true)
	} else {
		fmt.Println(handler.Table(doc.Rows))
		for _, l := range summaryText(doc) {
			fmt.Println(l)
		}
		for _, w := range res.Warnings {
			fmt.Fprintln(os.Stderr, handler.FormatNotice(result.Notice{Severity: result.SeverityWarning, Message: w.Message}))
		}
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "ERROR %s\n", e.Message)
		}
	}

	if len(res.Files) == 0 {
		return nil
	}
	if err := os.MkdirAll(output, 0755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	for name, content := range res.Files {
		path := filepath.Join(output, name)
		if err := os.WriteFile(path, content, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if !jsonOut {
			fmt.Println("wrote", path)
		}
	}
	return nil
}

func summaryText(doc *report.Document) []string {
	s := doc.Evaluation.Summary
	return []string{
		fmt.Sprintf("Initial pressure: %.2f mbar   Final pressure: %.2f mbar", s.InitialPressure, s.FinalPressure),
		fmt.Sprintf("Total loss: %.2f mbar (%.2f%%)   Max velocity: %.2f m/s", s.TotalPressureLoss, s.LossPercent, s.MaxVelocity),
		fmt.Sprintf("Approved segments: %d/%d   Overall status: %s", s.Approved, s.Total, doc.OverallStatus()),
	}
}

func printResult(res *result.ParseResult, jsonOut bool) {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "ERROR [%s] %s\n", e.SegmentID, e.Message)
		if e.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  suggestion: %s\n", e.Suggestion)
		}
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "WARN [%s] %s\n", w.SegmentID, w.Message)
	}
}

func newConvertCmd() *cobra.Command {
	var input, to string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a network file between JSON, YAML and HCL",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := readNetwork(input)
			if err != nil {
				return err
			}
			return writeNetwork(os.Stdout, n, to)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to network file or - for stdin")
	cmd.Flags().StringVar(&to, "to", "hcl", "Output format: json, yaml or hcl")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List report formats",
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range registry.Default.ListSupportedFormats() {
				fmt.Println(f)
			}
		},
	}
}

func readNetwork(input string) (*network.Network, error) {
	var r io.Reader
	if input == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return codec.ForPath(input).Parse(r)
}

func openSession(ev *evaluator.NetworkEvaluator) (*session.Session, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
		return nil, nil, fmt.Errorf("mkdir: %w", err)
	}
	store, err := profile.NewSQLiteStore(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	// merge warnings are printed from the run result
	notify := func(n result.Notice) {
		if n.Severity == result.SeverityDanger {
			fmt.Fprintln(os.Stderr, handler.FormatNotice(n))
		}
	}
	sess := session.New(
		session.WithLogger(log),
		session.WithEvaluator(ev),
		session.WithStore(store),
		session.WithNotifier(notify),
	)
	return sess, func() {
		if err := store.Close(); err != nil {
			log.Warn("close profile store", "error", err)
		}
	}, nil
}

// promptGate asks on the terminal unless the caller passed --yes.
func promptGate(yes bool) session.Gate {
	if yes {
		return session.Authorized
	}
	return session.GateFunc(func(prompt string) bool {
		fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})
}
