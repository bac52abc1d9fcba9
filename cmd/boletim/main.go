package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/coolbeans/boletim/pkg/align"
	"github.com/coolbeans/boletim/pkg/config"
	"github.com/coolbeans/boletim/pkg/pdftext"
	"github.com/coolbeans/boletim/pkg/pipeline"
	"github.com/coolbeans/boletim/pkg/report"
	"github.com/coolbeans/boletim/pkg/watch"
)

var version = "0.1.0"

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "boletim",
		Short: "Gazette document reconstructor",
		Long: `Boletim reconstructs structured documents from the noisy text of
scanned government gazettes.

It splits a gazette into its summary and body sections, extracts the
authoritative organization/document index from the summary, and aligns
that index against the body, slicing it into per-organization and
per-document segments tolerant of OCR noise and missing anchors.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(reconstructCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// loadText reads a gazette file, extracting text when it is a PDF.
func loadText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdftext.ExtractFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func reconstructCmd() *cobra.Command {
	var (
		outPath  string
		htmlPath string
		jsonOut  bool
	)
	cmd := &cobra.Command{
		Use:   "reconstruct <gazette-file>",
		Short: "Reconstruct per-document segments from a gazette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			text, err := loadText(args[0])
			if err != nil {
				return err
			}

			name := filepath.Base(args[0])
			result, err := pipeline.New(cfg).Process(name, text)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(struct {
					Orgs    []align.OrgResult `json:"orgs"`
					Summary align.Summary     `json:"summary"`
				}{result.Orgs, result.Summary})
			}

			rep := &report.Report{Name: name, Orgs: result.Orgs, Summary: result.Summary}
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(rep.ToMarkdown()), 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				fmt.Println(subtleStyle.Render("report written to " + outPath))
			}
			if htmlPath != "" {
				html, err := rep.ToHTML()
				if err != nil {
					return err
				}
				if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
					return fmt.Errorf("writing html report: %w", err)
				}
				fmt.Println(subtleStyle.Render("html report written to " + htmlPath))
			}

			printSummary(result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write a Markdown report to this path")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write an HTML report to this path")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit results as JSON on stdout")
	return cmd
}

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <gazette-file>",
		Short: "Extract the summary index payload as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			text, err := loadText(args[0])
			if err != nil {
				return err
			}
			result, err := pipeline.New(cfg).Process(filepath.Base(args[0]), text)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Payload)
		},
	}
}

func watchCmd() *cobra.Command {
	var reportDir string
	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and reconstruct arriving gazettes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p := pipeline.New(cfg)

			handler := func(path string) {
				text, err := loadText(path)
				if err != nil {
					fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
					return
				}
				name := filepath.Base(path)
				result, err := p.Process(name, text)
				if err != nil {
					fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
					return
				}
				printSummary(result)

				if reportDir != "" {
					rep := &report.Report{Name: name, Orgs: result.Orgs, Summary: result.Summary}
					out := filepath.Join(reportDir, name+".report.md")
					if err := os.WriteFile(out, []byte(rep.ToMarkdown()), 0o644); err != nil {
						fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
					}
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println(headingStyle.Render("watching " + args[0]))
			err = watch.New(args[0], handler).Run(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "write a Markdown report per gazette into this directory")
	return cmd
}

// printSummary renders the per-organization status lines to the terminal.
func printSummary(result *pipeline.Result) {
	fmt.Println(headingStyle.Render(result.Name))
	fmt.Printf("%s series, %d organizations, %d/%d documents matched\n",
		result.Series, result.Summary.Total,
		result.Summary.DocsMatched, result.Summary.DocsExpected)

	for _, org := range result.Orgs {
		var line string
		switch org.Status {
		case align.StatusOK:
			line = okStyle.Render("ok        ")
		case align.StatusPartial:
			line = warnStyle.Render("partial   ")
		default:
			line = errStyle.Render(fmt.Sprintf("%-10s", org.Status))
		}
		fmt.Printf("  %s %s (%d docs)\n", line, strings.ReplaceAll(org.Org, "**", ""), len(org.Docs))
	}
}
