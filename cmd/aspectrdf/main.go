// Package main provides the aspectrdf binary entry point.
// Aspectrdf builds Aspect Model documents and serializes them as RDF
// using the SAMM vocabulary.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/aspect-rdf/config"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "aspectrdf"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	format     string
	version    string
	backend    string
	dbPath     string
	external   []string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Serialize Aspect Models as RDF",
		Long: `Aspectrdf reads Aspect Model documents (YAML) and writes them as RDF
statements using the SAMM meta model vocabulary.

Configuration is layered: defaults, ~/.config/aspectrdf/config.yaml,
aspectrdf.yaml in the working directory or a parent, the --config file,
then command line flags.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVarP(&flags.format, "format", "f", "", "Output format (turtle, ntriples, nquads, jsonld, rdfxml)")
	pf.StringVar(&flags.version, "samm-version", "", "SAMM meta model version")
	pf.StringVar(&flags.backend, "store", "", "Statement store backend (memory, sqlite)")
	pf.StringVar(&flags.dbPath, "db", "", "SQLite database path")
	pf.StringArrayVarP(&flags.external, "external", "e", nil, "Glob of documents loaded beside the encoded one (repeatable)")

	cmd.AddCommand(encodeCmd(flags))
	cmd.AddCommand(watchCmd(flags))
	cmd.AddCommand(vocabCmd(flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setup loads the layered configuration, applies flag overrides and returns
// the logger configured at the resulting level.
func (f *globalFlags) setup() (*config.Config, *slog.Logger, error) {
	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.NewLoader(bootstrap).Load(f.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	cfg.Merge(&config.Config{
		Vocabulary: config.VocabularyConfig{Version: f.version},
		Output:     config.OutputConfig{Format: f.format},
		Store:      config.StoreConfig{Backend: f.backend, Path: f.dbPath},
		Log:        config.LogConfig{Level: f.logLevel},
		Model:      config.ModelConfig{External: f.external},
	})
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func vocabCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "Print the namespaces of the SAMM vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.setup()
			if err != nil {
				return err
			}
			v, err := vocab.New(cfg.Vocabulary.Version)
			if err != nil {
				return err
			}
			prefixes := v.Prefixes()
			aliases := make([]string, 0, len(prefixes))
			for alias := range prefixes {
				aliases = append(aliases, alias)
			}
			sort.Strings(aliases)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "SAMM %s\n", v.Version())
			for _, alias := range aliases {
				fmt.Fprintf(tw, "%s\t%s\n", alias, prefixes[alias])
			}
			return tw.Flush()
		},
	}
}
