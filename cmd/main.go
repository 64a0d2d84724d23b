package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tidbyt.dev/ttgraph"
	"tidbyt.dev/ttgraph/graph"
	"tidbyt.dev/ttgraph/internal/logger"
	"tidbyt.dev/ttgraph/render"
	"tidbyt.dev/ttgraph/storage"
)

var rootCmd = &cobra.Command{
	Use:           "ttgraph",
	Short:         "Timetable graph builder",
	Long:          "Builds a station graph from semicolon separated timetables and prints it for the viewer",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          build,
}

var (
	dataDir     string
	format      string
	sqlitePath  string
	postgresURL string
	logLevel    string
	logFile     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "data", "Directory holding timetable tables (*.txt)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Log level")
	rootCmd.PersistentFlags().StringVarP(&logFile, "log-file", "", "", "Also write logs to this file")

	formats := []string{}
	for _, f := range render.Formats() {
		formats = append(formats, string(f))
	}
	rootCmd.Flags().StringVarP(&format, "format", "f", string(render.FormatJS), "Output format ("+strings.Join(formats, ", ")+")")
	rootCmd.Flags().StringVarP(&sqlitePath, "sqlite", "", "", "Also export the graph to this SQLite database")
	rootCmd.Flags().StringVarP(&postgresURL, "postgres", "", "", "Also export the graph to this Postgres database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (zerolog.Logger, error) {
	cfg := logger.DefaultConfig()
	cfg.Level = logLevel
	cfg.FilePath = logFile
	return logger.New(cfg)
}

// Builds the graph from every table in the data directory.
func LoadGraph() (*graph.Graph, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	g := graph.New()
	err = ttgraph.NewLoader(g, log).LoadDir(dataDir)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func build(cmd *cobra.Command, args []string) error {
	g, err := LoadGraph()
	if err != nil {
		return err
	}

	out, err := render.Render(g, render.Format(format))
	if err != nil {
		return err
	}

	if sqlitePath != "" {
		s, err := storage.NewSQLiteStorage(storage.SQLiteConfig{OnDisk: true, Path: sqlitePath})
		if err != nil {
			return err
		}
		defer s.Close()
		if err := export(g, s); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	}

	if postgresURL != "" {
		s, err := storage.NewPSQLStorage(postgresURL, false)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := export(g, s); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}

	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func export(g *graph.Graph, s storage.Storage) error {
	w, err := s.GetWriter()
	if err != nil {
		return err
	}
	return ttgraph.Export(g, w)
}
