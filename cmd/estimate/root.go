package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"marmurfit_voicebot/internal/catalog/repository"
	catalogservice "marmurfit_voicebot/internal/catalog/service"
	estimatehandler "marmurfit_voicebot/internal/estimate/handler"
	estimateservice "marmurfit_voicebot/internal/estimate/service"
	"marmurfit_voicebot/platform/logger"
	"marmurfit_voicebot/platform/validator"

	"github.com/spf13/cobra"
)

const defaultCatalogPath = "data/marmurfit_kb.json"

// newRootCmd builds the estimate command tree.
func newRootCmd() *cobra.Command {
	var catalogPath string

	rootCmd := &cobra.Command{
		Use:   "estimate [utterance...]",
		Short: "Interpret a caller utterance into a MARMURFIT price estimate",
		Long: `estimate runs the same interpreter as the voice flow against a free-text
utterance and prints the result as JSON. With no arguments it reads one
utterance per line from stdin.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(catalogPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			interpreter := estimateservice.NewInterpreter(c)

			if len(args) > 0 {
				return printResult(cmd.OutOrStdout(), interpreter, strings.Join(args, " "))
			}
			return interpretLines(cmd.InOrStdin(), cmd.OutOrStdout(), interpreter)
		},
	}

	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", catalogPathFromEnv(), "catalog file (JSON or YAML, or set CATALOG_PATH)")
	rootCmd.AddCommand(newMaterialsCmd(&catalogPath))

	return rootCmd
}

func newMaterialsCmd(catalogPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "materials",
		Short: "List catalog materials in detection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(*catalogPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range c.ScanOrder() {
				if _, err := fmt.Fprintf(out, "%-20s %8.2f lei/m²\n", m.Name, m.PricePerArea); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func catalogPathFromEnv() string {
	if p := strings.TrimSpace(os.Getenv("CATALOG_PATH")); p != "" {
		return p
	}
	return defaultCatalogPath
}

func loadCatalog(path string, logOut io.Writer) (*catalogservice.Catalog, error) {
	log := logger.NewWithWriter("production", logOut)
	c, err := catalogservice.Load(repository.NewFileRepository(path), validator.New(), log)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

func interpretLines(in io.Reader, out io.Writer, interpreter *estimateservice.Interpreter) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := printResult(out, interpreter, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func printResult(out io.Writer, interpreter *estimateservice.Interpreter, utterance string) error {
	return json.NewEncoder(out).Encode(estimatehandler.ToResponse(interpreter.Interpret(utterance)))
}
