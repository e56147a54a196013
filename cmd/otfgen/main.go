// Command otfgen is the thin CLI front end around pkg/generate: it reads one
// .schema file named by --schema and writes the generated Go module for the
// requested mode to --out, or to stdout when --out is empty.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/otfgen/otfgen/pkg/generate"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "otfgen",
	Short: "Generate Go font-table accessors from a schema file.",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Lower a schema file into a parse or compile module.",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("schema", "", "path to the schema file (required)")
	generateCmd.Flags().String("mode", "parse", `lowering mode: "parse" or "compile"`)
	generateCmd.Flags().String("out", "", "output file path (default: stdout)")
	generateCmd.Flags().Bool("verbose", false, "enable debug logging")

	_ = generateCmd.MarkFlagRequired("schema")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	schemaPath, _ := cmd.Flags().GetString("schema")
	modeFlag, _ := cmd.Flags().GetString("mode")
	outPath, _ := cmd.Flags().GetString("out")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	mode, err := generate.ModeFromString(modeFlag)
	if err != nil {
		return err
	}

	schemaText, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("reading schema file: %w", err)
	}

	out, errs := generate.Generate(schemaPath, string(schemaText), mode)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(cmd.ErrOrStderr(), e)
		}

		return fmt.Errorf("generation failed with %d error(s)", len(errs))
	}

	if outPath == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}

	if isTerminalWriter(cmd) {
		log.WithField("out", outPath).Debug("writing generated module")
	}

	return os.WriteFile(outPath, []byte(out), 0o644)
}

// isTerminalWriter reports whether the command's stdout is an interactive
// terminal, used only to decide whether the debug line above is worth
// logging for a human to see mid-command.
func isTerminalWriter(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
