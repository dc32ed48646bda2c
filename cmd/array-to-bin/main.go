package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/provide-io/gbadoom/go/tools/internal/buildinfo"
	"github.com/provide-io/gbadoom/go/tools/pkg"
	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
	"github.com/provide-io/gbadoom/go/tools/pkg/logging"
	"github.com/provide-io/gbadoom/go/tools/pkg/utils/permissions"
)

const commandName = "array-to-bin"

var (
	codecSpec   string
	modeFlag    string
	logLevel    string
	versionFlag bool
	rootCmd     *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   commandName + " <input-text-file> <array-identifier> <output-binary-file>",
		Short: "Extract the bytes of a C array initializer to a binary file",
		Long: `Extract the bytes of a C array initializer to a binary file.

The input is scanned for a declaration of the form

    <array-identifier>[...] = { ... };

and every integer literal in the initializer is written, in order, as one
byte of the output. Values outside 0..255 abort without writing anything.`,
		Args: usageArgs(3),
		Run:  extractArray,
		// main prints the error once
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&codecSpec, "codec", "", "Codec chain for the output, e.g. gzip or zstd|bzip2 (available: "+strings.Join(codec.Names(), ", ")+")")
	rootCmd.Flags().StringVar(&modeFlag, "mode", "", "Output file mode in octal (default 0644)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")
}

// usageArgs enforces n positional arguments unless only --version was asked for
func usageArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if versionFlag {
			return nil
		}
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", perrors.ErrUsage, err)
		}
		return nil
	}
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if buildinfo.WantsVersion(os.Args[1:]) {
		buildinfo.Print(os.Stdout, commandName)
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func extractArray(cmd *cobra.Command, args []string) {
	if versionFlag {
		buildinfo.Print(cmd.OutOrStdout(), commandName)
		return
	}

	logger, closeLog := logging.ForCommand(commandName, logLevel)
	err := runExtract(cmd, args, logger)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func runExtract(cmd *cobra.Command, args []string, logger hclog.Logger) error {
	mode, err := permissions.ParseMode(modeFlag)
	if err != nil {
		logger.Error("Invalid --mode", "error", err)
		return err
	}

	opts := pkg.ExtractOptions{
		Input:  args[0],
		Array:  args[1],
		Output: args[2],
		Codec:  codecSpec,
		Mode:   mode,
	}
	if _, err := pkg.ExtractArray(opts, cmd.OutOrStdout(), logger); err != nil {
		logger.Error("Extraction failed", "error", err)
		return err
	}
	return nil
}
