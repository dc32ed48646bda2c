package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/provide-io/gbadoom/go/tools/internal/buildinfo"
	"github.com/provide-io/gbadoom/go/tools/pkg"
	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
	"github.com/provide-io/gbadoom/go/tools/pkg/logging"
	"github.com/provide-io/gbadoom/go/tools/pkg/utils/permissions"
)

const commandName = "archive-to-source"

var (
	outputDir   string
	modeFlag    string
	listFlag    bool
	checkFlag   bool
	logLevel    string
	versionFlag bool
	rootCmd     *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   commandName + " <archive-file>",
		Short: "Generate C++ lump directory tables from a WAD archive",
		Long: `Generate C++ lump directory tables from a WAD archive.

Writes <basename>_lumps.h and <basename>_lumps.cc describing the position,
size and name of every lump. Both files are rendered before either is
written; files whose content would not change are left untouched.`,
		Args: usageArgs(1),
		Run:  dumpArchive,
		// main prints the error once
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory for the generated sources")
	rootCmd.Flags().StringVar(&modeFlag, "mode", "", "Output file mode in octal (default 0644)")
	rootCmd.Flags().BoolVar(&listFlag, "list", false, "Print the lump directory")
	rootCmd.Flags().BoolVar(&checkFlag, "check", false, "Exit non-zero if the generated sources are missing or out of date")
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

func dumpArchive(cmd *cobra.Command, args []string) {
	if versionFlag {
		buildinfo.Print(cmd.OutOrStdout(), commandName)
		return
	}

	logger, closeLog := logging.ForCommand(commandName, logLevel)
	err := runDump(cmd, args, logger)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func runDump(cmd *cobra.Command, args []string, logger hclog.Logger) error {
	mode, err := permissions.ParseMode(modeFlag)
	if err != nil {
		logger.Error("Invalid --mode", "error", err)
		return err
	}

	opts := pkg.ArchiveOptions{
		Archive:   args[0],
		OutputDir: outputDir,
		Mode:      mode,
		List:      listFlag,
		Check:     checkFlag,
	}
	if _, err := pkg.DumpArchive(opts, cmd.OutOrStdout(), logger); err != nil {
		if errors.Is(err, perrors.ErrStaleSources) {
			logger.Error("Generated sources need regenerating", "archive", args[0], "error", err)
		} else {
			logger.Error("Failed to generate sources", "archive", args[0], "error", err)
		}
		return err
	}
	return nil
}
