package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/provide-io/gbadoom/go/tools/internal/buildinfo"
	"github.com/provide-io/gbadoom/go/tools/pkg"
	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
	"github.com/provide-io/gbadoom/go/tools/pkg/framebuf"
	"github.com/provide-io/gbadoom/go/tools/pkg/logging"
	"github.com/provide-io/gbadoom/go/tools/pkg/utils/permissions"
)

const commandName = "frames-to-animation"

var (
	scale       int
	orderFlag   string
	outputPath  string
	modeFlag    string
	logLevel    string
	versionFlag bool
	rootCmd     *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   commandName + " <capture-directory>",
		Short: "Assemble raw screen buffer dumps into an animated GIF",
		Long: `Assemble raw screen buffer dumps into an animated GIF.

Reads <capture-directory>/screenbuffers/*.raw and writes
<capture-directory>/output.gif. Frame delays follow the capture
timestamps; the average and 90th-percentile frame rates are printed.`,
		Args: usageArgs(1),
		Run:  assembleFrames,
		// main prints the error once
		SilenceErrors: true,
	}

	rootCmd.Flags().IntVar(&scale, "scale", 2, "Integer upscale factor")
	rootCmd.Flags().StringVar(&orderFlag, "order", string(framebuf.OrderName), "Frame order: name or sequence")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (default <capture-directory>/output.gif)")
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

func assembleFrames(cmd *cobra.Command, args []string) {
	if versionFlag {
		buildinfo.Print(cmd.OutOrStdout(), commandName)
		return
	}

	logger, closeLog := logging.ForCommand(commandName, logLevel)
	err := runAssemble(cmd, args, logger)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func runAssemble(cmd *cobra.Command, args []string, logger hclog.Logger) error {
	order, err := framebuf.ParseOrder(orderFlag)
	if err != nil {
		logger.Error("Invalid --order", "error", err)
		return err
	}
	if scale < 1 {
		err := fmt.Errorf("%w: --scale must be at least 1, got %d", perrors.ErrUsage, scale)
		logger.Error("Invalid --scale", "error", err)
		return err
	}
	mode, err := permissions.ParseMode(modeFlag)
	if err != nil {
		logger.Error("Invalid --mode", "error", err)
		return err
	}

	opts := pkg.AnimationOptions{
		CaptureDir: args[0],
		Output:     outputPath,
		Scale:      scale,
		Order:      order,
		Mode:       mode,
	}
	if _, err := pkg.AssembleFrames(opts, cmd.OutOrStdout(), logger); err != nil {
		logger.Error("Failed to assemble animation", "dir", args[0], "error", err)
		return err
	}
	return nil
}
