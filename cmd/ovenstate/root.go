package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ovenstate/internal/config"
	"github.com/ironsheep/ovenstate/internal/pipeline"
)

// options holds the flags shared by the detection and serve commands.
type options struct {
	ImagePath string
	OutputDir string
	ROI       string
	EnvFiles  []string
}

// newRootCmd builds the command tree. Output streams are injected so the
// commands can be exercised in tests.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ovenstate",
		Short: "Detect whether an oven indicator light is ON or OFF",
		Long: `ovenstate looks for a lit red indicator in a photo of an oven panel.
Any red circle found means the oven is ON; none means OFF.

Pipeline parameters can be tuned with OVENSTATE_* environment variables,
optionally loaded from a .env file.`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, opts)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.Flags().StringVarP(&opts.ImagePath, "image_path", "i", "", "path to the input image (required)")
	root.Flags().StringVarP(&opts.OutputDir, "output_dir", "o", "", "directory to write intermediate stage images to")
	root.Flags().StringVar(&opts.ROI, "roi", "", "only search the region x1,y1,x2,y2")
	root.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil, "env files to load before reading OVENSTATE_* variables (default .env)")
	_ = root.MarkFlagRequired("image_path")

	root.AddCommand(newServeCmd(opts))
	return root
}

// setup loads configuration and builds the logger and pipeline.
func setup(cmd *cobra.Command, opts *options) (*pipeline.Pipeline, *slog.Logger, error) {
	cfg, err := config.Load(opts.EnvFiles...)
	if err != nil {
		return nil, nil, err
	}
	if opts.ROI != "" {
		roi, err := config.ParseRegion(opts.ROI)
		if err != nil {
			return nil, nil, err
		}
		cfg.ROI = &roi
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return p, logger, nil
}

func runDetect(cmd *cobra.Command, opts *options) error {
	p, logger, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	var obs pipeline.Observer
	if opts.OutputDir != "" {
		sink, err := pipeline.NewDirSink(opts.OutputDir)
		if err != nil {
			return err
		}
		obs = sink
		logger.Debug("main: writing stage images", "dir", opts.OutputDir)
	}

	res, err := p.RunFile(opts.ImagePath, obs)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetIn(stdin)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
