package main

import (
	"fmt"
	"strings"

	"github.com/agleyzer/streampack/internal/hls"
	"github.com/agleyzer/streampack/internal/jobfile"
	"github.com/agleyzer/streampack/internal/keyinfo"
	"github.com/agleyzer/streampack/internal/logging"
	"github.com/agleyzer/streampack/internal/packager"
	"github.com/agleyzer/streampack/internal/parser"
	"github.com/agleyzer/streampack/internal/playlist"
	"github.com/agleyzer/streampack/internal/variant"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
	jsonLog bool
}

func (o *rootOptions) logger(cmd *cobra.Command) hclog.Logger {
	return logging.New("streampack", logging.Options{
		Verbose: o.verbose,
		JSON:    o.jsonLog,
		Output:  cmd.ErrOrStderr(),
	})
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "streampack",
		Short:         "Build encoder arguments for DASH and HLS outputs",
		Long:          `streampack reads a job file describing a representation ladder and prints the encoder arguments that produce a DASH manifest or a set of HLS playlists.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&opts.jsonLog, "json-log", false, "log as JSON lines")

	root.AddCommand(
		newArgsCmd(fs, opts),
		newMasterCmd(fs, opts),
		newKeyInfoCmd(fs, opts),
		newInspectCmd(fs, opts),
	)

	return root
}

func newArgsCmd(fs afero.Fs, opts *rootOptions) *cobra.Command {
	var command bool

	cmd := &cobra.Command{
		Use:   "args <job-file>",
		Short: "Print the encoder arguments for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd)

			job, err := jobfile.Load(fs, args[0])
			if err != nil {
				return err
			}

			p, err := job.Packager(fs, logger)
			if err != nil {
				return err
			}

			var tokens []string
			if command {
				tokens, err = packager.Command(p, job.Input)
			} else {
				tokens, err = p.Args()
			}
			if err != nil {
				return fmt.Errorf("failed to build arguments: %w", err)
			}

			logger.Info("built arguments",
				"protocol", job.Protocol,
				"output", p.OutputPath(),
				"tokens", len(tokens),
			)

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tokens, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&command, "command", false, "print the full invocation including input and output target")

	return cmd
}

func newMasterCmd(fs afero.Fs, opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "master <job-file>",
		Short: "Write the HLS master playlist for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd)

			job, err := jobfile.Load(fs, args[0])
			if err != nil {
				return err
			}

			cfg, err := job.HLSConfig()
			if err != nil {
				return err
			}

			target := out
			if target == "" {
				target = hls.New(cfg, fs, logger).OutputPath()
			}

			if err := playlist.NewWriter(fs, logger).Write(target, cfg.Representations); err != nil {
				return err
			}

			info, err := parser.ParseFile(fs, target)
			if err != nil {
				return fmt.Errorf("failed to verify master playlist: %w", err)
			}
			if len(info.Variants) != len(cfg.Representations) {
				return fmt.Errorf("master playlist has %d variants, expected %d",
					len(info.Variants), len(cfg.Representations))
			}

			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "master playlist path (default: output path with .m3u8 extension)")

	return cmd
}

func newKeyInfoCmd(fs afero.Fs, opts *rootOptions) *cobra.Command {
	var info string

	cmd := &cobra.Command{
		Use:   "keyinfo <key-path> <key-url>",
		Short: "Generate an AES-128 key and its key info file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd)

			path, err := keyinfo.New(fs).Generate(args[0], args[1], info)
			if err != nil {
				return err
			}

			logger.Debug("generated key info", "key", args[0], "info", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&info, "info", "", "key info file path (default <key-path>.keyinfo)")

	return cmd
}

func newInspectCmd(fs afero.Fs, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <master.m3u8>",
		Short: "List the variants of an HLS master playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd)

			info, err := parser.ParseFile(fs, args[0])
			if err != nil {
				return err
			}

			logger.Debug("parsed master playlist", "version", info.Version, "variants", len(info.Variants))

			for _, v := range info.Variants {
				fmt.Fprintln(cmd.OutOrStdout(), formatVariant(v))
			}
			return nil
		},
	}
}

// formatVariant renders one variant as a tab separated line.
func formatVariant(v variant.Variant) string {
	resolution := v.Resolution
	if resolution == "" {
		resolution = "-"
	}
	return fmt.Sprintf("%s\t%s\t%d\t%s", v.Name, resolution, v.Bandwidth, v.URI)
}
