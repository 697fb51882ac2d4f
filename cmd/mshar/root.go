// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mshar/cmd/mshar/commands"
	"github.com/walteh/mshar/cmd/mshar/opts"
	"github.com/walteh/mshar/pkg/archive"
	"github.com/walteh/mshar/pkg/input"
	"github.com/walteh/mshar/pkg/log"
)

// NewCommand creates the mshar root command. Run with positional
// arguments it builds an archive from PRESCRIPT, POSTSCRIPT and FILEs.
// The command context must carry a *log.Logger (see log.NewContext).
func NewCommand(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mshar [flags] PRESCRIPT POSTSCRIPT [FILE...]",
		Short: "Create self-extracting shell archives",
		Long: `mshar packs files into a single POSIX shell script that recreates them
when run. PRESCRIPT and POSTSCRIPT name script files whose contents run
before and after extraction; pass - for either to leave it out.

By default unreadable files are skipped with a warning. With --strict the
first unreadable file aborts the run and nothing is written.`,
		Example: `  mshar - - README.md main.go > install.sh
  mshar --strict -o bundle.sh pre.sh post.sh config/*.yaml
  mshar build -c .mshar.yaml`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)
			logger.SetQuiet(o.Quiet)
			if o.Debug {
				zlog := zerolog.Ctx(ctx).Level(zerolog.DebugLevel)
				cmd.SetContext(zlog.WithContext(ctx))
				logger.SetLevel(zerolog.DebugLevel)
			}
			if o.Jobs < 1 {
				return errors.Errorf("--jobs must be at least 1, got %d", o.Jobs)
			}
			for _, p := range o.Exclude {
				if !doublestar.ValidatePattern(p) {
					return errors.Errorf("--exclude %q is not a valid pattern", p)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
				return errors.Errorf("expected PRESCRIPT and POSTSCRIPT, got %d arguments", len(args))
			}
			return runClassic(cmd, o, args)
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewBuildCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	flags := cmd.PersistentFlags()
	flags.BoolVar(&o.Strict, "strict", false, "fail on the first unreadable file")
	flags.StringVarP(&o.Output, "output", "o", "", "write the archive to this file instead of stdout")
	flags.StringArrayVar(&o.Exclude, "exclude", nil, "drop files matching this pattern (repeatable)")
	flags.IntVarP(&o.Jobs, "jobs", "j", 1, "number of files to encode in parallel")
	flags.BoolVarP(&o.Quiet, "quiet", "q", false, "only print errors")
	flags.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// runClassic builds from the command line form. Paths are opened as given.
func runClassic(cmd *cobra.Command, o *opts.RootOpts, args []string) error {
	ctx := cmd.Context()
	resolver := input.NewResolver(osfs.Default, nil)

	pre, err := resolver.Script(ctx, args[0])
	if err != nil {
		return errors.Errorf("loading prescript: %w", err)
	}
	post, err := resolver.Script(ctx, args[1])
	if err != nil {
		return errors.Errorf("loading postscript: %w", err)
	}

	paths, err := resolver.Paths(ctx, args[2:], nil, o.Exclude)
	if err != nil {
		return errors.Errorf("resolving paths: %w", err)
	}

	req := archive.Request{
		PreScript:        pre,
		PostScript:       post,
		Paths:            paths,
		IgnoreFileErrors: !o.Strict,
	}
	return commands.Run(ctx, osfs.Default, req, o.Jobs, commands.Target{
		Path:   o.Output,
		Stdout: cmd.OutOrStdout(),
	})
}
