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

package commands

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mshar/cmd/mshar/opts"
	"github.com/walteh/mshar/pkg/config"
	"github.com/walteh/mshar/pkg/input"
)

// NewBuildCmd creates a new build command
func NewBuildCmd(o *opts.RootOpts) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an archive from a manifest",
		Long: `Build reads an archive manifest and writes the resulting shell archive.
It will:
1. Load and validate the manifest
2. Read the pre and post scripts
3. Expand include patterns and drop excluded paths
4. Encode every file and write the archive

Paths in the manifest are relative to the manifest's directory. The
--output, --strict, --jobs and --exclude flags override or extend it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "build").Logger().WithContext(ctx)

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading manifest: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("strict") {
				cfg.Strict = o.Strict
			}
			if flags.Changed("jobs") {
				cfg.Jobs = o.Jobs
			}
			cfg.Exclude = append(cfg.Exclude, o.Exclude...)
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("applying flags: %w", err)
			}

			target := Target{Stdout: cmd.OutOrStdout()}
			switch {
			case flags.Changed("output"):
				target.Path = o.Output
			case cfg.Output != "" && !filepath.IsAbs(cfg.Output):
				target.Path = filepath.Join(cfg.Dir(), cfg.Output)
			default:
				target.Path = cfg.Output
			}

			zerolog.Ctx(ctx).Debug().Str("manifest", configFile).Str("config", cfg.String()).Msg("manifest loaded")

			dir := cfg.Dir()
			files := osfs.New(dir)
			req, err := input.NewResolver(files, os.DirFS(dir)).Request(ctx, cfg)
			if err != nil {
				return errors.Errorf("resolving manifest: %w", err)
			}

			return Run(ctx, files, req, cfg.Jobs, target)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", config.DefaultFile, "manifest file path")

	return cmd
}
