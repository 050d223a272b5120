// Copyright 2026 The android-signing Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/signalgame/android-signing/cmd/android-signing/cli/options"
	"github.com/signalgame/android-signing/pkg/report"
	"github.com/signalgame/android-signing/pkg/signing"
)

// Check creates the check subcommand, which runs the signing-time checks.
func Check() *cobra.Command {
	o := &options.BuildTypeFlags{}

	long := `Check that a build type can be signed.

Runs the checks the signing step performs when it packages the build:
all four credentials present, the keystore file exists and opens with the
store password, the key alias exists and its password unlocks the key, and
the key signs a probe message its certificate verifies.

Exits with status 2 when credentials are missing or absent and 3 when the
keystore cannot be used.`

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the signing-time checks.",
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildTypes, err := o.BuildTypes()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), ro.Timeout)
			defer cancel()

			s, err := newSession(ctx, ro)
			if err != nil {
				return err
			}
			defer s.close()

			var (
				reports  []report.CheckReport
				firstErr error
			)
			for _, bt := range buildTypes {
				var id signing.Identity = s.resolver.Debug
				if bt == options.BuildTypeRelease {
					if id, err = s.eval.Release(); err != nil {
						return err
					}
				}

				result, err := signing.Check(ctx, id, signing.CheckOptions{
					ReleaseBuild: bt == options.BuildTypeRelease,
					Logger:       s.obs.Logger.WithField("buildType", bt),
				})
				if err != nil && firstErr == nil {
					firstErr = err
				}
				reports = append(reports, report.NewCheckReport(s.eval.ID, bt, id, result, err, ro.ShowSecrets))
			}

			out := cmd.OutOrStdout()
			opts, err := ro.ReportOptions(out)
			if err != nil {
				return err
			}
			if err := report.WriteChecks(out, reports, opts); err != nil {
				return err
			}
			return firstErr
		},
	}

	options.AddAllFlags(cmd, o)
	return cmd
}
