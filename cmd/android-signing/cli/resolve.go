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

	"github.com/signalgame/android-signing/pkg/report"
)

// Resolve creates the resolve subcommand, which prints the identity release
// builds are signed with.
func Resolve() *cobra.Command {
	long := `Print the signing identity used by release builds.

When the credentials file exists its keyAlias, keyPassword, storeFile and
storePassword are used as-is; missing entries are reported but only fail at
signing time. When it does not exist, release builds fall back to the debug
identity and a warning is logged, unless --require-release-signing is set.`

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the release signing identity.",
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), ro.Timeout)
			defer cancel()

			s, err := newSession(ctx, ro)
			if err != nil {
				return err
			}
			defer s.close()

			res, _, err := s.resolution(ctx, ro.ShowSecrets)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts, err := ro.ReportOptions(out)
			if err != nil {
				return err
			}
			return report.WriteResolution(out, res, opts)
		},
	}
	return cmd
}
