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

	"github.com/signalgame/android-signing/pkg/buildplan"
	"github.com/signalgame/android-signing/pkg/flutter"
	"github.com/signalgame/android-signing/pkg/report"
	"github.com/signalgame/android-signing/pkg/signing"
)

// Plan creates the plan subcommand, which prints the packaging plan of each
// build type.
func Plan() *cobra.Command {
	long := `Print the evaluated application configuration.

Combines the tool configuration, the Flutter framework values (version from
pubspec.yaml, overrides from local.properties) and the resolved signing
identities into the plan the build consumes: application id, Java target,
SDK levels, and for each build type its shrinking settings, ProGuard files
and signing identity.`

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the per-build-type packaging plan.",
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

			release, err := s.eval.Release()
			if err != nil {
				return err
			}

			framework, err := flutter.Resolve(s.projectRoot, s.cfg.FlutterSource, s.cfg.Framework)
			if err != nil {
				return signing.NewSigningError(signing.ErrTypeConfiguration, "cannot compute framework values", err)
			}

			plan, err := buildplan.Evaluate(ctx, s.cfg, framework, release, s.resolver.Debug)
			if err != nil {
				return err
			}
			plan.EvaluationID = s.eval.ID

			out := cmd.OutOrStdout()
			opts, err := ro.ReportOptions(out)
			if err != nil {
				return err
			}
			return report.WritePlan(out, report.NewPlanReport(s.eval.ID, plan, ro.ShowSecrets), opts)
		},
	}
	return cmd
}
