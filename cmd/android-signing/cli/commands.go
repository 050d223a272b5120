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
	"github.com/spf13/cobra"
	cobracompletefig "github.com/withfig/autocomplete-tools/integrations/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/signalgame/android-signing/cmd/android-signing/cli/options"
)

var (
	ro = &options.RootOptions{}
)

// New returns the root command.
func New() *cobra.Command {
	ro = &options.RootOptions{}

	cmd := &cobra.Command{
		Use:   "android-signing",
		Short: "Release signing configuration for the Android app.",
		Long: `Evaluate the Android release configuration.

Decides which signing identity release builds use (the credentials in
key.properties, or the debug identity when that file is absent), renders
the per-build-type packaging plan, and runs the checks the signing step
would otherwise only report at the end of a build.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	ro.AddFlags(cmd)

	// Add sub-commands.
	cmd.AddCommand(Resolve())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Check())
	cmd.AddCommand(version.WithFont("starwars"))
	cmd.AddCommand(cobracompletefig.CreateCompletionSpecCommand())
	return cmd
}
