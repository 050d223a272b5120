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

package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// FlagAdder is implemented by any flag group that can register itself to a cobra command.
type FlagAdder interface {
	AddFlags(cmd *cobra.Command)
}

// Build type selections accepted by --build-type.
const (
	BuildTypeRelease = "release"
	BuildTypeDebug   = "debug"
	BuildTypeAll     = "all"
)

// BuildTypeFlags selects which build types a command inspects.
type BuildTypeFlags struct {
	// BuildType is release, debug or all.
	BuildType string
}

// AddFlags adds the build type flag to the cobra command.
func (o *BuildTypeFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.BuildType, "build-type", BuildTypeRelease,
		"build type to check (release, debug, all)")
	_ = cmd.RegisterFlagCompletionFunc("build-type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{BuildTypeRelease, BuildTypeDebug, BuildTypeAll}, cobra.ShellCompDirectiveNoFileComp
	})
}

// BuildTypes expands the selection into build type names, release first.
func (o *BuildTypeFlags) BuildTypes() ([]string, error) {
	switch strings.ToLower(o.BuildType) {
	case BuildTypeRelease, "":
		return []string{BuildTypeRelease}, nil
	case BuildTypeDebug:
		return []string{BuildTypeDebug}, nil
	case BuildTypeAll:
		return []string{BuildTypeRelease, BuildTypeDebug}, nil
	default:
		return nil, fmt.Errorf("unknown build type %q (want release, debug or all)", o.BuildType)
	}
}

// AddAllFlags is a helper function to register multiple flag groups at once.
func AddAllFlags(cmd *cobra.Command, flagGroups ...FlagAdder) {
	for _, fg := range flagGroups {
		fg.AddFlags(cmd)
	}
}
