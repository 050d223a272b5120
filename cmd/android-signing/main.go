//
// Copyright 2026 The android-signing Authors.
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
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/signalgame/android-signing/cmd/android-signing/cli"
	"github.com/signalgame/android-signing/pkg/tracing"
)

type ExitCoder interface {
	error
	ExitCode() int
}

func main() {
	log.SetFlags(0)
	root := cli.New()
	os.Args = rewriteDeprecatedFlags(os.Args, longFlagNames(root))

	if err := tracing.InitFromEnv(); err != nil {
		log.Printf("warning: tracing disabled: %v", err)
	}

	err := root.Execute()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = tracing.Shutdown(ctx)
	cancel()

	if err != nil {
		var ec ExitCoder
		if errors.As(err, &ec) {
			log.Printf("error during command execution: %v", err)
			os.Exit(ec.ExitCode())
		}

		log.Fatalf("error during command execution: %v", err)
	}
}

// longFlagNames collects the long flag names registered anywhere in the
// command tree.
func longFlagNames(root *cobra.Command) map[string]bool {
	names := map[string]bool{"help": true}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		add := func(f *pflag.Flag) { names[f.Name] = true }
		c.PersistentFlags().VisitAll(add)
		c.Flags().VisitAll(add)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(root)
	return names
}

// rewriteDeprecatedFlags turns single-dash long flags (-output) into their
// double-dash form and --x into -x, warning about each. Only names in
// longFlags are rewritten, so short flags with attached values (-ojson)
// pass through. -version becomes the version subcommand.
func rewriteDeprecatedFlags(args []string, longFlags map[string]bool) []string {
	out := make([]string, len(args))
	copy(out, args)

	for i := 1; i < len(out); i++ {
		arg := out[i]
		if arg == "--" {
			break
		}

		if strings.HasPrefix(arg, "--") && len(arg) == 3 {
			newArg := fmt.Sprintf("-%c", arg[2])
			log.Printf("warning: the flag %s is deprecated and will be removed in a future release. Please use %s.", arg, newArg)
			out[i] = newArg
			continue
		}

		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || len(arg) <= 2 {
			continue
		}

		name, _, _ := strings.Cut(arg[1:], "=")
		newArg, argType := "-"+arg, "flag"
		switch {
		case name == "version" && name == arg[1:]:
			newArg, argType = "version", "subcommand"
		case !longFlags[name]:
			continue
		}
		log.Printf("warning: the %s flag is deprecated and will be removed in a future release. Please use the %s %s instead.",
			arg, newArg, argType)
		out[i] = newArg
	}
	return out
}
