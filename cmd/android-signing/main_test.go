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

package main

import (
	"reflect"
	"testing"

	"github.com/signalgame/android-signing/cmd/android-signing/cli"
)

func TestRewriteDeprecatedFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "modern flags untouched",
			args: []string{"android-signing", "resolve", "--output", "json", "-C", "android"},
			want: []string{"android-signing", "resolve", "--output", "json", "-C", "android"},
		},
		{
			name: "single dash long flag",
			args: []string{"android-signing", "check", "-build-type", "all"},
			want: []string{"android-signing", "check", "--build-type", "all"},
		},
		{
			name: "double dash short flag",
			args: []string{"android-signing", "plan", "--o", "yaml"},
			want: []string{"android-signing", "plan", "-o", "yaml"},
		},
		{
			name: "version flag becomes subcommand",
			args: []string{"android-signing", "-version"},
			want: []string{"android-signing", "version"},
		},
		{
			name: "single dash long flag with value",
			args: []string{"android-signing", "resolve", "-output=json"},
			want: []string{"android-signing", "resolve", "--output=json"},
		},
		{
			name: "short flags with attached values untouched",
			args: []string{"android-signing", "resolve", "-ojson", "-C/tmp/x", "-t30s"},
			want: []string{"android-signing", "resolve", "-ojson", "-C/tmp/x", "-t30s"},
		},
		{
			name: "unknown single dash word untouched",
			args: []string{"android-signing", "check", "-nosuchflag"},
			want: []string{"android-signing", "check", "-nosuchflag"},
		},
		{
			name: "stops at terminator",
			args: []string{"android-signing", "resolve", "--", "-weird"},
			want: []string{"android-signing", "resolve", "--", "-weird"},
		},
	}

	longFlags := longFlagNames(cli.New())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rewriteDeprecatedFlags(tt.args, longFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rewriteDeprecatedFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLongFlagNames(t *testing.T) {
	names := longFlagNames(cli.New())
	for _, want := range []string{"project-root", "output", "timeout", "require-release-signing", "build-type", "help"} {
		if !names[want] {
			t.Errorf("longFlagNames() lacks %q", want)
		}
	}
	for _, short := range []string{"o", "C", "t"} {
		if names[short] {
			t.Errorf("longFlagNames() contains short name %q", short)
		}
	}
}
