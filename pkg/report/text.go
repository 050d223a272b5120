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

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/signalgame/android-signing/pkg/signing"
)

const absent = "<absent>"

// printer writes the text form. The first write error is kept and later
// writes are skipped.
type printer struct {
	w   io.Writer
	err error

	heading *color.Color
	ok      *color.Color
	warn    *color.Color
	fail    *color.Color
}

func newPrinter(w io.Writer, useColor bool) *printer {
	p := &printer{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.heading, p.ok, p.warn, p.fail} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) field(name, value string) {
	p.printf("  %-16s %s\n", name+":", value)
}

func (p *printer) identity(v IdentityView) {
	p.field("variant", v.Variant)
	p.field("keyAlias", deref(v.KeyAlias))
	p.field("keyPassword", deref(v.KeyPassword))
	p.field("storeFile", deref(v.StoreFile))
	p.field("storePassword", deref(v.StorePassword))
}

func (p *printer) resolution(r *Resolution) {
	p.printf("%s\n", p.heading.Sprint("Release signing identity"))
	p.field("evaluation", r.EvaluationID)
	source := r.CredentialsFile
	if !r.CredentialsPresent {
		source += " (not found)"
	}
	p.field("credentials", source)
	p.field("policy", r.Policy)
	p.identity(r.Identity)
	if r.Identity.Variant == signing.VariantDebug.String() {
		p.printf("%s\n", p.warn.Sprint("  release builds fall back to the debug identity"))
	}
	if len(r.MissingFields) > 0 {
		p.printf("%s\n", p.warn.Sprintf("  missing: %s (signing will fail)", strings.Join(r.MissingFields, ", ")))
	}
	if len(r.ExtraKeys) > 0 {
		p.field("ignored keys", strings.Join(r.ExtraKeys, ", "))
	}
}

func (p *printer) plan(r *PlanReport) {
	p.printf("%s\n", p.heading.Sprint("Android application"))
	p.field("evaluation", r.EvaluationID)
	p.field("applicationId", r.ApplicationID)
	p.field("namespace", r.Namespace)
	p.field("java", fmt.Sprintf("source %d, target %d, jvmTarget %s",
		r.Java.SourceCompatibility, r.Java.TargetCompatibility, r.Java.JvmTarget))
	d := r.DefaultConfig
	p.field("version", fmt.Sprintf("%s (%d)", d.VersionName, d.VersionCode))
	p.field("sdk", fmt.Sprintf("min %d, target %d, compile %d", d.MinSdk, d.TargetSdk, d.CompileSdk))
	p.field("ndk", d.NdkVersion)
	if r.Flutter.SDKPath != "" {
		p.field("flutter sdk", r.Flutter.SDKPath)
	}

	p.printf("\n%s\n", p.heading.Sprint("Build types"))
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Build type", "Minify", "Shrink", "ProGuard files", "Signing", "Key alias", "Store file"})
	for _, bt := range r.BuildTypes {
		t.AppendRow(table.Row{
			bt.Name,
			bt.Minify,
			bt.ShrinkResources,
			strings.Join(bt.ProguardFiles, "\n"),
			bt.Identity.Variant,
			deref(bt.Identity.KeyAlias),
			deref(bt.Identity.StoreFile),
		})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	p.printf("%s\n", t.Render())
}

func (p *printer) checks(reports []CheckReport) {
	for i, r := range reports {
		if i > 0 {
			p.printf("\n")
		}
		status := p.ok.Sprint("OK")
		if !r.OK {
			status = p.fail.Sprint("FAILED")
		}
		p.printf("%s %s\n", p.heading.Sprintf("Signing check [%s]:", r.BuildType), status)
		p.identity(r.Identity)
		if !r.OK {
			p.field("error", r.ErrorType)
			p.printf("  %s\n", p.fail.Sprint(r.Error))
			continue
		}
		res := r.Result
		p.field("format", res.Format)
		p.field("key", fmt.Sprintf("%s (%s)", res.KeyType, res.Algorithm))
		p.field("subject", res.Subject)
		p.field("sha256", res.Fingerprint)
		p.field("valid", fmt.Sprintf("%s to %s",
			res.NotBefore.UTC().Format(time.DateOnly), res.NotAfter.UTC().Format(time.DateOnly)))
		for _, w := range res.Warnings {
			p.printf("%s\n", p.warn.Sprint("  warning: "+w))
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return absent
	}
	return *s
}
