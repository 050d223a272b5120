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

// Package report renders resolution, plan and check results as text, JSON
// or YAML. Passwords are masked unless ShowSecrets is set.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/signalgame/android-signing/pkg/buildplan"
	"github.com/signalgame/android-signing/pkg/flutter"
	"github.com/signalgame/android-signing/pkg/signing"
)

// Format is an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted output encodings.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat parses an output encoding name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want one of %s)", s, strings.Join(Formats(), ", "))
	}
}

// Options control rendering.
type Options struct {
	Format      Format
	ShowSecrets bool
	// Color enables ANSI colour in text output.
	Color bool
}

// MaskSecret hides a secret for display. Any non-empty value becomes "***";
// no characters of the secret are shown.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}

// IdentityView is the display form of a signing identity. Absent fields
// are null.
type IdentityView struct {
	Variant       string  `json:"variant"`
	KeyAlias      *string `json:"keyAlias"`
	KeyPassword   *string `json:"keyPassword"`
	StoreFile     *string `json:"storeFile"`
	StorePassword *string `json:"storePassword"`
}

// NewIdentityView flattens id, masking passwords unless showSecrets.
func NewIdentityView(id signing.Identity, showSecrets bool) IdentityView {
	if id == nil {
		return IdentityView{}
	}
	f := id.Fields()
	v := IdentityView{
		Variant:       id.Variant().String(),
		KeyAlias:      f.KeyAlias,
		KeyPassword:   f.KeyPassword,
		StoreFile:     f.StoreFile,
		StorePassword: f.StorePassword,
	}
	if !showSecrets {
		v.KeyPassword = maskPtr(v.KeyPassword)
		v.StorePassword = maskPtr(v.StorePassword)
	}
	return v
}

func maskPtr(p *string) *string {
	if p == nil {
		return nil
	}
	m := MaskSecret(*p)
	return &m
}

// Resolution reports the identity selected for the release build.
type Resolution struct {
	EvaluationID       string       `json:"evaluationId"`
	CredentialsFile    string       `json:"credentialsFile"`
	CredentialsPresent bool         `json:"credentialsPresent"`
	Policy             string       `json:"policy"`
	Identity           IdentityView `json:"identity"`
	MissingFields      []string     `json:"missingFields,omitempty"`
	ExtraKeys          []string     `json:"extraKeys,omitempty"`
}

// PlanReport is the display form of a build plan.
type PlanReport struct {
	EvaluationID  string                  `json:"evaluationId"`
	Namespace     string                  `json:"namespace"`
	ApplicationID string                  `json:"applicationId"`
	Java          buildplan.JavaOptions   `json:"java"`
	DefaultConfig buildplan.DefaultConfig `json:"defaultConfig"`
	BuildTypes    []BuildTypeView         `json:"buildTypes"`
	Flutter       flutter.Values          `json:"flutter"`
}

// BuildTypeView is one build type with its identity.
type BuildTypeView struct {
	Name            string       `json:"name"`
	Minify          bool         `json:"minifyEnabled"`
	ShrinkResources bool         `json:"shrinkResources"`
	ProguardFiles   []string     `json:"proguardFiles"`
	Identity        IdentityView `json:"signing"`
}

// NewPlanReport converts a plan for display.
func NewPlanReport(evaluationID string, plan *buildplan.Plan, showSecrets bool) *PlanReport {
	r := &PlanReport{
		EvaluationID:  evaluationID,
		Namespace:     plan.Namespace,
		ApplicationID: plan.ApplicationID,
		Java:          plan.Java,
		DefaultConfig: plan.DefaultConfig,
		Flutter:       plan.Framework,
	}
	for _, bt := range plan.BuildTypes {
		files := make([]string, 0, len(bt.ProguardFiles))
		for _, f := range bt.ProguardFiles {
			name := f.Name
			if f.Default {
				name += " (sdk)"
			}
			files = append(files, name)
		}
		r.BuildTypes = append(r.BuildTypes, BuildTypeView{
			Name:            bt.Name,
			Minify:          bt.Minify,
			ShrinkResources: bt.ShrinkResources,
			ProguardFiles:   files,
			Identity:        NewIdentityView(bt.Identity, showSecrets),
		})
	}
	return r
}

// CheckReport reports the signing-time checks for one build type.
type CheckReport struct {
	EvaluationID string               `json:"evaluationId"`
	BuildType    string               `json:"buildType"`
	OK           bool                 `json:"ok"`
	Identity     IdentityView         `json:"identity"`
	Result       *signing.CheckResult `json:"result,omitempty"`
	ErrorType    string               `json:"errorType,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// NewCheckReport builds a report from Check's return values.
func NewCheckReport(evaluationID, buildType string, id signing.Identity, result *signing.CheckResult, err error, showSecrets bool) CheckReport {
	r := CheckReport{
		EvaluationID: evaluationID,
		BuildType:    buildType,
		OK:           err == nil,
		Identity:     NewIdentityView(id, showSecrets),
		Result:       result,
	}
	if err != nil {
		r.Error = err.Error()
		r.ErrorType = signing.ErrTypeUnknown.String()
		if serr, ok := signing.As(err); ok {
			r.ErrorType = serr.Type.String()
		}
	}
	return r
}

// WriteResolution renders r to w.
func WriteResolution(w io.Writer, r *Resolution, opts Options) error {
	return write(w, r, opts, func(p *printer) { p.resolution(r) })
}

// WritePlan renders r to w.
func WritePlan(w io.Writer, r *PlanReport, opts Options) error {
	return write(w, r, opts, func(p *printer) { p.plan(r) })
}

// WriteChecks renders check reports to w.
func WriteChecks(w io.Writer, reports []CheckReport, opts Options) error {
	return write(w, reports, opts, func(p *printer) { p.checks(reports) })
}

func write(w io.Writer, v interface{}, opts Options, text func(*printer)) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding report as json: %w", err)
		}
		return nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding report as yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatText, "":
		p := newPrinter(w, opts.Color)
		text(p)
		return p.err
	default:
		return fmt.Errorf("unknown output format: %q", opts.Format)
	}
}
