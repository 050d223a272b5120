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

// Package buildplan assembles the per-build-type packaging plan handed to
// the external build tool.
package buildplan

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/signalgame/android-signing/pkg/config"
	"github.com/signalgame/android-signing/pkg/flutter"
	"github.com/signalgame/android-signing/pkg/signing"
	"github.com/signalgame/android-signing/pkg/tracing"
)

// Build type names, in plan order.
const (
	BuildTypeRelease = "release"
	BuildTypeDebug   = "debug"
)

// Plan is the evaluated Android application configuration.
type Plan struct {
	EvaluationID  string         `json:"evaluationId,omitempty"`
	Namespace     string         `json:"namespace"`
	ApplicationID string         `json:"applicationId"`
	Java          JavaOptions    `json:"java"`
	DefaultConfig DefaultConfig  `json:"defaultConfig"`
	BuildTypes    []BuildType    `json:"buildTypes"`
	FlutterSource string         `json:"flutterSource"`
	Framework     flutter.Values `json:"-"`
}

// JavaOptions are the compile and Kotlin JVM targets.
type JavaOptions struct {
	SourceCompatibility int    `json:"sourceCompatibility"`
	TargetCompatibility int    `json:"targetCompatibility"`
	JvmTarget           string `json:"jvmTarget"`
}

// DefaultConfig holds the values shared by every build type.
type DefaultConfig struct {
	CompileSdk  int    `json:"compileSdk"`
	NdkVersion  string `json:"ndkVersion"`
	MinSdk      int    `json:"minSdk"`
	TargetSdk   int    `json:"targetSdk"`
	VersionCode int    `json:"versionCode"`
	VersionName string `json:"versionName"`
}

// BuildType is the packaging plan for one build type.
type BuildType struct {
	Name            string           `json:"name"`
	Minify          bool             `json:"minifyEnabled"`
	ShrinkResources bool             `json:"shrinkResources"`
	ProguardFiles   []ProguardFile   `json:"proguardFiles"`
	SigningConfig   string           `json:"signingConfig"`
	Identity        signing.Identity `json:"-"`
}

// ProguardFile is a ProGuard rules file. Default files ship with the SDK;
// the others live in the app module.
type ProguardFile struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// Evaluate builds the plan. release is the identity selected for the
// release build; the debug build always uses the debug identity.
func Evaluate(ctx context.Context, cfg *config.Config, framework *flutter.Values, release signing.Identity, debug signing.DebugIdentity) (*Plan, error) {
	if cfg == nil {
		return nil, errors.New("no configuration")
	}
	var plan *Plan
	err := tracing.Run(ctx, "buildplan.Evaluate", map[string]interface{}{"applicationId": cfg.ApplicationID},
		func(context.Context) error {
			var err error
			plan, err = evaluate(cfg, framework, release, debug)
			return err
		})
	return plan, err
}

func evaluate(cfg *config.Config, framework *flutter.Values, release signing.Identity, debug signing.DebugIdentity) (*Plan, error) {
	if framework == nil {
		return nil, errors.New("no framework values")
	}
	if release == nil {
		return nil, errors.New("no release signing identity")
	}

	plan := &Plan{
		Namespace:     cfg.Namespace,
		ApplicationID: cfg.ApplicationID,
		Java: JavaOptions{
			SourceCompatibility: cfg.JavaVersion,
			TargetCompatibility: cfg.JavaVersion,
			JvmTarget:           strconv.Itoa(cfg.JavaVersion),
		},
		DefaultConfig: DefaultConfig{
			CompileSdk:  framework.CompileSdk,
			NdkVersion:  framework.NdkVersion,
			MinSdk:      framework.MinSdk,
			TargetSdk:   framework.TargetSdk,
			VersionCode: framework.VersionCode,
			VersionName: framework.VersionName,
		},
		FlutterSource: cfg.FlutterSource,
		Framework:     *framework,
	}

	plan.BuildTypes = []BuildType{
		buildType(BuildTypeRelease, cfg.BuildTypes.Release, release),
		buildType(BuildTypeDebug, cfg.BuildTypes.Debug, debug),
	}

	if plan.DefaultConfig.MinSdk > plan.DefaultConfig.TargetSdk {
		return nil, fmt.Errorf("minSdk %d exceeds targetSdk %d", plan.DefaultConfig.MinSdk, plan.DefaultConfig.TargetSdk)
	}
	return plan, nil
}

func buildType(name string, bt config.BuildTypeConfig, id signing.Identity) BuildType {
	files := make([]ProguardFile, 0, len(bt.ProguardFiles))
	for _, f := range bt.ProguardFiles {
		files = append(files, ProguardFile{Name: f, Default: isDefaultProguardFile(f)})
	}
	return BuildType{
		Name:            name,
		Minify:          bt.Minify,
		ShrinkResources: bt.ShrinkResources,
		ProguardFiles:   files,
		SigningConfig:   id.Variant().String(),
		Identity:        id,
	}
}

func isDefaultProguardFile(name string) bool {
	switch name {
	case config.DefaultProguardFile, "proguard-android.txt":
		return true
	}
	return false
}

// Release returns the release build type.
func (p *Plan) Release() BuildType {
	return p.find(BuildTypeRelease)
}

// Debug returns the debug build type.
func (p *Plan) Debug() BuildType {
	return p.find(BuildTypeDebug)
}

func (p *Plan) find(name string) BuildType {
	for _, bt := range p.BuildTypes {
		if bt.Name == name {
			return bt
		}
	}
	return BuildType{}
}
