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
	"fmt"
	"path/filepath"

	"github.com/signalgame/android-signing/cmd/android-signing/cli/options"
	"github.com/signalgame/android-signing/pkg/config"
	"github.com/signalgame/android-signing/pkg/credentials"
	"github.com/signalgame/android-signing/pkg/report"
	"github.com/signalgame/android-signing/pkg/signing"
	"github.com/signalgame/android-signing/pkg/tracing"
)

// session is one build evaluation: configuration and credentials are loaded
// once and the resolver is shared by every step of the command.
type session struct {
	projectRoot string
	cfg         *config.Config
	obs         options.Observability
	credsPath   string
	eval        *signing.Evaluation
	resolver    *signing.Resolver
}

func newSession(ctx context.Context, ro *options.RootOptions) (*session, error) {
	root, err := filepath.Abs(ro.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	cfg, err := config.Load(ro.ConfigFile, root)
	if err != nil {
		return nil, signing.NewSigningErrorWithPath(signing.ErrTypeConfiguration, ro.ConfigFile, "invalid configuration", err)
	}
	ro.ApplyConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, signing.NewSigningError(signing.ErrTypeConfiguration, "invalid configuration", err)
	}
	policy, err := signing.ParsePolicy(cfg.Signing.Policy)
	if err != nil {
		return nil, signing.NewSigningError(signing.ErrTypeConfiguration, "invalid signing policy", err)
	}

	s := &session{
		projectRoot: root,
		cfg:         cfg,
		obs:         ro.NewObservability(cfg),
		credsPath:   cfg.CredentialsPath(root),
	}
	logger := s.obs.Logger
	if cfg.File != "" {
		logger.Debug("using configuration %s", cfg.File)
	}

	var creds *credentials.Credentials
	err = tracing.Run(ctx, "credentials.Load", map[string]interface{}{"path": s.credsPath}, func(context.Context) error {
		var err error
		creds, err = credentials.LoadFile(root, cfg.CredentialsFile)
		return err
	})
	if err != nil {
		s.close()
		return nil, signing.NewSigningErrorWithPath(signing.ErrTypeIO, s.credsPath, "cannot load credentials", err)
	}

	s.resolver = &signing.Resolver{
		ProjectRoot: root,
		Debug:       signing.NewDebugIdentity(cfg.Signing.AndroidUserHome),
		Policy:      policy,
		Logger:      logger,
	}
	s.eval = signing.NewEvaluation(s.resolver, creds)
	logger.WithField("evaluation", s.eval.ID).Debug("credentials present: %t", s.eval.CredentialsPresent())
	return s, nil
}

func (s *session) close() {
	s.obs.Close()
}

// resolution resolves the release identity and describes it for output.
func (s *session) resolution(ctx context.Context, showSecrets bool) (*report.Resolution, signing.Identity, error) {
	var id signing.Identity
	err := tracing.Run(ctx, "signing.Resolve", map[string]interface{}{"evaluation": s.eval.ID}, func(context.Context) error {
		var err error
		id, err = s.eval.Release()
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	r := &report.Resolution{
		EvaluationID:       s.eval.ID,
		CredentialsFile:    s.credsPath,
		CredentialsPresent: s.eval.CredentialsPresent(),
		Policy:             s.resolver.Policy.String(),
		Identity:           report.NewIdentityView(id, showSecrets),
	}
	if creds := s.eval.Credentials(); creds != nil {
		r.MissingFields = creds.Missing()
		r.ExtraKeys = creds.ExtraKeys()
	}
	return r, id, nil
}
