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

package tracing

import (
	"context"
	"errors"
	"testing"
)

type recordedSpan struct {
	name  string
	attrs map[string]interface{}
	ended bool
}

func (s *recordedSpan) SetAttribute(key string, value interface{}) { s.attrs[key] = value }
func (s *recordedSpan) End()                                       { s.ended = true }

type recordingTracer struct {
	spans []*recordedSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string) (context.Context, Span) {
	s := &recordedSpan{name: name, attrs: map[string]interface{}{}}
	r.spans = append(r.spans, s)
	return ctx, s
}

func TestNoopByDefault(t *testing.T) {
	SetTracer(nil)
	if Enabled() {
		t.Fatal("Enabled() = true with the no-op tracer")
	}
	called := false
	err := Run(context.Background(), "resolve", map[string]interface{}{"a": 1}, func(context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Errorf("Run() = %v, called = %v", err, called)
	}
}

func TestRunRecordsSpan(t *testing.T) {
	rec := &recordingTracer{}
	SetTracer(rec)
	defer SetTracer(nil)

	wantErr := errors.New("keystore not found")
	err := Run(context.Background(), "check", map[string]interface{}{"variant": "release"}, func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(rec.spans))
	}
	s := rec.spans[0]
	if s.name != "check" || !s.ended {
		t.Errorf("span = %+v", s)
	}
	if s.attrs["variant"] != "release" || s.attrs["error"] != "keystore not found" {
		t.Errorf("attributes = %v", s.attrs)
	}
}

func TestInitFromEnvDefaultBuild(t *testing.T) {
	if err := InitFromEnv(); err != nil {
		t.Errorf("InitFromEnv() error = %v", err)
	}
	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
