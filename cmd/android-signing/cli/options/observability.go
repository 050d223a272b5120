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
	"github.com/signalgame/android-signing/pkg/config"
	"github.com/signalgame/android-signing/pkg/logging"
)

// Observability holds the shared observability configuration for the CLI.
// Logger is configured from root flags and the tool configuration; tracing
// is handled globally via pkg/tracing (initialized in main, used via
// tracing.Run).
type Observability struct {
	Logger *logging.ZapLogger
}

// NewObservability returns an Observability with a logger built from root
// options.
func (o *RootOptions) NewObservability(cfg *config.Config) Observability {
	return Observability{
		Logger: o.NewLogger(cfg.Log.Rotation),
	}
}

// Close flushes buffered log entries.
func (ob Observability) Close() {
	if ob.Logger != nil {
		_ = ob.Logger.Sync()
	}
}
