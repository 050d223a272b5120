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

package credentials

import (
	"fmt"
	"path/filepath"
)

// splitRoot turns a project-root-relative (or absolute) name into a directory
// usable with os.DirFS and a single path element inside it.
func splitRoot(projectRoot, name string) (string, string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectRoot, name)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolving credentials file %q: %w", name, err)
	}
	return filepath.Dir(abs), filepath.Base(abs), nil
}

func joinRoot(dir, rel string) string {
	return filepath.Join(dir, rel)
}
