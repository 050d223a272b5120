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

// Package credentials loads the release signing credentials file
// (key.properties) that CI or a developer places next to the Android project.
// The file is optional; its absence is reported as nil credentials, not an
// error. The package only ever reads the file.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/magiconair/properties"
)

// DefaultFileName is the conventional credentials file name, relative to the
// project root.
const DefaultFileName = "key.properties"

// Recognised property keys.
const (
	KeyAlias      = "keyAlias"
	KeyPassword   = "keyPassword"
	StoreFile     = "storeFile"
	StorePassword = "storePassword"
)

// Keys lists the recognised property keys in a stable order.
var Keys = []string{KeyAlias, KeyPassword, StoreFile, StorePassword}

// Credentials holds the values parsed from a credentials file. A nil field
// means the key was absent; an empty string means it was present but blank.
type Credentials struct {
	KeyAlias      *string
	KeyPassword   *string
	StoreFile     *string
	StorePassword *string

	// Extra holds unrecognised keys, kept for diagnostics only.
	Extra map[string]string
	// Source names where the values came from (a path, or "memory").
	Source string
}

// Load reads name from fsys. When the file does not exist it returns
// (nil, nil) without opening it.
func Load(fsys fs.FS, name string) (*Credentials, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("checking credentials file %q: %w", name, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("credentials file %q is a directory", name)
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file %q: %w", name, err)
	}

	creds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file %q: %w", name, err)
	}
	creds.Source = name
	return creds, nil
}

// LoadFile loads the credentials file name relative to projectRoot. An
// absolute name is used as is.
func LoadFile(projectRoot, name string) (*Credentials, error) {
	if name == "" {
		name = DefaultFileName
	}
	dir, rel, err := splitRoot(projectRoot, name)
	if err != nil {
		return nil, err
	}
	creds, err := Load(os.DirFS(dir), rel)
	if creds != nil {
		creds.Source = joinRoot(dir, rel)
	}
	return creds, err
}

// Parse decodes Java .properties content as ISO-8859-1 with \uXXXX escapes.
// Property references are not expanded, matching java.util.Properties.
func Parse(data []byte) (*Credentials, error) {
	loader := properties.Loader{
		Encoding:         properties.ISO_8859_1,
		DisableExpansion: true,
	}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, p.Len())
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		values[k] = v
	}
	return FromMap(values), nil
}

// FromMap builds credentials from in-memory values. Keys missing from the map
// are absent in the result.
func FromMap(values map[string]string) *Credentials {
	c := &Credentials{Source: "memory"}
	for k, v := range values {
		v := v
		switch k {
		case KeyAlias:
			c.KeyAlias = &v
		case KeyPassword:
			c.KeyPassword = &v
		case StoreFile:
			c.StoreFile = &v
		case StorePassword:
			c.StorePassword = &v
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]string)
			}
			c.Extra[k] = v
		}
	}
	return c
}

// Get returns the value of a recognised key and whether it was present.
func (c *Credentials) Get(key string) (string, bool) {
	var p *string
	switch key {
	case KeyAlias:
		p = c.KeyAlias
	case KeyPassword:
		p = c.KeyPassword
	case StoreFile:
		p = c.StoreFile
	case StorePassword:
		p = c.StorePassword
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

// Missing lists recognised keys that are absent, in Keys order.
func (c *Credentials) Missing() []string {
	var missing []string
	for _, k := range Keys {
		if _, ok := c.Get(k); !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// Complete reports whether all recognised keys are present.
func (c *Credentials) Complete() bool {
	return len(c.Missing()) == 0
}

// ExtraKeys returns the unrecognised keys, sorted.
func (c *Credentials) ExtraKeys() []string {
	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
