// Copyright 2025 Tom Barlow
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

// Package catalog resolves service names to their metadata.
//
// The default catalog is embedded in the binary: services.yaml lists the
// known names and <name>.yaml holds each record. Records are read lazily on
// first lookup and cached for the life of the Catalog.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	genawserrors "github.com/tombee/genaws/pkg/errors"
)

//go:embed data/*.yaml
var embedded embed.FS

const indexFile = "services.yaml"

var (
	// ErrUnknownService is the cause of every failed lookup for a name the
	// catalog does not list.
	ErrUnknownService = errors.New("unknown service")

	// ErrCorruptMetadata is the cause when the backing files cannot be read
	// or decoded.
	ErrCorruptMetadata = errors.New("corrupt service metadata")
)

// Lookup resolves a service name to its metadata.
type Lookup interface {
	Service(name string) (ServiceMetadata, error)
}

// Catalog is a concurrency-safe, lazily populated metadata cache over an
// fs.FS.
type Catalog struct {
	fsys fs.FS

	mu          sync.RWMutex
	indexLoaded bool
	index       map[string]bool
	services    map[string]ServiceMetadata
}

// New returns a catalog reading services.yaml and <name>.yaml from fsys.
// A nil fsys gives an empty catalog populated only through Register.
func New(fsys fs.FS) *Catalog {
	return &Catalog{
		fsys:     fsys,
		services: map[string]ServiceMetadata{},
	}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded data: %v", err))
		}
		defaultCatalog = New(sub)
	})
	return defaultCatalog
}

// Service returns the metadata for name, loading it on first use.
func (c *Catalog) Service(name string) (ServiceMetadata, error) {
	c.mu.RLock()
	meta, ok := c.services[name]
	c.mu.RUnlock()
	if ok {
		return meta, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if meta, ok := c.services[name]; ok {
		return meta, nil
	}
	if err := c.loadIndexLocked(); err != nil {
		return ServiceMetadata{}, err
	}
	if !c.index[name] {
		return ServiceMetadata{}, &genawserrors.ConfigurationError{
			Key:    "service",
			Reason: fmt.Sprintf("unknown service %s", name),
			Cause:  ErrUnknownService,
		}
	}

	meta, err := c.readService(name)
	if err != nil {
		return ServiceMetadata{}, corrupt(name+".yaml", err)
	}
	c.services[name] = meta
	return meta, nil
}

// Register adds or replaces a service record, for services the backing
// files do not describe.
func (c *Catalog) Register(name string, meta ServiceMetadata) error {
	if name == "" {
		return fmt.Errorf("service name is required")
	}
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("service %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.services[name] = meta
	return nil
}

// Names returns every known service name, sorted.
func (c *Catalog) Names() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadIndexLocked(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(c.index)+len(c.services))
	for name := range c.index {
		seen[name] = true
	}
	for name := range c.services {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

type indexDoc struct {
	Services []string `yaml:"services"`
}

// loadIndexLocked reads services.yaml once. The caller holds c.mu.
func (c *Catalog) loadIndexLocked() error {
	if c.indexLoaded {
		return nil
	}

	index := map[string]bool{}
	if c.fsys != nil {
		data, err := fs.ReadFile(c.fsys, indexFile)
		if err != nil {
			return corrupt(indexFile, err)
		}
		var doc indexDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return corrupt(indexFile, err)
		}
		for _, name := range doc.Services {
			index[name] = true
		}
	}

	c.index = index
	c.indexLoaded = true
	return nil
}

func (c *Catalog) readService(name string) (ServiceMetadata, error) {
	var meta ServiceMetadata
	data, err := fs.ReadFile(c.fsys, name+".yaml")
	if err != nil {
		return meta, err
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, err
	}
	if err := meta.Validate(); err != nil {
		return meta, err
	}
	return meta, nil
}

func corrupt(file string, err error) error {
	return &genawserrors.ConfigurationError{
		Key:    file,
		Reason: ErrCorruptMetadata.Error(),
		Cause:  errors.Join(ErrCorruptMetadata, err),
	}
}
