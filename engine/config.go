// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/base/iox/tomlx"
	"cogentcore.org/instvis/base/iox/yamlx"
	"cogentcore.org/instvis/drawfilter"
	"cogentcore.org/instvis/math32"
	"cogentcore.org/instvis/persist"
	"github.com/lucasb-eyer/go-colorful"
)

// maxDepthLimit is the largest accepted [Config.MaxDepth].
const maxDepthLimit = 1024

// Config is the configuration of an [Engine].
type Config struct {
	// MaxDepth is the maximum template nesting depth descended into
	// when drawing. Deeper nested instances are drawn whole.
	MaxDepth int

	// GhostAlpha is the opacity of the overlay drawn over
	// transparent components, from 0 to 1.
	GhostAlpha float32

	// HighlightColor is the colour of the selection highlights
	// of managed instances, as a hex string.
	HighlightColor string

	// DebugLogging logs every managed instance drawn.
	DebugLogging bool

	// DocumentKey is the document string key of the document text.
	DocumentKey string

	// PreferDocumentText saves all overrides in the document text,
	// even when the host has attachments.
	PreferDocumentText bool
}

// DefaultConfig returns the default [Config].
func DefaultConfig() Config {
	return Config{
		MaxDepth:       32,
		GhostAlpha:     0.3,
		HighlightColor: "#ffd700",
		DocumentKey:    persist.DefaultDocumentKey,
	}
}

// Validate resets invalid values to their defaults,
// returning an error describing each of them.
func (c *Config) Validate() error {
	def := DefaultConfig()
	var errs []error
	if c.MaxDepth < 1 || c.MaxDepth > maxDepthLimit {
		errs = append(errs, fmt.Errorf("engine: MaxDepth %d out of range [1, %d]", c.MaxDepth, maxDepthLimit))
		c.MaxDepth = def.MaxDepth
	}
	if math32.IsNaN(c.GhostAlpha) || c.GhostAlpha <= 0 || c.GhostAlpha > 1 {
		errs = append(errs, fmt.Errorf("engine: GhostAlpha %g out of range (0, 1]", c.GhostAlpha))
		c.GhostAlpha = def.GhostAlpha
	}
	if _, err := colorful.Hex(c.HighlightColor); err != nil {
		errs = append(errs, fmt.Errorf("engine: HighlightColor %q: %w", c.HighlightColor, err))
		c.HighlightColor = def.HighlightColor
	}
	if strings.TrimSpace(c.DocumentKey) == "" {
		errs = append(errs, errors.New("engine: empty DocumentKey"))
		c.DocumentKey = def.DocumentKey
	}
	return errors.Join(errs...)
}

// Highlight returns the highlight colour, or the default one
// if [Config.HighlightColor] is invalid.
func (c *Config) Highlight() color.RGBA {
	cl, err := colorful.Hex(c.HighlightColor)
	if err != nil {
		cl, _ = colorful.Hex(DefaultConfig().HighlightColor)
	}
	r, g, b := cl.RGB255()
	return color.RGBA{r, g, b, 255}
}

// FilterOptions returns the draw filter options of the configuration.
func (c *Config) FilterOptions() drawfilter.Options {
	return drawfilter.Options{
		MaxDepth:       c.MaxDepth,
		GhostAlpha:     c.GhostAlpha,
		HighlightColor: c.Highlight(),
		Debug:          c.DebugLogging,
	}
}

// PersistOptions returns the persistence options of the configuration.
func (c *Config) PersistOptions() persist.Options {
	return persist.Options{
		DocumentKey:        c.DocumentKey,
		PreferDocumentText: c.PreferDocumentText,
	}
}

// format returns the config file format of the given file name.
func format(filename string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("engine: unsupported config file extension %q", ext)
	}
}

// OpenConfig opens a [Config] from the given TOML or YAML file, selected
// by extension. Values missing from the file keep their defaults, and
// invalid values are reset to them; the validation error is returned
// along with the usable config.
func OpenConfig(filename string) (Config, error) {
	c := DefaultConfig()
	f, err := format(filename)
	if err != nil {
		return c, err
	}
	if f == "toml" {
		err = tomlx.Open(&c, filename)
	} else {
		err = yamlx.Open(&c, filename)
	}
	if err != nil {
		return DefaultConfig(), err
	}
	return c, c.Validate()
}

// Save saves the config to the given TOML or YAML file.
func (c *Config) Save(filename string) error {
	f, err := format(filename)
	if err != nil {
		return err
	}
	if f == "toml" {
		return tomlx.Save(c, filename)
	}
	return yamlx.Save(c, filename)
}
