// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogama/coordinator"
	"github.com/gogama/coordinator/consistency"
)

// A PolicyConfig selects which consistency policy a Settings describes.
// Exactly one of Count or Average must be set.
type PolicyConfig struct {
	Count   *int `yaml:"count,omitempty"`
	Average *int `yaml:"average,omitempty"`
}

// Settings is the YAML-serializable shape of a coordinator.Settings.
//
// Settings carries everything a coordinator.Settings needs except the
// result type itself: it records which consistency policy to build
// (Count or Average), and the Policy is filled in by the caller via the
// package-level Count or Average function, since only the caller knows
// the result type R (and, for Average, the aggregator function).
type Settings struct {
	MaxParallel             uint16       `yaml:"max_parallel"`
	Policy                  PolicyConfig `yaml:"policy"`
	Retries                 uint16       `yaml:"retries"`
	RetriesForInconsistency uint16       `yaml:"retries_for_inconsistency"`
}

// Load parses a Settings document from r.
func Load(r io.Reader) (Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile parses a Settings document from the file at path.
func LoadFile(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (s Settings) validate() error {
	if s.Policy.Count == nil && s.Policy.Average == nil {
		return fmt.Errorf("config: policy must set count or average")
	}
	if s.Policy.Count != nil && s.Policy.Average != nil {
		return fmt.Errorf("config: policy may not set both count and average")
	}
	return nil
}

// Count builds a coordinator.Settings using a consistency.Count policy.
// The result type R cannot be inferred from s, so callers name it
// explicitly, as in Count[int](s).
//
// Count returns an error if s was not configured with a count policy.
func Count[R comparable](s Settings) (coordinator.Settings[R], error) {
	if s.Policy.Count == nil {
		return coordinator.Settings[R]{}, fmt.Errorf("config: settings do not specify a count policy")
	}
	return coordinator.Settings[R]{
		MaxParallel:             s.MaxParallel,
		Policy:                  consistency.NewCount[R](*s.Policy.Count),
		Retries:                 s.Retries,
		RetriesForInconsistency: s.RetriesForInconsistency,
	}, nil
}

// Average builds a coordinator.Settings using a consistency.Average
// policy, folding the gathered results with agg.
//
// Average returns an error if s was not configured with an average
// policy.
func Average[R any](s Settings, agg func([]R) R) (coordinator.Settings[R], error) {
	if s.Policy.Average == nil {
		return coordinator.Settings[R]{}, fmt.Errorf("config: settings do not specify an average policy")
	}
	return coordinator.Settings[R]{
		MaxParallel:             s.MaxParallel,
		Policy:                  consistency.NewAverage[R](*s.Policy.Average, agg),
		Retries:                 s.Retries,
		RetriesForInconsistency: s.RetriesForInconsistency,
	}, nil
}
