// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads and validates the expogrid configuration file.
//
// Configuration is a single YAML file, by default
// $XDG_CONFIG_HOME/expogrid/config.yaml, overridable with --config.
// A missing file is not an error: every setting has a default and the
// tool is usable with no configuration at all, matching how a user
// first runs it. A file that exists but fails to parse or validate is
// an error; a half-read configuration must never silently fall back
// to defaults.
package config
