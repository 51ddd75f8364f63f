// SPDX-License-Identifier: EPL-2.0

// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config
