// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lifelink/lifelink-tui/internal/cli"
)

// TestVersionSync verifies init() pushes the build-time version info into the
// cli package, and in doing so keeps the entry point under compilation by the
// test suite.
func TestVersionSync(t *testing.T) {
	assert.Equal(t, Version, cli.Version)
	assert.Equal(t, GitCommit, cli.GitCommit)
	assert.Equal(t, BuildDate, cli.BuildDate)
}

// TestExitCodesDistinct guards the exit code contract the shell scripts rely
// on: config failures must not alias success or the generic error code.
func TestExitCodesDistinct(t *testing.T) {
	assert.NotEqual(t, cli.ExitSuccess, cli.ExitConfigError)
	assert.NotEqual(t, cli.ExitGeneralError, cli.ExitConfigError)
}
