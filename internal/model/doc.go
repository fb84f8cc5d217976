// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the lifelink
// client: platform accounts, chat messages, and conversation transcripts.
package model
