// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// CONTENT ANALYSIS
// =============================================================================

// Category labels, in match-priority order.
const (
	CategoryBloodDonation = "blood-donation"
	CategoryHealth        = "health"
	CategoryProcess       = "process"
)

// dictionary is one keyword category. Matching is plain substring
// lookup over the normalized, lower-cased message.
type dictionary struct {
	category string
	keywords []string
}

// dictionaries are checked in this order; Categories preserves it.
var dictionaries = []dictionary{
	{
		category: CategoryBloodDonation,
		keywords: []string{
			"blood", "donate", "donation", "donor", "plasma",
			"platelet", "transfusion", "red cells", "blood type",
			"blood bank", "blood drive",
		},
	},
	{
		category: CategoryHealth,
		keywords: []string{
			"health", "hemoglobin", "iron", "anemia", "anaemia",
			"medical", "doctor", "hospital", "medication",
			"blood pressure", "pulse", "wellness",
		},
	},
	{
		category: CategoryProcess,
		keywords: []string{
			"how", "process", "steps", "procedure", "appointment",
			"schedule", "register", "sign up", "eligib",
			"requirement", "where", "when", "what do i need",
		},
	},
}

// ContentAnalysis is the keyword classification of one message.
type ContentAnalysis struct {
	// Categories holds the matched category labels in dictionary
	// order.
	Categories []string

	// Keywords holds the matched keywords in encounter order.
	Keywords []string

	// IsBloodDonationRelated is true when any category matched.
	IsBloodDonationRelated bool
}

// AnalyzeContent classifies a message against the fixed keyword
// dictionaries. The text is NFC-normalized and lower-cased first so
// composed and decomposed spellings match the same keywords.
func AnalyzeContent(message string) ContentAnalysis {
	text := strings.ToLower(norm.NFC.String(message))

	var analysis ContentAnalysis
	for _, dict := range dictionaries {
		matched := false
		for _, kw := range dict.keywords {
			if strings.Contains(text, kw) {
				matched = true
				analysis.Keywords = append(analysis.Keywords, kw)
			}
		}
		if matched {
			analysis.Categories = append(analysis.Categories, dict.category)
		}
	}

	analysis.IsBloodDonationRelated = len(analysis.Categories) > 0
	return analysis
}
