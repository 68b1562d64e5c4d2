// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import "unicode/utf8"

// Validation limits for document fields.
const (
	maxTitleLen   = 300
	maxContentLen = 100_000
)

// validateDocument checks staged document inputs and returns the first
// error found. Empty values are fine: staging an empty document is how a
// new draft starts out.
func validateDocument(title, content string) string {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}
