// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lang

import (
	"github.com/holomush/casepipe/internal/langerr"
)

// Parse parses DSL source into a Program, folding the participle parse
// tree into the typed AST. Parse errors are wrapped with position
// context via internal/langerr.
func Parse(source string) (*Program, error) {
	raw, err := rawParser.ParseString("", source)
	if err != nil {
		return nil, langerr.Parse(err)
	}
	return foldProgram(raw), nil
}
