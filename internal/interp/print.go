// File: print.go
// Title: PRINT Action
// Description: Writes the canonical text of a bound value, or a fixed
//              not-found message naming the identifier.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial print handling

package interp

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	mdwlog "github.com/msto63/actionvm/foundation/core/log"
	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/store"
)

// NotFoundMessage is the line printed for an identifier with no binding.
// Segments are joined with commas.
func NotFoundMessage(id action.Identifier) string {
	return fmt.Sprintf("Variable '%s' not found.", strings.Join(id, ","))
}

func (in *Interpreter) runPrint(p *action.Print) error {
	v, found, err := in.store.Lookup(p.Identifier)
	if err != nil && !mdwerror.HasCode(err, mdwerror.CodePathNotFound) {
		return err
	}

	var line string
	if err != nil || !found || store.IsVoid(v) {
		line = NotFoundMessage(p.Identifier)
	} else {
		line = store.Render(v)
	}

	if _, werr := fmt.Fprintln(in.out, line); werr != nil {
		return mdwerror.Wrap(werr, "write output").
			WithCode(mdwerror.CodeInternal).
			WithOperation("interp.Print")
	}

	in.logger.Debug("action executed", mdwlog.Fields{
		"action":     action.TagPrint,
		"identifier": p.Identifier.String(),
		"found":      found,
	})
	return nil
}
