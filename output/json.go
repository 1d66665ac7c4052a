// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"io"

	"github.com/nmasur/gh-actionaudit/model"
)

// WriteJSON renders the tree of AuditNode roots as a JSON array (spec
// §6). AuditNode's own json tags already flatten ActionEntry and omit
// absent optional fields.
func WriteJSON(w io.Writer, roots []*model.AuditNode) error {
	if roots == nil {
		roots = []*model.AuditNode{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(roots)
}
