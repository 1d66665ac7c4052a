// SPDX-License-Identifier: MIT

package cmd_test

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/nmasur/gh-actionaudit/cmd"
)

// TestMain registers this binary under the "gh-actionaudit" name so
// testscript's "exec gh-actionaudit ..." lines run the real CLI
// in-process rather than requiring a separately built binary.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"gh-actionaudit": cmd.Run,
	}))
}
