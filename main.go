// SPDX-License-Identifier: MIT

package main

import "github.com/nmasur/gh-actionaudit/cmd"

func main() {
	cmd.Execute()
}
