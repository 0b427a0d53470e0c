// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// fontgrab downloads the web fonts of a stylesheet and rewrites
// the stylesheet so it uses the local copies.
package main

import (
	"os"

	"codeberg.org/readeck/fontgrab/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
