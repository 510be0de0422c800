// Copyright (c) 2026 PureCrypt Contributors
//
// This file is part of go-purecrypt.
//
// go-purecrypt is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@purecrypt.io for commercial licensing options.

package main

import (
	"fmt"
	"os"

	"github.com/purecrypt/go-purecrypt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
