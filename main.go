// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/mapchat/mapchat/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
