// Seasonal - Seasonal colour analysis
//
// Seasonal classifies portraits into autumn, spring, summer or winter colour
// palettes and matches catalog colours against reference palettes.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import "github.com/jmylchreest/seasonal/internal/cli"

func main() {
	cli.Execute()
}
