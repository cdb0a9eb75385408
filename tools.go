//go:build tools

// Package tools pins code generators used through `go generate` (mockgen) as module dependencies.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
