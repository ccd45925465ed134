// Package demo carries the built-in Elan program shown when the tool is
// run without arguments.
package demo

import (
	_ "embed"
)

//go:embed demo.elan
var program string

// Program returns the embedded demonstration Elan source.
func Program() string {
	return program
}
