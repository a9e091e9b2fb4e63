package conversion

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// OutputFilename derives the output name from an input name: same stem, output extension
func OutputFilename(inputName string) string {
	base := filepath.Base(inputName)
	return strings.TrimSuffix(base, filepath.Ext(base)) + OutputExtension
}

// OutputNamer hands out output names for one batch, never returning the same
// name twice. Names are compared case-insensitively because two names that
// differ only in case collide on case-insensitive filesystems.
// Later claimants of a taken name get a " - dupN" suffix.
type OutputNamer struct {
	claimed map[string]bool
	fold    cases.Caser
}

// NewOutputNamer creates a namer with no claimed names
func NewOutputNamer() *OutputNamer {
	return &OutputNamer{
		claimed: make(map[string]bool),
		fold:    cases.Fold(),
	}
}

// Claim returns the output name for inputName, disambiguating collisions
func (n *OutputNamer) Claim(inputName string) string {
	name := OutputFilename(inputName)
	if n.claim(name) {
		return name
	}

	stem := strings.TrimSuffix(name, OutputExtension)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s - dup%d%s", stem, i, OutputExtension)
		if n.claim(candidate) {
			return candidate
		}
	}
}

// claim records name and reports whether it was still free
func (n *OutputNamer) claim(name string) bool {
	key := n.fold.String(name)
	if n.claimed[key] {
		return false
	}
	n.claimed[key] = true
	return true
}
