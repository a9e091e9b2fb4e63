package conversion

import (
	"fmt"
	"strings"
)

// Verdict is the result of validating a single Upload
type Verdict struct {
	Accepted bool
	Reason   string // Empty when accepted
}

// Rejection pairs a rejected upload name with the reason it was rejected
type Rejection struct {
	Name   string
	Reason string
}

// Validate classifies an upload using only its name and size.
// Rules are applied in order and the first match wins.
func Validate(u Upload) Verdict {
	if !strings.HasSuffix(strings.ToLower(u.Name), InputExtension) {
		return Verdict{Reason: fmt.Sprintf("'%s' is not a %s file", u.Name, InputExtension)}
	}
	if u.Size <= 0 {
		return Verdict{Reason: "file is empty"}
	}
	if u.Size > MaxUploadBytes {
		return Verdict{Reason: "file exceeds size limit"}
	}
	return Verdict{Accepted: true}
}

// Partition splits uploads into accepted and rejected groups.
// Both groups keep the original upload order.
func Partition(uploads []Upload) (accepted []Upload, rejected []Rejection) {
	for _, u := range uploads {
		v := Validate(u)
		if v.Accepted {
			accepted = append(accepted, u)
			continue
		}
		rejected = append(rejected, Rejection{Name: u.Name, Reason: v.Reason})
	}
	return accepted, rejected
}
