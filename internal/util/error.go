package util

import (
	"fmt"
	"strings"
)

// FormatErrorList() is a wrapper function that unifies error list formatting
// and makes printing error lists consistent.
//
// NOTE: The error returned IS NOT an error in itself and may be a bit misleading.
// Instead, it is a single condensed error composed of all of the errors included
// in the errList argument.
func FormatErrorList(errList []error) error {
	if !HasErrors(errList) {
		return nil
	}
	var b strings.Builder
	for i, e := range errList {
		// NOTE: for multi-error formating, we want to include \n here
		fmt.Fprintf(&b, "\t[%d] %v\n", i, e)
	}
	return fmt.Errorf("%d error(s):\n%s", len(errList), b.String())
}

// HasErrors() is a simple wrapper function to check if an error list contains
// errors.
func HasErrors(errList []error) bool {
	return len(errList) > 0
}
