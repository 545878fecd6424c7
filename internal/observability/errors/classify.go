// Package errors derives low-cardinality error labels for metrics tagging.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"
)

// Classify reduces an error to a stable type label such as
// "errors_errorstring" or "net_operror". The error chain is unwrapped to the
// root cause first so wrapper types do not dominate the label space.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	for {
		cause := goerrors.Unwrap(err)
		if cause == nil {
			break
		}
		err = cause
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	label := strings.NewReplacer("*", "", ".", "_").Replace(strings.ToLower(t.String()))
	if label == "" {
		return "unknown"
	}
	return label
}
