package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/coursemate/coursemate/pkg/core"
)

func main() {
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// fail prints a service error the way users should see it: validation
// failures field by field, everything else on one line.
func fail(err error) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		fmt.Fprintln(os.Stderr, "Error: invalid input")
		for _, f := range vErr.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Field, f.Error)
		}
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
