package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ericfisherdev/passman/internal/application"
)

var (
	errorColor = color.New(color.FgRed)
	highlight  = color.New(color.FgRed).SprintFunc()
)

// PrintError writes err to w in red. Usage errors get a pointer to --help.
func PrintError(w io.Writer, err error) {
	errorColor.Fprintf(w, "Error: %v\n", err)
	if errors.Is(err, application.ErrUsage) {
		fmt.Fprintln(w, "Run 'passman <command> --help' for usage.")
	}
}
