package main

import (
	"fmt"
	"io"

	"github.com/bifrost-finance/linker"
)

func cmdVersion(input io.Reader, output io.Writer, args []string) error {
	_, err := fmt.Fprintln(output, linker.Version())
	return err
}
