package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// commands is a register of all available commands. The name is matched
// with the first argument given. Without arguments the run command is
// executed, which is how the scheduler invokes this program.
//
// A command function reads from input and writes its result to output.
// Logs go to stderr. Given args are the command line arguments without the
// program name and the command name.
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"call-hash":        cmdCallHash,
	"multisig-address": cmdMultisigAddress,
	"pending":          cmdPending,
	"run":              cmdRun,
	"version":          cmdVersion,
}

func main() {
	name, args := "run", []string(nil)
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		name, args = os.Args[1], os.Args[2:]
	} else if len(os.Args) > 1 {
		args = os.Args[1:]
	}

	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", name)
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}
	if err := run(os.Stdin, os.Stdout, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}
