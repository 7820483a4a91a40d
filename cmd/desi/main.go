// Command desi translates English text, idioms and subtitle files into Hindi,
// Telugu and Tamil using the rule tables, and manages those tables.
//
// Usage:
//
//	desi translate "I love you" -t telugu
//	desi detailed "She is reading a book" -o json
//	desi subtitle movie.srt -t tamil --out movie.ta.srt
//	desi subtitle movie.srt --previous movie.v1.srt --previous-output movie.v1.hi.srt
//	desi rules stats
//	desi serve --config desi.yaml
//
// Flags can also be set through DESI_* environment variables
// (DESI_TARGET, DESI_RULES_DIR, ...).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the CLI with the given arguments and streams.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
