// Command mmdblookup looks up a single address in an MMDB file and prints
// the result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/netradar/mmdbreader"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("mmdblookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	metadataOnly := fs.Bool("metadata", false, "print only the database's metadata, as JSON")
	maxDepth := fs.Int("max-depth", 0, "override the decoder's maximum recursion depth (0 uses the default)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	wantAddr := !*metadataOnly
	if wantAddr && len(rest) != 2 {
		fmt.Fprintln(stderr, "usage: mmdblookup [-metadata] [-max-depth N] <db-path> <ip>")
		return 2
	}
	if !wantAddr && len(rest) != 1 {
		fmt.Fprintln(stderr, "usage: mmdblookup -metadata [-max-depth N] <db-path>")
		return 2
	}

	var opts []mmdbreader.Option
	if *maxDepth > 0 {
		opts = append(opts, mmdbreader.WithMaxDepth(*maxDepth))
	}

	db, err := mmdbreader.Open(rest[0], opts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer db.Close()

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	if *metadataOnly {
		if err := enc.Encode(db.Metadata()); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		return 0
	}

	result := db.Lookup(rest[1])
	if result.Err() != nil {
		fmt.Fprintln(stderr, result.Err())
		return 2
	}
	if !result.Found() {
		fmt.Fprintln(stderr, "no record found for", rest[1])
		return 1
	}

	if err := enc.Encode(result.Value()); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	return 0
}
