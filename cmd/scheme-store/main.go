// Command scheme-store inspects a definition-persistence database
// created by scheme-session, grounded on the teacher's mod-sqlite
// query op (read rows, render as JSON) narrowed to this core's single
// definitions table.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"scheme/internal/store"
)

func main() {
	dbPath := flag.String("db", "", "path to the definition store database")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: scheme-store -db PATH")
		os.Exit(1)
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", *dbPath, err)
		os.Exit(1)
	}
	defer st.Close()

	defs, err := st.Replay()
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(defs, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "format: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
