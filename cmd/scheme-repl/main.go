// Command scheme-repl is an interactive top-level loop: read one form,
// parse it, evaluate it against a persistent environment, print the
// result. Grounded on cmdRepl from daios-ai-msg's cmd/msg, same
// liner-based prompt/history/Ctrl-C shape.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/peterh/liner"

	"scheme"
)

const (
	historyFile = ".scheme_history"
	promptMain  = "> "
	promptCont  = "... "
)

func main() {
	fmt.Println("scheme REPL. Ctrl+C cancels input, Ctrl+D exits.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	it := scheme.NewInterpreter()
	env := scheme.EmptyAssoc

	for {
		src, ok := readForm(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return
		}
		if src == "" {
			continue
		}

		syn, err := scheme.ReadOne(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		expr, err := scheme.Parse(syn, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		val, err := it.Eval(expr, &env)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			ln.AppendHistory(src)
			continue
		}
		if val.Kind == scheme.VTerminate {
			return
		}
		fmt.Println(val.String())
		ln.AppendHistory(src)
	}
}

// readForm reads lines until they form a balanced, readable
// expression or the reader fails for a reason other than running out
// of input, matching daios-ai-msg's parse-probe continuation prompt.
func readForm(ln *liner.State, prompt, cont string) (string, bool) {
	var src string
	for {
		p := prompt
		if src != "" {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", false
		}

		if src != "" {
			src += "\n"
		}
		src += line

		_, err = scheme.ReadOne(src)
		if err == nil {
			return src, true
		}
		if isUnbalanced(src) {
			continue
		}
		return src, true
	}
}

// isUnbalanced reports whether src has more open than close parens
// outside of a string literal — the signal to keep reading lines
// rather than report the current (incomplete) form as an error.
func isUnbalanced(src string) bool {
	depth := 0
	inString := false
	escaped := false
	for _, ch := range src {
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth > 0
}
