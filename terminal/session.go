package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// QuitCommand ends an interactive session.
const QuitCommand = "quit"

// MaxLineLength bounds an interactive command line, in bytes.
const MaxLineLength = 64 * 1024

// Session reads command lines from r until "quit" or end of input. Each line
// is split on single spaces and interpreted as if passed to the executable
// exe. A failing command is reported and the session continues.
func (t *Terminal) Session(ctx context.Context, r io.Reader, exe string) error {
	reader := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return readErr
		}
		if raw == "" && readErr == io.EOF {
			return nil
		}

		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		switch {
		case line == QuitCommand:
			return nil
		case len(line) > MaxLineLength:
			t.Reporter.Error(fmt.Sprintf("command line too long (%d bytes, limit %d)", len(line), MaxLineLength))
		case line != "":
			args := append([]string{exe}, strings.Split(line, " ")...)
			if err := t.runLine(ctx, args); err != nil {
				t.Reporter.Error(err.Error())
			}
		}

		if readErr == io.EOF {
			return nil
		}
	}
}

func (t *Terminal) runLine(ctx context.Context, args []string) error {
	intent, err := t.HandleArguments(ctx, args)
	if err != nil {
		return err
	}
	return t.Dispatch(ctx, intent)
}

// Run interprets a process argument list and dispatches the result. A NoOp
// result continues with an interactive session on stdin.
func (t *Terminal) Run(ctx context.Context, args []string, stdin io.Reader) error {
	intent, err := t.HandleArguments(ctx, args)
	if err != nil {
		return err
	}
	if t.Banner != "" {
		t.Reporter.Info(t.Banner)
	}
	if _, ok := intent.(NoOp); ok {
		exe := ""
		if len(args) > 0 {
			exe = args[0]
		}
		return t.Session(ctx, stdin, exe)
	}
	return t.Dispatch(ctx, intent)
}
