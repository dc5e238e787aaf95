package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Confirm(ctx context.Context) error
	Reset(ctx context.Context) error
	Whoami(ctx context.Context) error
	Test(ctx context.Context) error
	AddEntry(ctx context.Context) error
	List(ctx context.Context) error
	Attach(ctx context.Context) error
	Download(ctx context.Context) error
	Delete(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader and dispatches them to a until EOF,
// "exit" or "quit". Command errors are printed and the loop continues.
//
//	Not logged in:
//	  register, login, forgot, confirm, reset, help, exit | quit
//
//	Logged in:
//	  (l)ist, add, attach, download, delete, whoami, test, reset,
//	  logout, help, exit | quit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ip %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, attach, download, delete, whoami, test, reset, logout, exit")
			} else {
				printlnFn("Available commands: register, login, forgot, confirm, reset, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "forgot":
			cmdErr = a.Forgot(ctx)
		case "confirm":
			cmdErr = a.Confirm(ctx)
		case "reset":
			cmdErr = a.Reset(ctx)

		case "whoami", "test", "add", "l", "list", "attach", "download", "delete", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			cmdErr = dispatchLoggedIn(ctx, a, cmd)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}

func dispatchLoggedIn(ctx context.Context, a execIface, cmd string) error {
	switch cmd {
	case "whoami":
		return a.Whoami(ctx)
	case "test":
		return a.Test(ctx)
	case "add":
		return a.AddEntry(ctx)
	case "l", "list":
		return a.List(ctx)
	case "attach":
		return a.Attach(ctx)
	case "download":
		return a.Download(ctx)
	case "delete":
		return a.Delete(ctx)
	case "logout":
		return a.Logout(ctx)
	}
	return nil
}
