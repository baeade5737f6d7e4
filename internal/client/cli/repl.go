package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Add(ctx context.Context, paths []string) error
	List(ctx context.Context) error
	Remove(ctx context.Context, ids []string) error
	Clear(ctx context.Context) error
	Reload(ctx context.Context) error
	Open(ctx context.Context, id, dest string) error
	Stats(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command and dispatches to a. The loop exits on scanner EOF or when the
// user types "exit" or "quit". Handler errors are printed and the loop
// continues.
//
//	help                 show available commands
//	signup | signin      prompt for email and password
//	signout              leave the current account
//	whoami               show the active account
//	add <path>...        add files to the gallery
//	(l)ist               list the gallery, newest first
//	remove <id>...       remove items
//	clear                remove every item of the active account
//	reload               reload the gallery from storage
//	open <id> <dest>     save an item's content to dest
//	stats                show gallery counters
//	exit | quit          leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gallery %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn("Available commands: add, (l)ist, remove, clear, reload, open, stats, signup, signin, signout, whoami, exit")
			} else {
				printlnFn("Available commands: signup, signin, whoami, exit")
			}

		case "signup":
			err = a.SignUp(ctx)

		case "signin", "login":
			err = a.SignIn(ctx)

		case "signout", "logout":
			err = a.SignOut(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <path>...")
				continue
			}
			err = a.Add(ctx, args)

		case "l", "list":
			err = a.List(ctx)

		case "remove", "rm":
			if len(args) == 0 {
				printlnFn("Usage: remove <id>...")
				continue
			}
			err = a.Remove(ctx, args)

		case "clear":
			err = a.Clear(ctx)

		case "reload":
			err = a.Reload(ctx)

		case "open":
			if len(args) != 2 {
				printlnFn("Usage: open <id> <dest>")
				continue
			}
			err = a.Open(ctx, args[0], args[1])

		case "stats":
			err = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
