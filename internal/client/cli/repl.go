package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	isSignedIn() bool
	SignUp(ctx context.Context, args []string) error
	SignIn(ctx context.Context) error
	Renew(ctx context.Context) error
	SignOut(ctx context.Context) error
	Invite(ctx context.Context) error
	CheckInvite(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context) error
}

// runREPL reads commands from scanner until EOF, "exit" or "quit". Command
// errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gk%s> ", statusFn()))
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
				printlnFn("Available commands: invite, check-invite, whoami, renew, signout, exit")
			} else {
				printlnFn("Available commands: signup, signin, check-invite, exit")
			}

		case "signup":
			err = a.SignUp(ctx, args)

		case "signin":
			err = a.SignIn(ctx)

		case "renew":
			err = a.Renew(ctx)

		case "signout":
			err = a.SignOut(ctx)

		case "invite":
			err = a.Invite(ctx)

		case "check-invite":
			err = a.CheckInvite(ctx, args)

		case "whoami":
			err = a.WhoAmI(ctx)

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
