package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Resend(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	UploadFolder(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Quota(ctx context.Context) error
	Upgrade(ctx context.Context) error
}

// runREPL reads lines from the scanner, parses the first token as the command
// and dispatches to 'a'. Handler errors are logged by the handlers; the loop
// only exits on EOF or exit/quit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sv %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: (l)ist, upload <file...>, uploadfolder <dir>, download <n>, delete <n>, quota, upgrade, logout, exit")
			} else {
				printlnFn("Available commands: login, signup, resend, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "signup", "register":
			_ = a.Signup(ctx)

		case "resend":
			_ = a.Resend(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "upload":
			_ = a.Upload(ctx, args)

		case "uploadfolder":
			_ = a.UploadFolder(ctx, args)

		case "download", "get":
			_ = a.Download(ctx, args)

		case "delete", "rm":
			_ = a.Delete(ctx, args)

		case "quota":
			_ = a.Quota(ctx)

		case "upgrade":
			_ = a.Upgrade(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
