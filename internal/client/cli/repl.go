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

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Home(ctx context.Context) error
	Go(ctx context.Context, path string) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Posts(ctx context.Context, args []string) error
	Post(ctx context.Context, args []string) error
	AddPost(ctx context.Context) error
	EditPost(ctx context.Context, args []string) error
	DelPost(ctx context.Context, args []string) error
	Comments(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error
	DelComment(ctx context.Context, args []string) error
	Categories(ctx context.Context, args []string) error
	AddCategory(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
}

const (
	helpPublic = "Available commands: home, go <path>, posts [page], post <id>, comments <id>, " +
		"categories [id], register, login, whoami, exit"
	helpUser = "Available commands: home, go <path>, posts [page], post <id>, addpost, editpost <id>, " +
		"delpost <id>, comments <id>, comment <postID>, delcomment <id>, categories [id], upload <file>, " +
		"profile [edit|password], whoami, logout, exit"
	helpAdmin = "Admin commands: addcategory, users [delete <id> | role <id> <roleID>]"
)

// runREPL starts a simple read–eval–print loop for the blog CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF,
// when ctx is done, or when the user types "exit" or "quit".
//
// Prompts of the command handlers read from the same reader, so a command
// and its answers can be piped in together.
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("blog %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
				if a.isAdmin() {
					printlnFn(helpAdmin)
				}
			} else {
				printlnFn(helpPublic)
			}

		case "home":
			cmdErr = a.Home(ctx)

		case "go":
			if len(args) != 1 {
				printlnFn("Usage: go <path>")
				continue
			}
			cmdErr = a.Go(ctx, args[0])

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "profile":
			cmdErr = a.Profile(ctx, args)

		case "posts":
			cmdErr = a.Posts(ctx, args)

		case "post":
			cmdErr = a.Post(ctx, args)

		case "addpost":
			cmdErr = a.AddPost(ctx)

		case "editpost":
			cmdErr = a.EditPost(ctx, args)

		case "delpost":
			cmdErr = a.DelPost(ctx, args)

		case "comments":
			cmdErr = a.Comments(ctx, args)

		case "comment":
			cmdErr = a.Comment(ctx, args)

		case "delcomment":
			cmdErr = a.DelComment(ctx, args)

		case "categories":
			cmdErr = a.Categories(ctx, args)

		case "addcategory":
			cmdErr = a.AddCategory(ctx)

		case "upload":
			cmdErr = a.Upload(ctx, args)

		case "users":
			cmdErr = a.Users(ctx, args)

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
