package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	List(ctx context.Context, args []string) error
	My(ctx context.Context) error
	Featured(ctx context.Context) error
	Add(ctx context.Context) error
	Join(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL reads commands line by line and dispatches them to a until EOF,
// "exit" or "quit". Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		fmt.Print("aura " + statusFn() + "> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if cerr := dispatch(ctx, a, cmd, args); cerr != nil {
			printlnFn("Error:", cerr)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: (l)ist [filter] [search], my, featured, add, join <id>, update <id>, delete <id>, me, logout, exit")
			printlnFn("Filters: " + strings.Join(filters, ", "))
		} else {
			printlnFn("Available commands: register, login, featured, exit")
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "featured":
		return a.Featured(ctx)
	}

	if !a.isLoggedIn() {
		switch cmd {
		case "logout", "me", "l", "list", "my", "add", "join", "update", "delete":
			printlnFn("Please log in first")
			return nil
		}
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "me":
		return a.Me(ctx)
	case "l", "list":
		return a.List(ctx, args)
	case "my":
		return a.My(ctx)
	case "add":
		return a.Add(ctx)
	case "join":
		return a.Join(ctx, args)
	case "update":
		return a.Update(ctx, args)
	case "delete":
		return a.Delete(ctx, args)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}
