package cli

import (
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

func (a *App) getStatus() string {
	mode := "offline"
	if a.state.Online() {
		mode = "online"
	}
	if a.deviceID != "" {
		return fmt.Sprintf("(%s %s)", a.config.DeviceName, mode)
	}
	return fmt.Sprintf("(%s)", mode)
}

// Root runs the read-eval-print loop. It reads a line, parses the first
// token as the command and dispatches. Command handlers log their own
// errors; the loop itself only reports unknown commands and exits on EOF
// or "exit"/"quit".
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to tabstock agent (type 'help' for commands)")

	for {
		fmt.Printf("stock %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist, show <id>, add, stock <id> add|remove <n>, users, adduser, image <id>, delete <id>, register, sync, status, poisoned, exit")

		case "l", "list":
			a.list(ctx)
		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			a.show(ctx, args[0])
		case "add":
			a.addItem(ctx)
		case "stock":
			if len(args) < 3 {
				printlnFn("Usage: stock <id> add|remove <quantity>")
				continue
			}
			a.adjustStock(ctx, args[0], args[1], args[2])
		case "users":
			a.listUsers(ctx)
		case "adduser":
			a.addUser(ctx)
		case "image":
			if len(args) == 0 {
				printlnFn("Usage: image <id>")
				continue
			}
			a.attachImage(ctx, args[0])
		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			a.deleteItem(ctx, args[0])
		case "register":
			a.register(ctx)
		case "sync":
			a.sync(ctx)
		case "status":
			a.status(ctx)
		case "poisoned":
			a.poisoned(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
