package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/scenestack/scenestack/internal/presentation/tui"
	"github.com/scenestack/scenestack/pkg/domain"
)

// RunSession starts an interactive terminal session. Lines are commands
// (switch, push, pop, stack, scenes, history, quit); a single character is
// delivered to the active scene as a key press.
func RunSession(opts RunOptions) error {
	session, err := NewSession(opts)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		tui.PrintBanner()
	}

	ctx := context.Background()
	if err := session.Director.Switch(ctx, session.FirstScene, nil); err != nil {
		return fmt.Errorf("error entering %s: %w", session.FirstScene, err)
	}

	view := NewView(os.Stdout, session.Host)
	view.Render(session.Director.Layers())

	return runLoop(ctx, session, view, os.Stdin, os.Stdout, interactive)
}

func runLoop(ctx context.Context, session *Session, view *View, in io.Reader, out io.Writer, interactive bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprintf(out, "[%s]> ", session.Director.Current())
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		var err error
		switch cmd {
		case "quit", "exit":
			return nil
		case "switch":
			if len(args) != 1 {
				fmt.Fprintln(out, "usage: switch <scene>")
				continue
			}
			err = session.Director.Switch(ctx, args[0], nil)
		case "push":
			if len(args) != 1 {
				fmt.Fprintln(out, "usage: push <scene>")
				continue
			}
			err = session.Director.Push(ctx, args[0], nil)
		case "pop":
			err = session.Director.Pop(ctx)
		case "stack":
			fmt.Fprintln(out, strings.Join(session.Director.Stack(), " > "))
			continue
		case "scenes":
			fmt.Fprintln(out, strings.Join(session.Director.SceneNames(), ", "))
			continue
		case "history":
			recs, herr := session.History.List(ctx, 10)
			if herr != nil {
				fmt.Fprintf(out, "error: %v\n", herr)
				continue
			}
			for _, rec := range recs {
				fmt.Fprintf(out, "%s  %-6s %s -> %s\n",
					rec.Timestamp.Format("15:04:05"), rec.Op, rec.From, rec.To)
			}
			continue
		default:
			if len([]rune(cmd)) == 1 && len(args) == 0 {
				session.Input.EmitKey(cmd)
			} else {
				// Anything else is treated as a pointer-style event: the
				// first word is the origin, the rest its containment path.
				ev := domain.InputEvent{Type: "command", Origin: cmd, Path: fields}
				session.Director.Layers().Dispatch(ev)
				session.Input.EmitInput(ev)
			}
		}

		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		view.Render(session.Director.Layers())
	}
}
