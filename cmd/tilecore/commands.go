package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/1broseidon/tilecore/internal/ipc"
	"github.com/1broseidon/tilecore/internal/layout"
)

func runWorkspaces(args []string) int {
	fs := flag.NewFlagSet("workspaces", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilecore workspaces [--json]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	workspaces, err := ipc.NewClient().ListWorkspaces()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		return printJSON(os.Stdout, workspaces)
	}

	fmt.Println(workspacesTable(workspaces))
	return 0
}

// workspacesTable lists one workspace per row; the current workspace is
// highlighted and hidden ones dimmed.
func workspacesTable(workspaces []ipc.WorkspaceInfo) *table.Table {
	rows := make([][]string, 0, len(workspaces))
	for _, ws := range workspaces {
		screen := "-"
		if ws.Screen != nil {
			screen = strconv.Itoa(*ws.Screen)
			if ws.Current {
				screen += "*"
			}
		}
		rows = append(rows, []string{strconv.Itoa(ws.ID), ws.Tag, screen, ws.Layout, formatWindows(ws.Windows, ws.Focused)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("ID", "TAG", "SCREEN", "LAYOUT", "WINDOWS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if row < 0 || row >= len(workspaces) {
				return styleCell
			}
			switch ws := workspaces[row]; {
			case ws.Current:
				return styleCurrent
			case ws.Screen != nil:
				return styleVisible
			default:
				return styleHidden
			}
		})
}

func formatWindows(windows []uint32, focused uint32) string {
	if len(windows) == 0 {
		return "-"
	}
	parts := make([]string, len(windows))
	for i, w := range windows {
		parts[i] = strconv.FormatUint(uint64(w), 10)
		if w == focused {
			parts[i] = "[" + parts[i] + "]"
		}
	}
	return strings.Join(parts, " ")
}

func runTargetCommand(name string, args []string) int {
	usage := fmt.Sprintf("Usage: tilecore %s <up|down|master>", name)
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stdout, usage)
		return 0
	}
	target, err := ipc.ParseTarget(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	if name == "swap" {
		err = client.Swap(target)
	} else {
		err = client.Focus(target)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMessage(args []string) int {
	fs := flag.NewFlagSet("message", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	tag := fs.String("tag", "", "Workspace tag (default: current workspace)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilecore message [--tag TAG] <message>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Messages: %s\n", strings.Join(layout.MessageNames(), ", "))
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	if _, err := layout.ParseMessage(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ipc.NewClient().SendMessage(*tag, fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printWorkspaceUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tilecore workspace switch [--screen N] <tag>")
}

func runWorkspace(args []string) int {
	if len(args) == 0 {
		printWorkspaceUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "switch":
		fs := flag.NewFlagSet("workspace switch", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		screen := fs.Int("screen", -1, "Screen ID (default: current screen)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			printWorkspaceUsage(os.Stderr)
			return 2
		}
		if err := ipc.NewClient().SwitchWorkspace(optionalScreen(*screen), fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case "help", "-h", "--help":
		printWorkspaceUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown workspace command: %s\n\n", args[0])
		printWorkspaceUsage(os.Stderr)
		return 2
	}
}

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tilecore window move [--window ID] <tag>")
	fmt.Fprintln(w, "  tilecore window focus <id>")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "move":
		fs := flag.NewFlagSet("window move", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		window := fs.Uint("window", 0, "Window ID (default: focused window)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			printWindowUsage(os.Stderr)
			return 2
		}
		if err := ipc.NewClient().MoveWindow(uint32(*window), fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case "focus":
		if len(args) != 2 {
			printWindowUsage(os.Stderr)
			return 2
		}
		id, err := parseWindowID(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if err := ipc.NewClient().FocusWindow(id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case "help", "-h", "--help":
		printWindowUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

// parseWindowID accepts decimal or 0x-prefixed hex IDs as printed by xprop.
func parseWindowID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(id), nil
}

func optionalScreen(screen int) *int {
	if screen < 0 {
		return nil
	}
	return &screen
}

func printJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
