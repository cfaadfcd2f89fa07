package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/1broseidon/tilecore/internal/config"
	"github.com/1broseidon/tilecore/internal/ipc"
	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/preview"
	"github.com/1broseidon/tilecore/internal/stack"
)

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tilecore layout list [--json] [--local] [--path PATH]")
	fmt.Fprintln(w, "  tilecore layout set [--tag TAG] <layout>")
	fmt.Fprintln(w, "  tilecore layout apply [--screen N] [--json] [--preview]")
	fmt.Fprintln(w, "  tilecore layout preview [--path PATH] [--windows N] [--focus I] [--size WxH] [--message M]... [layout]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tilecore layout <command> --help' for command-specific options.")
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "list":
		return runLayoutList(args[1:])
	case "set":
		return runLayoutSet(args[1:])
	case "apply":
		return runLayoutApply(args[1:])
	case "preview":
		return runLayoutPreview(args[1:])
	case "help", "-h", "--help":
		printLayoutUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

func runLayoutList(args []string) int {
	fs := flag.NewFlagSet("layout list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output JSON")
	local := fs.Bool("local", false, "Read layouts from the config file instead of the daemon")
	path := fs.String("path", "", "Config file path for --local")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	var data *ipc.LayoutsData
	if *local {
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data = localLayouts(res.Config)
	} else {
		var err error
		data, err = ipc.NewClient().ListLayouts()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *jsonOut {
		return printJSON(os.Stdout, data)
	}
	for _, name := range data.Layouts {
		marker := " "
		if name == data.DefaultLayout {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, name)
	}
	return 0
}

func localLayouts(cfg *config.Config) *ipc.LayoutsData {
	names := make([]string, 0, len(cfg.Layouts))
	for name := range cfg.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return &ipc.LayoutsData{Layouts: names, DefaultLayout: cfg.DefaultLayout}
}

func runLayoutSet(args []string) int {
	fs := flag.NewFlagSet("layout set", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	tag := fs.String("tag", "", "Workspace tag (default: current workspace)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tilecore layout set [--tag TAG] <layout>")
		return 2
	}
	if err := ipc.NewClient().SetLayout(*tag, fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runLayoutApply(args []string) int {
	fs := flag.NewFlagSet("layout apply", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	screen := fs.Int("screen", -1, "Screen ID (default: current screen)")
	jsonOut := fs.Bool("json", false, "Output JSON")
	draw := fs.Bool("preview", false, "Draw the placements")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().ApplyLayout(optionalScreen(*screen))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(os.Stdout, data)
	}

	fmt.Printf("screen %d (%s) %s\n", data.Screen, data.Tag, formatRect(data.ScreenRect))
	for _, p := range data.Placements {
		fmt.Printf("  %d\t%s\n", p.Window, formatRect(p.Rect))
	}
	if *draw {
		var focused stack.Window
		if status, err := ipc.NewClient().GetStatus(); err == nil && status.CurrentScreen == data.Screen {
			focused = stack.Window(status.Focused)
		}
		printPreview(data.Placements, data.ScreenRect, focused)
	}
	return 0
}

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func runLayoutPreview(args []string) int {
	fs := flag.NewFlagSet("layout preview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tilecore/config.yaml)")
	windows := fs.Int("windows", 4, "Number of windows to place")
	focus := fs.Int("focus", 0, "Index of the focused window")
	size := fs.String("size", "1920x1080", "Screen size in pixels")
	var messages stringList
	fs.Var(&messages, "message", "Layout message to apply first (repeatable)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilecore layout preview [options] [layout]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Render a configured layout without a running daemon.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 || *windows < 0 {
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	name := res.Config.DefaultLayout
	if fs.NArg() == 1 {
		name = fs.Arg(0)
	}

	var screen layout.Rect
	if _, err := fmt.Sscanf(*size, "%dx%d", &screen.Width, &screen.Height); err != nil || screen.Width <= 0 || screen.Height <= 0 {
		fmt.Fprintf(os.Stderr, "invalid --size %q (want WxH)\n", *size)
		return 2
	}

	msgs := make([]layout.Message, 0, len(messages))
	for _, m := range messages {
		msg, err := layout.ParseMessage(m)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		msgs = append(msgs, msg)
	}

	placements, desc, err := previewLayout(res.Config, name, *windows, *focus, screen, msgs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// Out-of-range indexes focus the first window, as in stack.FromList.
	focused := stack.Window(1)
	if *focus > 0 && *focus < *windows {
		focused = stack.Window(*focus + 1)
	}

	fmt.Printf("%s: %s\n", name, desc)
	printPreview(placements, screen, focused)
	return 0
}

// previewLayout places n synthetic windows, numbered from 1, with the named
// layout after handling msgs in order.
func previewLayout(cfg *config.Config, name string, n, focus int, screen layout.Rect, msgs []layout.Message) ([]layout.Placement, string, error) {
	l, err := cfg.BuildLayout(name)
	if err != nil {
		return nil, "", err
	}

	ws := make([]stack.Window, n)
	for i := range ws {
		ws[i] = stack.Window(i + 1)
	}
	s := stack.FromList(ws, focus)

	for _, msg := range msgs {
		l, _ = l.HandleMessage(msg, s)
	}
	return l.Apply(layout.NoEnv{}, s, screen), l.Description(), nil
}

func printPreview(placements []layout.Placement, screen layout.Rect, focused stack.Window) {
	width, height := preview.CanvasSize()
	for _, line := range preview.RenderFocused(placements, screen, width, height, focused, styleFocusTile) {
		fmt.Println(line)
	}
	fmt.Println(styleSummary.Render(preview.Summarize(placements)))
}

func formatRect(r layout.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
