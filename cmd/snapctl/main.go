// Command snapctl is an interactive terminal client for the screenshot
// service. It drives the same capture form, current view, and gallery that a
// browser client would, over the service HTTP API.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgnsrekt/sitesnap/internal/client"
	"github.com/dgnsrekt/sitesnap/internal/config"
	"github.com/dgnsrekt/sitesnap/internal/view"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load client config:", err)
		os.Exit(1)
	}
	if err := setupLogger(cfg.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, "logger setup failed:", err)
		os.Exit(1)
	}

	api := client.New(cfg.APIBaseURL)
	ctrl := view.NewController(api)

	ctx := context.Background()
	fmt.Printf("sitesnap gallery client (service %s)\n", cfg.APIBaseURL)
	ctrl.Init(ctx)
	if st := ctrl.State(); st.Error != "" {
		fmt.Println("!", st.Error)
	}

	repl{api: api, ctrl: ctrl, in: bufio.NewScanner(os.Stdin), out: os.Stdout}.run(ctx)
}

type repl struct {
	api  *client.Client
	ctrl *view.Controller
	in   *bufio.Scanner
	out  io.Writer
}

func (r repl) run(ctx context.Context) {
	r.render()
	for {
		fmt.Fprintf(r.out, "[%s]> ", r.ctrl.State().ActiveTab)
		if !r.in.Scan() {
			return
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			r.printHelp()
		case "url":
			r.ctrl.SetURL(strings.Join(args, " "))
		case "capture":
			if len(args) > 0 {
				r.ctrl.SetURL(strings.Join(args, " "))
			}
			fmt.Fprintln(r.out, "capturing...")
			r.ctrl.Submit(ctx)
			r.render()
		case "desktop":
			r.ctrl.SetDesktopResolution(strings.Join(args, " "))
		case "mobile":
			r.ctrl.SetMobileResolution(strings.Join(args, " "))
		case "ua":
			r.setUserAgent(args)
		case "options":
			r.renderOptions()
		case "tab":
			r.switchTab(args)
			r.render()
		case "list", "gallery":
			r.ctrl.SetActiveTab(view.TabGallery)
			r.render()
		case "view":
			r.viewEntry(args)
			r.render()
		case "delete":
			r.deleteEntry(ctx, args)
			r.render()
		default:
			fmt.Fprintf(r.out, "unknown command %q (try help)\n", cmd)
		}

		if st := r.ctrl.State(); st.Error != "" {
			fmt.Fprintln(r.out, "!", st.Error)
		}
	}
}

func (r repl) printHelp() {
	fmt.Fprint(r.out, `commands:
  capture [url]        capture the form URL (or the given one)
  url <address>        set the form URL
  desktop <label>      pick the desktop resolution
  mobile <label>       pick the mobile resolution
  ua desktop|mobile <name>  pick a user agent by name (empty resets to default)
  options              show resolution and user agent catalogs
  tab form|current|gallery  switch the visible pane
  list                 show the gallery
  view <n|id>          open a gallery entry
  delete <n|id>        delete a gallery entry (asks for confirmation)
  quit                 leave
`)
}

func (r repl) switchTab(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: tab form|current|gallery")
		return
	}
	switch view.Tab(args[0]) {
	case view.TabForm, view.TabCurrent, view.TabGallery:
		r.ctrl.SetActiveTab(view.Tab(args[0]))
	default:
		fmt.Fprintln(r.out, "usage: tab form|current|gallery")
	}
}

func (r repl) setUserAgent(args []string) {
	if len(args) < 1 || (args[0] != "desktop" && args[0] != "mobile") {
		fmt.Fprintln(r.out, "usage: ua desktop|mobile <name>")
		return
	}
	name := strings.Join(args[1:], " ")
	st := r.ctrl.State()
	value := ""
	if name != "" {
		catalog := st.UserAgents.Desktop
		if args[0] == "mobile" {
			catalog = st.UserAgents.Mobile
		}
		for _, ua := range catalog {
			if strings.EqualFold(ua.Name, name) {
				value = ua.Value
				break
			}
		}
		if value == "" {
			fmt.Fprintf(r.out, "unknown user agent %q (see options)\n", name)
			return
		}
	}
	if args[0] == "desktop" {
		r.ctrl.SetDesktopUserAgent(value)
	} else {
		r.ctrl.SetMobileUserAgent(value)
	}
}

// resolveID maps a gallery index (1-based, as printed) or a raw id to an id.
func (r repl) resolveID(arg string) (string, bool) {
	st := r.ctrl.State()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(st.Screenshots) {
			fmt.Fprintf(r.out, "no gallery entry %d\n", n)
			return "", false
		}
		return st.Screenshots[n-1].ID, true
	}
	return arg, true
}

func (r repl) viewEntry(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: view <n|id>")
		return
	}
	if id, ok := r.resolveID(args[0]); ok {
		r.ctrl.ViewScreenshot(id)
	}
}

func (r repl) deleteEntry(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: delete <n|id>")
		return
	}
	id, ok := r.resolveID(args[0])
	if !ok {
		return
	}
	r.ctrl.Delete(ctx, id, func() bool {
		fmt.Fprintf(r.out, "Delete screenshot %s? [y/N]: ", id)
		if !r.in.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(r.in.Text()))
		return answer == "y" || answer == "yes"
	})
}

func (r repl) renderOptions() {
	st := r.ctrl.State()
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleColoredBright)
	t.SetTitle("Resolutions")
	t.AppendHeader(table.Row{"Mode", "Label", "Size"})
	for _, res := range st.Resolutions.Desktop {
		t.AppendRow(table.Row{"desktop", res.Label, fmt.Sprintf("%dx%d", res.Width, res.Height)})
	}
	for _, res := range st.Resolutions.Mobile {
		t.AppendRow(table.Row{"mobile", res.Label, fmt.Sprintf("%dx%d", res.Width, res.Height)})
	}
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleColoredBright)
	t.SetTitle("User Agents")
	t.AppendHeader(table.Row{"Mode", "Name", "Value"})
	for _, ua := range st.UserAgents.Desktop {
		t.AppendRow(table.Row{"desktop", ua.Name, ua.Value})
	}
	for _, ua := range st.UserAgents.Mobile {
		t.AppendRow(table.Row{"mobile", ua.Name, ua.Value})
	}
	t.Render()
}

func (r repl) render() {
	st := r.ctrl.State()
	switch st.ActiveTab {
	case view.TabCurrent:
		r.renderCurrent(st)
	case view.TabGallery:
		r.renderGallery(st)
	default:
		r.renderForm(st)
	}
}

func (r repl) renderForm(st view.State) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleColoredBright)
	t.SetTitle("Capture")
	t.AppendRows([]table.Row{
		{"URL", orDash(st.URLInput)},
		{"Desktop resolution", orDash(st.DesktopResolution)},
		{"Mobile resolution", orDash(st.MobileResolution)},
		{"Desktop user agent", orDefault(st.DesktopUserAgent)},
		{"Mobile user agent", orDefault(st.MobileUserAgent)},
	})
	t.Render()
}

func (r repl) renderCurrent(st view.State) {
	if st.Current == nil {
		fmt.Fprintln(r.out, "no current screenshot; capture one or pick from the gallery")
		return
	}
	shot := st.Current
	now := time.Now()
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleColoredBright)
	t.SetTitle("Current Screenshot")
	t.AppendRows([]table.Row{
		{"ID", shot.ID},
		{"URL", shot.URL},
		{"Captured", shot.CreatedAt.Local().Format("2006-01-02 15:04:05")},
		{"Desktop", fmt.Sprintf("%s (%d bytes)", shot.DesktopResolution, shot.DesktopSizeBytes)},
		{"Mobile", fmt.Sprintf("%s (%d bytes)", shot.MobileResolution, shot.MobileSizeBytes)},
		{"Desktop image", r.api.ImageURL(shot.ID, "desktop", now)},
		{"Mobile image", r.api.ImageURL(shot.ID, "mobile", now)},
	})
	t.Render()
}

func (r repl) renderGallery(st view.State) {
	if len(st.Screenshots) == 0 {
		fmt.Fprintln(r.out, "gallery is empty")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleColoredBright)
	t.SetTitle("Gallery")
	t.AppendHeader(table.Row{"#", "ID", "URL", "Desktop", "Mobile", "Captured"})
	for i, shot := range st.Screenshots {
		t.AppendRow(table.Row{
			i + 1,
			shortID(shot.ID),
			shot.URL,
			shot.DesktopResolution,
			shot.MobileResolution,
			shot.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orDefault(s string) string {
	if s == "" {
		return "(service default)"
	}
	return s
}

// setupLogger sends logs to the rotating file only so they never interleave
// with the interactive prompt.
func setupLogger(filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}
	h := slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))
	return nil
}
