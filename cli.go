package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/leafdoc-core/server/internal/agent/model"
	"github.com/leafdoc-core/server/internal/agent/screen"
	errx "github.com/leafdoc-core/server/internal/core/error"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

const helpText = `commands:
  crops               list crops
  crop <id>           select a crop
  image <path>        select a leaf photo
  analyze             diagnose the selected photo
  lang [code]         list languages or switch display language
  speak               start/stop narration of the diagnosis
  share               share the diagnosis
  chat                ask the agronomist about the diagnosis
  say <text>          send a chat message
  history             list past scans
  open <n>            open a past scan
  about               about this app
  back | home         navigate back / to the start
  status              show the current screen
  quit                exit`

// syncWriter serializes writes from the prompt loop and background narration.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// writerSharer "shares" by printing the summary.
type writerSharer struct {
	w io.Writer
}

func (s *writerSharer) Share(_ context.Context, title, text string) error {
	_, err := fmt.Fprintf(s.w, "── %s ──\n%s\n", title, text)
	return err
}

type cli struct {
	app *App
	in  io.Reader
	out io.Writer
}

func newCLI(app *App, in io.Reader, out io.Writer) *cli {
	w := io.Writer(app.out)
	if app.out == nil {
		w = out
	}
	return &cli{app: app, in: in, out: w}
}

// Run reads commands until EOF, quit or ctx cancellation.
func (c *cli) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "🌿 LeafDoc: type 'help' for commands")
	c.render()

	sc := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(c.out)
			return sc.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if quit := c.dispatch(ctx, strings.ToLower(cmd), arg); quit {
			return nil
		}
	}
}

func (c *cli) dispatch(ctx context.Context, cmd, arg string) bool {
	ctl := c.app.Screen
	var err error
	switch cmd {
	case "help", "?":
		fmt.Fprintln(c.out, helpText)
		return false
	case "quit", "exit":
		return true
	case "crops":
		for _, cr := range model.Crops {
			fmt.Fprintf(c.out, "  %-10s %s %s\n", cr.ID, cr.Icon, cr.Name)
		}
		return false
	case "crop":
		crop, ok := model.CropByID(strings.ToLower(arg))
		if !ok {
			fmt.Fprintf(c.out, "unknown crop %q, see 'crops'\n", arg)
			return false
		}
		err = ctl.SelectCrop(crop)
	case "image":
		err = c.selectImage(arg)
	case "analyze":
		fmt.Fprintln(c.out, "⏳ analyzing…")
		err = ctl.Submit(ctx)
	case "lang":
		if arg == "" {
			for _, l := range model.Languages() {
				fmt.Fprintf(c.out, "  %-3s %s (%s)\n", l.Code, l.Name, l.NativeName)
			}
			return false
		}
		lang, ok := model.ParseLanguage(arg)
		if !ok {
			lang = model.MatchLanguage(arg)
		}
		err = ctl.SetLanguage(ctx, lang)
	case "speak":
		err = ctl.ToggleSpeech(ctx)
	case "share":
		err = ctl.Share(ctx)
	case "chat":
		err = ctl.OpenChat(ctx)
	case "say":
		var reply string
		reply, err = ctl.SendChat(ctx, arg)
		if err == nil && reply != "" {
			fmt.Fprintf(c.out, "🧑‍🌾 %s\n", reply)
			return false
		}
	case "history":
		err = ctl.OpenHistory(ctx)
	case "open":
		err = c.openHistoryItem(arg)
	case "about":
		err = ctl.OpenAbout()
	case "back":
		ctl.Back()
	case "home":
		ctl.Home()
	case "status":
	default:
		fmt.Fprintf(c.out, "unknown command %q, type 'help'\n", cmd)
		return false
	}
	if err != nil {
		c.reportError(err)
	}
	c.render()
	return false
}

func (c *cli) selectImage(path string) error {
	if path == "" {
		return fmt.Errorf("usage: image <path>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.app.Screen.SelectImage(data, http.DetectContentType(data))
}

// openHistoryItem accepts a 1-based list position or an item ID.
func (c *cli) openHistoryItem(arg string) error {
	items := c.app.Screen.Snapshot().HistoryItems
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(items) {
		arg = items[n-1].ID
	}
	return c.app.Screen.OpenHistoryItem(arg)
}

// reportError prints errors that the snapshot does not already explain.
func (c *cli) reportError(err error) {
	switch {
	case errors.Is(err, screen.ErrNotAllowed):
		fmt.Fprintln(c.out, "that is not available on this screen")
	case errors.Is(err, screen.ErrMissingCrop), errors.Is(err, screen.ErrMissingImage),
		errors.Is(err, screen.ErrNotFound), errors.Is(err, screen.ErrSuperseded):
	case errx.KindOf(err) == errx.KindShare:
	case isClassified(err):
		logx.Debug().Err(err).Msg("command failed")
	default:
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
}

// isClassified reports whether err carries a kind; the snapshot already shows
// its localized message.
func isClassified(err error) bool {
	var e *errx.Error
	return errors.As(err, &e)
}

func (c *cli) render() {
	s := c.app.Screen.Snapshot()
	w := c.out
	fmt.Fprintf(w, "[%s · %s]\n", s.State, s.Language.Info().NativeName)

	switch s.State {
	case screen.Home:
		crop := "none"
		if s.Crop != nil {
			crop = s.Crop.Icon + " " + s.Crop.Name
		}
		photo := "none"
		if s.HasImage {
			photo = "selected"
		}
		fmt.Fprintf(w, "crop: %s | photo: %s\n", crop, photo)
	case screen.Results, screen.HistoryDetail:
		renderResult(w, s)
	case screen.Chat:
		for _, m := range s.Transcript {
			fmt.Fprintf(w, "  %s: %s\n", m.Role, m.Text)
		}
		fmt.Fprintln(w, "  (say <text> to ask, back to return)")
	case screen.History:
		if len(s.HistoryItems) == 0 {
			fmt.Fprintln(w, "  no past scans")
		}
		for i, it := range s.HistoryItems {
			fmt.Fprintf(w, "  %d. %s %s: %s (%s)\n", i+1, it.Crop.Icon, it.Crop.Name, it.Result.DiseaseName, it.Timestamp.Format("2006-01-02 15:04"))
		}
	case screen.About:
		fmt.Fprintln(w, "  LeafDoc photographs a crop leaf, diagnoses disease with Gemini and")
		fmt.Fprintln(w, "  explains remedies in your language. Diagnoses are advisory only.")
	}

	for _, msg := range []string{s.Error, s.Notice, s.ShareError, s.SpeechErr} {
		if msg != "" {
			fmt.Fprintf(w, "⚠️  %s\n", msg)
		}
	}
}

func renderResult(w io.Writer, s screen.Snapshot) {
	if s.Result == nil {
		return
	}
	r := s.Result
	if s.ResultCrop != nil {
		fmt.Fprintf(w, "%s %s\n", s.ResultCrop.Icon, s.ResultCrop.Name)
	}
	status := "diseased"
	if r.IsHealthy {
		status = "healthy"
	}
	fmt.Fprintf(w, "%s (%s, %d%%)\n", r.DiseaseName, status, r.ConfidenceScore)
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	}
	list := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "%s:\n", label)
		for _, it := range items {
			fmt.Fprintf(w, "  • %s\n", it)
		}
	}
	list("Symptoms", r.Symptoms)
	list("Chemical remedies", r.Remedies.Chemical)
	list("Organic remedies", r.Remedies.Organic)
	list("Prevention", r.Prevention)
	for _, l := range r.GroundingLinks {
		fmt.Fprintf(w, "  ↗ %s: %s\n", l.Title, l.URI)
	}
	if s.Reanalyzing {
		fmt.Fprintln(w, "⏳ translating diagnosis…")
	}
	fmt.Fprintf(w, "speech: %s\n", s.SpeechState)
}
