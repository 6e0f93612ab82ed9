package tui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"
	"golang.org/x/term"

	"riddlebox/pkg/engine/input"
	"riddlebox/pkg/engine/terminal"
	"riddlebox/pkg/game/admin"
	"riddlebox/pkg/game/renderer"
	"riddlebox/pkg/game/stages"
	"riddlebox/pkg/game/state"
)

const (
	IconPinFilled = "●"
	IconPinEmpty  = "○"
	IconSolved    = "✔"
	IconRule      = '─'
	FillMask      = '_'
)

// dynamicGet is used for runtime translation key lookups.
// We use a function variable to avoid go vet's non-constant format string check,
// since we intentionally look up translation keys dynamically from markup.
var dynamicGet = gotext.Get

// TUIRenderer is the terminal-based renderer implementation
type TUIRenderer struct {
	out         io.Writer
	width       int
	interactive bool

	colorTitle       color.Style
	colorRiddle      color.Style
	colorAction      color.Style
	colorActionShort color.Style
	colorDenied      color.Style
	colorSuccess     color.Style
	colorHint        color.Style
	colorSubtle      color.Style
	colorDisabled    color.Style

	regexpStringFunctions *regexp.Regexp
}

// New creates a TUI renderer on stdout
func New() *TUIRenderer {
	return &TUIRenderer{
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// NewWithWriter creates a TUI renderer that writes to w with a fixed layout
// width. It never clears the screen.
func NewWithWriter(w io.Writer, width int) *TUIRenderer {
	return &TUIRenderer{out: w, width: width}
}

// Init initializes the TUI renderer (colors, etc.)
func (t *TUIRenderer) Init() {
	t.colorTitle = color.Style{color.FgWhite, color.OpBold}
	t.colorRiddle = color.Style{color.FgBlue}
	t.colorAction = color.Style{color.FgMagenta}
	t.colorActionShort = color.Style{color.FgMagenta, color.OpBold}
	t.colorDenied = color.Style{color.FgRed, color.OpBold}
	t.colorSuccess = color.Style{color.FgGreen, color.OpBold}
	t.colorHint = color.Style{color.FgYellow}
	t.colorSubtle = color.Style{color.FgGray, color.OpBold}
	t.colorDisabled = color.Style{color.FgGray, color.OpStrikethrough}

	t.regexpStringFunctions = regexp.MustCompile(`([A-Z_]+){([^{}]+)}`)
}

// Clear clears the terminal screen
func (t *TUIRenderer) Clear() {
	if !t.interactive {
		return
	}
	c := exec.Command("clear")
	c.Stdout = t.out
	c.Run()
}

// StyleText applies a style to text
func (t *TUIRenderer) StyleText(text string, style renderer.TextStyle) string {
	switch style {
	case renderer.StyleTitle:
		return t.colorTitle.Sprint(text)
	case renderer.StyleRiddle:
		return t.colorRiddle.Sprint(text)
	case renderer.StyleAction:
		return t.colorAction.Sprint(text)
	case renderer.StyleActionShort:
		return t.colorActionShort.Sprint(text)
	case renderer.StyleDenied:
		return t.colorDenied.Sprint(text)
	case renderer.StyleSuccess:
		return t.colorSuccess.Sprint(text)
	case renderer.StyleHint:
		return t.colorHint.Sprint(text)
	case renderer.StyleSubtle:
		return t.colorSubtle.Sprint(text)
	default:
		return text
	}
}

// FormatText formats a message with the markup system
func (t *TUIRenderer) FormatText(msg string, args ...any) string {
	ret := fmt.Sprintf(msg, args...)

	matches := t.regexpStringFunctions.FindAllStringSubmatch(ret, -1)

	for _, match := range matches {
		function := match[1]
		operand := match[2]

		var val string

		switch function {
		case "GT":
			val = dynamicGet(operand)
		case "KEY":
			val = t.colorActionShort.Sprint(operand)
		case "ACTION":
			val = t.colorAction.Sprint(dynamicGet(operand))
		case "HINT":
			val = t.colorHint.Sprint(operand)
		case "DENIED":
			val = t.colorDenied.Sprint(operand)
		case "OK":
			val = t.colorSuccess.Sprint(operand)
		default:
			ret = fmt.Sprintf("ERROR, function not found: %v -> %v", function, operand)
		}

		ret = strings.Replace(ret, match[0], val, -1)
	}

	return ret
}

// ShowMessage displays a message to the user
func (t *TUIRenderer) ShowMessage(msg string) {
	fmt.Fprintln(t.out, msg)
}

// PrintPrompt writes the input prompt without a newline.
func (t *TUIRenderer) PrintPrompt() {
	fmt.Fprint(t.out, t.colorActionShort.Sprint("> "))
}

// RenderFrame renders the current stage of a riddle
func (t *TUIRenderer) RenderFrame(f renderer.Frame) {
	t.Clear()
	w := t.layoutWidth()

	header := fmt.Sprintf("%s · %s · %s", f.Riddle,
		gotext.Get("Stage %d of %d", f.Stage+1, f.Total), f.Label)
	t.println(t.colorSubtle.Sprint(terminal.Rule(IconRule, w)))
	t.println(t.colorRiddle.Sprint(terminal.Center(header, w)))
	t.println(t.colorSubtle.Sprint(terminal.Rule(IconRule, w)))
	t.println("")

	if f.Current == nil {
		return
	}

	t.println(t.colorTitle.Sprint(terminal.Center(f.Current.Title(), w)))
	t.println("")
	for _, line := range terminal.Wrap(f.Current.Prompt(), w) {
		t.println(line)
	}
	t.println("")

	t.renderStage(f)
	t.renderHint(f.Hint)

	if f.Message != "" {
		t.println("")
		if f.Wrong {
			t.println(t.colorDenied.Sprint(f.Message))
		} else {
			t.println(t.colorSuccess.Sprint(f.Message))
		}
	}

	t.println("")
	t.printPossibleActions(f)
}

func (t *TUIRenderer) renderStage(f renderer.Frame) {
	switch st := f.Current.(type) {
	case stages.Welcome:
		t.printButton(st.Button)
	case stages.Continue:
		t.printButton(st.Button)
	case stages.Congrats:
		t.println(t.colorSuccess.Sprint(terminal.Center(IconSolved+" "+gotext.Get("Completed"), t.layoutWidth())))
	}

	switch {
	case f.Pin != nil:
		cells := make([]string, f.Pin.Size())
		for i := range cells {
			if i < f.Pin.Len() {
				cells[i] = IconPinFilled
			} else {
				cells[i] = IconPinEmpty
			}
		}
		t.println(t.colorActionShort.Sprint(terminal.Center(strings.Join(cells, " "), t.layoutWidth())))
	case f.Choice != nil:
		solved, _ := f.Choice.Solved()
		for i, c := range f.Choice.Choices() {
			line := fmt.Sprintf("%2d) %s", i+1, c.Label)
			switch {
			case f.Choice.Disabled(i):
				line = t.colorDisabled.Sprint(line)
			case c.Correct && c.Label == solved.Label:
				line = t.colorSuccess.Sprint(line + " " + IconSolved)
			}
			t.println(line)
		}
	case f.Fill != nil:
		for _, line := range f.Fill.Render(FillMask) {
			t.println(line)
		}
		done, total := f.Fill.Progress()
		t.println(t.colorSubtle.Sprint(gotext.Get("%d of %d words", done, total)))
	}
}

func (t *TUIRenderer) renderHint(h *stages.HintTimer) {
	if h == nil {
		return
	}
	t.println("")
	switch {
	case h.Shown():
		text, _ := h.Reveal()
		t.println(t.colorHint.Sprint(gotext.Get("Hint: %s", text)))
	case h.Ready():
		t.println(t.FormatText("HINT{%s} KEY{%s}", gotext.Get("A hint is ready. Type"), firstBinding(input.ActionHint)))
	default:
		t.println(t.colorSubtle.Sprint(gotext.Get("Hint available in %ds", h.Remaining())))
	}
}

func (t *TUIRenderer) printButton(label string) {
	t.println(t.FormatText("KEY{[enter]} %s", t.colorAction.Sprint(label)))
}

// printPossibleActions lists the bound commands.
func (t *TUIRenderer) printPossibleActions(f renderer.Frame) {
	var parts []string
	if f.Hint != nil {
		parts = append(parts, t.action(input.ActionHint))
	}
	parts = append(parts, t.action(input.ActionStatus), t.action(input.ActionQuit))
	t.println(t.colorSubtle.Sprint("· ") + strings.Join(parts, t.colorSubtle.Sprint(" · ")))
}

func (t *TUIRenderer) action(a input.Action) string {
	return t.colorActionShort.Sprint(firstBinding(a)) + " " + t.colorAction.Sprint(dynamicGet(input.ActionName(a)))
}

// RenderStatus renders the progress of every riddle as a table
func (t *TUIRenderer) RenderStatus(rows []admin.Row) {
	headers := []string{gotext.Get("Riddle"), gotext.Get("Status"), gotext.Get("Progress"), gotext.Get("Stage")}
	cells := make([][]string, len(rows))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for r, row := range rows {
		cells[r] = []string{row.Riddle.DisplayName(), row.Status.String(), row.Position(), row.Label}
		for i, c := range cells[r] {
			widths[i] = max(widths[i], utf8.RuneCountInString(c))
		}
	}

	t.println(t.colorTitle.Sprint(pad(headers, widths)))
	total := 2 * (len(widths) - 1)
	for _, n := range widths {
		total += n
	}
	t.println(t.colorSubtle.Sprint(terminal.Rule(IconRule, total)))
	for r, row := range rows {
		line := pad(cells[r], widths)
		switch row.Status {
		case admin.Completed:
			line = t.colorSuccess.Sprint(line)
		case admin.InProgress:
			line = t.colorHint.Sprint(line)
		}
		t.println(line)
	}
}

// RenderSettings renders the admin flags
func (t *TUIRenderer) RenderSettings(s state.AdminSettings) {
	t.println(t.FormatText("ACTION{PIN bypass on localhost}: %s", t.onOff(s.BypassPinOnLocalhost)))
	t.println(t.FormatText("ACTION{Dev tools}: %s", t.onOff(s.DevToolsEnabled)))
}

func (t *TUIRenderer) onOff(on bool) string {
	if on {
		return t.colorSuccess.Sprint(gotext.Get("on"))
	}
	return t.colorDenied.Sprint(gotext.Get("off"))
}

func (t *TUIRenderer) layoutWidth() int {
	if t.width > 0 {
		return t.width
	}
	return terminal.LayoutWidth()
}

func (t *TUIRenderer) println(s string) {
	fmt.Fprintln(t.out, s)
}

// firstBinding returns the shortest code bound to a.
func firstBinding(a input.Action) string {
	codes := input.GetBindingsByAction()[a]
	if len(codes) == 0 {
		return ""
	}
	best := codes[0]
	for _, c := range codes[1:] {
		if len(c) < len(best) {
			best = c
		}
	}
	return best
}

// pad left-aligns each cell to its column width, two spaces apart.
func pad(cells []string, widths []int) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(c)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)))
		}
	}
	return b.String()
}

var _ renderer.Renderer = (*TUIRenderer)(nil)
