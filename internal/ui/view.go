package ui

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"integribot/internal/meter"
	"integribot/internal/telemetry"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/x/ansi"
)

type applyMsg struct {
	fn func(*Root)
}

type animateMsg time.Time

type flashMsg string

type keyMap struct {
	Generate    key.Binding
	Again       key.Binding
	Submit      key.Binding
	Save        key.Binding
	Leaderboard key.Binding
	Close       key.Binding
	Clear       key.Binding
	Roles       key.Binding
	Copy        key.Binding
	Quit        key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Again, k.Submit, k.Save, k.Leaderboard, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.Again, k.Submit, k.Save},
		{k.Leaderboard, k.Close, k.Clear, k.Roles, k.Copy, k.Quit},
	}
}

func newKeyMap(enableAgain, enableSave bool) keyMap {
	k := keyMap{
		Generate:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("^G", "Scenario")),
		Again:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^R", "Again")),
		Submit:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^S", "Submit")),
		Save:        key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("^P", "Save")),
		Leaderboard: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^L", "Leaderboard")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Close board")),
		Clear:       key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("^X", "Clear")),
		Roles:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^O", "Suggest role")),
		Copy:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^Y", "Copy scenario")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("^Q", "Quit")),
	}
	k.Again.SetEnabled(enableAgain)
	k.Save.SetEnabled(enableSave)
	return k
}

// Root is the bubbletea model behind the IntegriBot screen. Controller
// goroutines read the form and meter label, so those sit behind formMu;
// every other field is only touched on the program loop.
type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string

	mu      sync.Mutex
	program *tea.Program
	running bool

	layout LayoutMode
	cols   int
	rows   int

	formMu  sync.Mutex
	form    Form
	reading meter.Reading

	focus       Field
	suggestions []string
	suggestIdx  int

	greeting string
	scenario string
	feedback string
	criteria string
	panels   Panels
	board    []LeaderboardRow

	loadingVisible bool
	loadingText    string
	alerts         []string
	statusFlash    string
	scroll         int

	help     help.Model
	keymap   keyMap
	meterBar progress.Model
	spin     spinner.Model
	logger   *telemetry.Logger

	markdownOn    bool
	markdownWidth int
	markdown      *glamour.TermRenderer

	overlayPos float64
	overlayVel float64
	spring     harmonica.Spring

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
	EnableAgain  bool
	EnableSave   bool
	Markdown     bool
	Logger       *telemetry.Logger
}

func New(opts Options) *Root {
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.Discard()
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8)
	if motionLevel == "reduced" {
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	}
	meterBar := progress.New(
		progress.WithWidth(20),
		progress.WithColors(lipgloss.Color("#FF6F91"), lipgloss.Color("#FFC857"), lipgloss.Color("#67F0A8")),
		progress.WithScaled(true),
	)
	if motionLevel == "off" {
		meterBar.SetSpringOptions(1000.0, 1.0)
	}
	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)

	return &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		markdownOn:   opts.Markdown,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		layout:       LayoutWide,
		cols:         120,
		rows:         30,
		reading:      meter.Render(0),
		help:         h,
		keymap:       newKeyMap(opts.EnableAgain, opts.EnableSave),
		meterBar:     meterBar,
		spin:         spin,
		logger:       logger,
		spring:       spring,
	}
}

func (r *Root) Init() tea.Cmd {
	return spinnerTickCmd(r.spin)
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case flashMsg:
		r.statusFlash = string(msg)
		return r, nil
	case animateMsg:
		target := r.overlayTarget()
		r.overlayPos, r.overlayVel = r.spring.Update(r.overlayPos, r.overlayVel, target)
		if r.shouldAnimate(target) {
			return r, animateTickCmd()
		}
		r.overlayPos = target
		r.overlayVel = 0
		return r, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.spin, cmd = r.spin.Update(msg)
		return r, cmd
	case tea.PasteMsg:
		return r.handlePaste(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()
	v := tea.NewView(r.render())
	v.AltScreen = true
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) Form() Form {
	r.formMu.Lock()
	defer r.formMu.Unlock()
	return r.form
}

func (r *Root) SetForm(f Form) {
	r.apply(func(m *Root) {
		m.formMu.Lock()
		m.form = f
		m.formMu.Unlock()
	})
}

func (r *Root) SetResponseText(text string) {
	r.apply(func(m *Root) {
		m.formMu.Lock()
		m.form.Response = text
		m.formMu.Unlock()
	})
}

func (r *Root) SetRoleSuggestions(roles []string) {
	cp := append([]string(nil), roles...)
	r.apply(func(m *Root) {
		m.suggestions = cp
		m.suggestIdx = -1
	})
}

func (r *Root) SetGreeting(text string) {
	r.apply(func(m *Root) { m.greeting = text })
}

func (r *Root) SetScenarioText(text string) {
	r.apply(func(m *Root) { m.scenario = text })
}

func (r *Root) SetFeedback(text string) {
	r.apply(func(m *Root) { m.feedback = text })
}

func (r *Root) SetCriteria(text string) {
	r.apply(func(m *Root) { m.criteria = text })
}

func (r *Root) SetMeter(reading meter.Reading) {
	r.apply(func(m *Root) {
		m.formMu.Lock()
		m.reading = reading
		m.formMu.Unlock()
	})
}

// MeterLabel returns the label as currently displayed.
func (r *Root) MeterLabel() string {
	r.formMu.Lock()
	defer r.formMu.Unlock()
	return r.reading.Label
}

func (r *Root) SetPanels(p Panels) {
	r.apply(func(m *Root) { m.panels = p })
}

func (r *Root) SetLeaderboard(rows []LeaderboardRow) {
	cp := append([]LeaderboardRow(nil), rows...)
	r.apply(func(m *Root) { m.board = cp })
}

// SetLoading shows or hides the quote overlay. It never calls back into the
// controller.
func (r *Root) SetLoading(visible bool, text string) {
	r.apply(func(m *Root) {
		m.loadingVisible = visible
		m.loadingText = text
		if m.motionLevel == "off" {
			m.overlayPos = m.overlayTarget()
			m.overlayVel = 0
		}
	})
}

func (r *Root) Alert(msg string) {
	r.apply(func(m *Root) { m.alerts = append(m.alerts, msg) })
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) { m.statusFlash = msg })
}

func (r *Root) ScrollToTop() {
	r.apply(func(m *Root) { m.scroll = 0 })
}

func (r *Root) FocusName() {
	r.apply(func(m *Root) { m.focus = FieldName })
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, r.keymap.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}

	if len(r.alerts) > 0 {
		switch msg.Code {
		case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
			r.alerts = r.alerts[1:]
		}
		return r, nil
	}

	switch {
	case key.Matches(msg, r.keymap.Generate):
		r.dispatchController(func(c Controller) { c.OnGenerate() })
		return r, nil
	case key.Matches(msg, r.keymap.Again):
		r.dispatchController(func(c Controller) { c.OnGenerateAgain() })
		return r, nil
	case key.Matches(msg, r.keymap.Submit):
		r.dispatchController(func(c Controller) { c.OnSubmit() })
		return r, nil
	case key.Matches(msg, r.keymap.Save):
		r.dispatchController(func(c Controller) { c.OnSave() })
		return r, nil
	case key.Matches(msg, r.keymap.Leaderboard):
		r.dispatchController(func(c Controller) { c.OnOpenLeaderboard() })
		return r, nil
	case key.Matches(msg, r.keymap.Close):
		r.dispatchController(func(c Controller) { c.OnCloseLeaderboard() })
		return r, nil
	case key.Matches(msg, r.keymap.Clear):
		r.dispatchController(func(c Controller) { c.OnClear() })
		return r, nil
	case key.Matches(msg, r.keymap.Roles):
		r.suggestRole()
		return r, nil
	case key.Matches(msg, r.keymap.Copy):
		return r, copyCmd(r.scenario)
	}

	switch msg.Code {
	case tea.KeyTab:
		if msg.Mod&tea.ModShift != 0 {
			r.focus = Field(wrapIndex(int(r.focus)-1, int(fieldCount)))
		} else {
			r.focus = Field(wrapIndex(int(r.focus)+1, int(fieldCount)))
		}
		return r, nil
	case tea.KeyPgUp:
		r.scroll = max(0, r.scroll-5)
		return r, nil
	case tea.KeyPgDown:
		r.scroll += 5
		return r, nil
	}

	r.editField(msg)
	return r, nil
}

func (r *Root) editField(msg tea.KeyPressMsg) {
	r.formMu.Lock()
	defer r.formMu.Unlock()

	if r.focus == FieldConsent {
		if msg.Code == tea.KeySpace || msg.Code == tea.KeyEnter {
			r.form.Consent = !r.form.Consent
		}
		return
	}
	target := r.focusedText()
	if target == nil {
		return
	}
	switch {
	case msg.Code == tea.KeyBackspace:
		if runes := []rune(*target); len(runes) > 0 {
			*target = string(runes[:len(runes)-1])
		}
	case msg.Code == tea.KeyEnter:
		if r.focus == FieldResponse {
			*target += "\n"
		} else {
			r.focus = Field(wrapIndex(int(r.focus)+1, int(fieldCount)))
		}
	case msg.Mod&(tea.ModCtrl|tea.ModAlt) != 0:
	case msg.Text != "":
		*target += msg.Text
	}
}

// focusedText must be called with formMu held.
func (r *Root) focusedText() *string {
	switch r.focus {
	case FieldName:
		return &r.form.Name
	case FieldRole:
		return &r.form.Role
	case FieldResponse:
		return &r.form.Response
	default:
		return nil
	}
}

func (r *Root) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("paste:%d", len(msg.Content)))
	if len(r.alerts) > 0 || msg.Content == "" {
		return r, nil
	}
	r.formMu.Lock()
	defer r.formMu.Unlock()
	target := r.focusedText()
	if target == nil {
		return r, nil
	}
	content := msg.Content
	if r.focus != FieldResponse {
		content = strings.Join(strings.Fields(content), " ")
	}
	*target += content
	return r, nil
}

func (r *Root) suggestRole() {
	if len(r.suggestions) == 0 {
		return
	}
	r.formMu.Lock()
	defer r.formMu.Unlock()
	role, idx := nextSuggestion(r.form.Role, r.suggestions, r.suggestIdx)
	r.form.Role = role
	r.suggestIdx = idx
	r.focus = FieldRole
}

// nextSuggestion picks the role after idx. While the typed text is not
// itself a suggestion it narrows the candidates to case-insensitive
// prefix matches.
func nextSuggestion(current string, list []string, idx int) (string, int) {
	if len(list) == 0 {
		return current, idx
	}
	prefix := strings.ToLower(strings.TrimSpace(current))
	for _, s := range list {
		if strings.EqualFold(s, current) {
			prefix = ""
			break
		}
	}
	for step := 1; step <= len(list); step++ {
		i := wrapIndex(idx+step, len(list))
		if prefix == "" || strings.HasPrefix(strings.ToLower(list[i]), prefix) {
			return list[i], i
		}
	}
	return current, idx
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return flashMsg("No scenario to copy")
		}
		if err := clipboard.WriteAll(text); err != nil {
			return flashMsg("Copy failed: " + err.Error())
		}
		return flashMsg("Scenario copied")
	}
}

func (r *Root) render() string {
	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}
	w, h := r.cols, r.rows
	mode := DetermineLayoutMode(w, h)
	r.layout = mode

	if mode == LayoutTooSmall {
		msg := []string{
			"Terminal too small",
			fmt.Sprintf("Current: %dx%d", w, h),
			"Minimum: 60x20",
			"Resize the terminal to continue.",
		}
		panel := r.drawPanel("Resize Required", msg, min(50, w), min(8, h))
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, panel)
	}

	bodyH := max(3, h-2)
	var body []string
	if mode == LayoutWide {
		formW := min(48, w/3)
		contentW := w - formW
		left := strings.Split(r.formPanel(formW), "\n")
		right := r.contentLines(contentW)
		body = joinColumns(left, right, formW)
	} else {
		body = append(strings.Split(r.formPanel(w), "\n"), r.contentLines(w)...)
	}
	body = r.window(body, bodyH)

	base := r.headerText() + "\n" + strings.Join(body, "\n") + "\n" + r.statusText()
	if r.loadingVisible || r.overlayPos > 0.01 {
		base = r.composeLoading(base)
	}
	if len(r.alerts) > 0 {
		lines := strings.Split(r.alerts[0], "\n")
		lines = append(lines, "", "Enter: OK")
		panel := r.drawPanel("IntegriBot", lines, min(max(40, ansi.StringWidth(r.alerts[0])+4), w), len(lines)+2)
		base = composeOverlay(base, panel, w, h)
	}
	return base
}

func (r *Root) window(lines []string, height int) []string {
	maxScroll := max(0, len(lines)-height)
	if r.scroll > maxScroll {
		r.scroll = maxScroll
	}
	lines = lines[r.scroll:]
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func (r *Root) formPanel(width int) string {
	form := r.Form()
	innerW := max(1, width-2)
	field := func(f Field, label, value string) string {
		prefix := "  "
		if r.focus == f {
			prefix = "> "
			value += "_"
		}
		return prefix + label + r.theme.Field.Render(trimForWidth(value, max(1, innerW-len(prefix)-len(label))))
	}
	check := "[ ]"
	if form.Consent {
		check = "[x]"
	}
	consent := "  "
	if r.focus == FieldConsent {
		consent = "> "
	}
	lines := []string{
		field(FieldName, "Name: ", form.Name),
		field(FieldRole, "Role: ", form.Role),
		consent + check + " Show me on the leaderboard",
		"",
	}
	respPrefix := "  "
	if r.focus == FieldResponse {
		respPrefix = "> "
	}
	lines = append(lines, respPrefix+"Your response:")
	resp := form.Response
	if r.focus == FieldResponse {
		resp += "_"
	}
	for _, l := range wrapLines(resp, innerW-2) {
		lines = append(lines, "  "+l)
	}
	if len(r.suggestions) > 0 {
		lines = append(lines, "", r.theme.Muted.Render(fmt.Sprintf("^O cycles %d known roles", len(r.suggestions))))
	}
	return r.drawPanel("Your details", lines, width, len(lines)+2)
}

func (r *Root) contentLines(width int) []string {
	var out []string
	if r.greeting != "" {
		out = append(out, r.theme.Accent.Render(trimForWidth(r.greeting, width)))
	}
	if r.panels.Has(PanelScenario) {
		lines := r.scenarioLines(width - 2)
		out = append(out, strings.Split(r.drawPanel("Scenario", lines, width, len(lines)+2), "\n")...)
	}
	if r.panels.Has(PanelResult) {
		lines := r.resultLines(width - 2)
		out = append(out, strings.Split(r.drawPanel("Result", lines, width, len(lines)+2), "\n")...)
	}
	if r.panels.Has(PanelLeaderboard) {
		lines := r.leaderboardLines(width - 2)
		out = append(out, strings.Split(r.drawPanel("Leaderboard", lines, width, len(lines)+2), "\n")...)
	}
	if len(out) == 0 {
		out = append(out, r.theme.Muted.Render("Enter your name and role, then press ^G for a scenario."))
	}
	return out
}

func (r *Root) scenarioLines(width int) []string {
	width = max(10, width)
	if !r.markdownOn || r.ascii {
		return wrapLines(r.scenario, width)
	}
	if r.markdown == nil || r.markdownWidth != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width-2),
		)
		if err != nil {
			renderer = nil
		}
		r.markdown = renderer
		r.markdownWidth = width
	}
	if r.markdown != nil {
		if out, err := r.markdown.Render(r.scenario); err == nil {
			return trimBlankLines(strings.Split(out, "\n"))
		}
	}
	return wrapLines(r.scenario, width)
}

func (r *Root) resultLines(width int) []string {
	r.formMu.Lock()
	reading := r.reading
	r.formMu.Unlock()

	barW := max(8, width-len(reading.Label)-2)
	m := r.meterBar
	m.SetWidth(barW)
	lines := []string{m.ViewAs(reading.Percent/100) + "  " + r.theme.ScoreStyle(reading.Value).Render(reading.Label), ""}
	lines = append(lines, wrapLines(r.feedback, width)...)
	if r.criteria != "" {
		lines = append(lines, "", r.theme.Muted.Render(trimForWidth(r.criteria, width)))
	}
	return lines
}

func (r *Root) leaderboardLines(width int) []string {
	if len(r.board) == 0 {
		return []string{r.theme.Muted.Render("No scores yet.")}
	}
	lines := make([]string, 0, len(r.board))
	for _, row := range r.board {
		left := fmt.Sprintf("%2d. %s", row.Rank, row.Name)
		if row.Role != "" {
			left += "  " + r.theme.Muted.Render(row.Role)
		}
		score := r.theme.Accent.Render(row.Score)
		gap := max(1, width-ansi.StringWidth(left)-ansi.StringWidth(score))
		lines = append(lines, left+strings.Repeat(" ", gap)+score)
	}
	return lines
}

func (r *Root) composeLoading(base string) string {
	w := min(max(40, r.cols-20), r.cols)
	var panel string
	if r.ascii {
		lines := wrapLines(r.loadingText, w-4)
		lines = append([]string{strings.TrimSpace(r.spin.View()) + " Working..."}, lines...)
		panel = r.drawPanel("Please wait", lines, w, len(lines)+2)
	} else {
		// Overlay adds a border and two cells of padding on each side.
		body := []string{r.theme.OverlayTitle.Render(strings.TrimSpace(r.spin.View()) + " Please wait"), ""}
		body = append(body, wrapLines(r.loadingText, w-8)...)
		panel = r.theme.Overlay.Render(strings.Join(body, "\n"))
	}
	pw := lipgloss.Width(panel)
	h := lipgloss.Height(panel)
	rest := (r.rows - h) / 2
	pos := r.overlayPos
	if r.loadingVisible && r.motionLevel == "off" {
		pos = 1
	}
	startRow := int(float64(rest) * pos)
	return composeOverlayAt(base, panel, r.cols, r.rows, startRow, max(0, (r.cols-pw)/2))
}

func (r *Root) headerText() string {
	width := max(1, r.cols-1)
	txt := "IntegriBot | Integrity practice"
	if r.debug {
		txt = fmt.Sprintf("%s | %dx%d layout=%d panels=%s", txt, r.cols, r.rows, r.layout, r.panels)
	}
	return r.theme.Header.Width(max(1, r.cols)).Render(trimForWidth(txt, width))
}

func (r *Root) statusText() string {
	keys := r.help.View(r.keymap)
	if keys == "" {
		keys = "^G Scenario  ^S Submit  ^L Leaderboard  ^X Clear  ^Q Quit"
	}
	if r.loadingVisible {
		keys += " | " + r.theme.Accent.Render(strings.TrimSpace(r.spin.View())+" Loading...")
	}
	if r.statusFlash != "" {
		keys += " | " + r.theme.Info.Render(r.statusFlash)
	}
	keys = trimForWidth(keys, max(1, r.cols-1))
	return r.theme.Status.Width(max(1, r.cols)).Render(keys)
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := r.theme.PanelBorder.Render(tl + strings.Repeat(h, innerW) + tr)
	if t := " " + title + " "; title != "" && ansi.StringWidth(t) < innerW {
		top = r.theme.PanelBorder.Render(tl+h) +
			r.theme.PanelTitle.Render(t) +
			r.theme.PanelBorder.Render(strings.Repeat(h, innerW-1-ansi.StringWidth(t))+tr)
	}

	out := make([]string, 0, height)
	out = append(out, top)
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		line = padCells(line, innerW)
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(line)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func (r *Root) overlayTarget() float64 {
	if r.loadingVisible {
		return 1
	}
	return 0
}

func (r *Root) animateIfNeeded() tea.Cmd {
	if r.shouldAnimate(r.overlayTarget()) {
		return animateTickCmd()
	}
	return nil
}

func (r *Root) shouldAnimate(target float64) bool {
	if r.motionLevel == "off" {
		return false
	}
	if target > 0 {
		return r.overlayPos < 0.999 || abs(r.overlayVel) > 0.001
	}
	return r.overlayPos > 0.001 || abs(r.overlayVel) > 0.001
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func joinColumns(left, right []string, leftW int) []string {
	n := max(len(left), len(right))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		l, rr := "", ""
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			rr = right[i]
		}
		out[i] = padCells(l, leftW) + rr
	}
	return out
}

func wrapLines(s string, width int) []string {
	if s == "" {
		return nil
	}
	width = max(1, width)
	var out []string
	for _, para := range strings.Split(s, "\n") {
		wrapped := ansi.Wrap(para, width, "")
		out = append(out, strings.Split(wrapped, "\n")...)
	}
	return out
}

func trimBlankLines(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[0])) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[len(lines)-1])) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// padCells pads or truncates s to exactly width terminal cells, keeping
// any styling escapes intact.
func padCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", "    ")
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "")
	}
	if gap := width - ansi.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func composeOverlay(base, overlay string, cols, rows int) string {
	oh := len(strings.Split(strings.TrimRight(overlay, "\n"), "\n"))
	ow := 1
	for _, line := range strings.Split(ansi.Strip(overlay), "\n") {
		ow = max(ow, len([]rune(line)))
	}
	return composeOverlayAt(base, overlay, cols, rows, (rows-min(oh, rows))/2, max(0, (cols-min(ow, cols))/2))
}

func composeOverlayAt(base, overlay string, cols, rows, startRow, startCol int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	ow := 1
	for _, line := range overlayLines {
		ow = max(ow, len([]rune(line)))
	}
	ow = min(ow, cols)
	startRow = max(0, startRow)
	startCol = max(0, startCol)

	for i, line := range overlayLines {
		row := startRow + i
		if row >= rows {
			break
		}
		dst := []rune(baseLines[row])
		src := []rune(line)
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "cozy_clean", "retro_terminal", "modern_arcade":
		return strings.TrimSpace(v)
	default:
		return "modern_arcade"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered", map[string]any{
		"where":       where,
		"panic":       fmt.Sprintf("%v", recovered),
		"messageType": msgType,
		"layout":      r.layout,
		"cols":        r.cols,
		"rows":        r.rows,
		"panels":      r.panels.String(),
		"last_input":  r.lastInputEvent,
		"stack":       string(debug.Stack()),
	})
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
