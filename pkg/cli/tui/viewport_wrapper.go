package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deal-notifier-go/pkg/cli/logger"
)

// ViewportWrapper wraps a flow with a header, a footer and the common keys
// (help overlay, back to menu, quit)
type ViewportWrapper struct {
	model    tea.Model
	viewport viewport.Model
	width    int
	height   int
	config   ViewportConfig

	showHelp    bool
	helpContent string
}

// ViewportConfig configures the wrapper behavior
type ViewportConfig struct {
	Title        string
	ShowHeader   bool
	ShowFooter   bool
	HeaderHeight int  // 0 = auto
	FooterHeight int  // 0 = auto
	UseViewport  bool // scroll the whole flow view
	MinWidth     int
	MinHeight    int
	EnableHelp   bool // '?' toggles help
	EnableMenu   bool // 'm' returns to the menu
	HelpContent  func() string
	OnMenu       func() tea.Cmd // defaults to emitting MenuNavigationMsg
}

// inputCapturer is implemented by flows that own a focused text input. While
// it reports true every key goes to the flow.
type inputCapturer interface {
	CapturingInput() bool
}

// closer is implemented by flows holding resources that must be released
// when the user leaves them
type closer interface {
	Close()
}

// NewViewportWrapper creates a new wrapper around a model
func NewViewportWrapper(model tea.Model, config ViewportConfig) *ViewportWrapper {
	return &ViewportWrapper{
		model:    model,
		viewport: viewport.New(0, 0),
		config:   config,
		width:    80,
		height:   24,
	}
}

func (w *ViewportWrapper) Init() tea.Cmd {
	if w.model == nil {
		return nil
	}
	return w.model.Init()
}

// Close releases the wrapped flow
func (w *ViewportWrapper) Close() {
	if c, ok := w.model.(closer); ok {
		c.Close()
	}
}

// CapturingInput reports whether the wrapped flow is capturing keys
func (w *ViewportWrapper) CapturingInput() bool {
	c, ok := w.model.(inputCapturer)
	return ok && c.CapturingInput()
}

func (w *ViewportWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = size.Width
		w.height = size.Height
		if w.config.MinWidth > 0 && w.width < w.config.MinWidth {
			w.width = w.config.MinWidth
		}
		if w.config.MinHeight > 0 && w.height < w.config.MinHeight {
			w.height = w.config.MinHeight
		}
		w.calculateLayout()
		logger.Log("ViewportWrapper %q: resized to %dx%d", w.config.Title, w.width, w.height)

		var vpCmd tea.Cmd
		if w.config.UseViewport {
			w.viewport, vpCmd = w.viewport.Update(size)
		}
		return w, tea.Batch(vpCmd, w.forward(size))
	}

	// A delegating root or a flow with a focused input gets every key.
	if w.isDelegatingToWrappedModel() || w.CapturingInput() {
		return w, w.forward(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if w.showHelp {
			switch keyMsg.String() {
			case "?", "esc", "q":
				w.showHelp = false
			case "ctrl+c":
				return w, tea.Quit
			}
			return w, nil
		}

		switch keyMsg.String() {
		case "?":
			if w.config.EnableHelp {
				w.showHelp = true
				if w.config.HelpContent != nil {
					w.helpContent = w.config.HelpContent()
				}
				return w, nil
			}
		case "m":
			if w.config.EnableMenu {
				if w.config.OnMenu != nil {
					return w, w.config.OnMenu()
				}
				return w, func() tea.Msg { return MenuNavigationMsg{} }
			}
		case "ctrl+c", "q":
			logger.Log("ViewportWrapper %q: quit key pressed", w.config.Title)
			return w, tea.Quit
		}
	}

	cmd := w.forward(msg)
	if w.config.UseViewport {
		var vpCmd tea.Cmd
		w.viewport, vpCmd = w.viewport.Update(msg)
		cmd = tea.Batch(cmd, vpCmd)
	}
	return w, cmd
}

func (w *ViewportWrapper) forward(msg tea.Msg) tea.Cmd {
	if w.model == nil {
		return nil
	}
	var cmd tea.Cmd
	w.model, cmd = w.model.Update(msg)
	return cmd
}

func (w *ViewportWrapper) View() string {
	if w.showHelp {
		return w.renderHelpOverlay()
	}

	content := ""
	if w.model != nil {
		content = w.model.View()
		// root with an active flow: the flow draws its own chrome
		if w.isDelegatingToWrappedModel() {
			return content
		}
	}

	if w.config.UseViewport {
		w.calculateLayout()
		w.viewport.SetContent(content)
		content = w.viewport.View()
	}

	var parts []string
	if w.config.ShowHeader {
		parts = append(parts, w.renderHeader())
	}
	parts = append(parts, content)
	if w.config.ShowFooter {
		parts = append(parts, w.renderFooter())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (w *ViewportWrapper) calculateLayout() {
	if w.width <= 0 {
		w.width = 80
	}
	if w.height <= 0 {
		w.height = 24
	}

	headerH := w.config.HeaderHeight
	if headerH == 0 && w.config.ShowHeader {
		headerH = 2
	}
	footerH := w.config.FooterHeight
	if footerH == 0 && w.config.ShowFooter {
		footerH = 1
	}

	contentH := w.height - headerH - footerH
	if contentH < 1 {
		contentH = 1
	}
	if w.config.UseViewport {
		w.viewport.Width = w.width
		w.viewport.Height = contentH
	}
}

func (w *ViewportWrapper) renderHeader() string {
	var b strings.Builder

	if w.config.Title != "" {
		b.WriteString(renderTitle(w.config.Title))
	}

	switch {
	case w.config.EnableMenu && w.config.EnableHelp:
		b.WriteString(helpStyle.Render("Press 'm' for menu, '?' for help") + "\n")
	case w.config.EnableHelp:
		b.WriteString(helpStyle.Render("Press '?' for help") + "\n")
	case w.config.EnableMenu:
		b.WriteString(helpStyle.Render("Press 'm' for menu") + "\n")
	}

	return b.String()
}

func (w *ViewportWrapper) renderFooter() string {
	shortcuts := []string{}
	if w.config.EnableHelp {
		shortcuts = append(shortcuts, "? help")
	}
	if w.config.EnableMenu {
		shortcuts = append(shortcuts, "m menu")
	}
	shortcuts = append(shortcuts, "q quit")

	return helpStyle.Render(strings.Join(shortcuts, " • "))
}

// isDelegatingToWrappedModel reports whether the wrapped model is the root
// menu with an active flow
func (w *ViewportWrapper) isDelegatingToWrappedModel() bool {
	if root, ok := w.model.(*rootModel); ok {
		return root.IsDelegating()
	}
	return false
}

func (w *ViewportWrapper) renderHelpOverlay() string {
	helpText := w.helpContent
	if helpText == "" {
		helpText = "No help available"
	}

	overlayStyle := lipgloss.NewStyle().
		Width(w.width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"),
		"",
		helpText,
		CommonHelpContent(),
		helpStyle.Render("Press '?' or Esc to close"),
	))
}
