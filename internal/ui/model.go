package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"derrclan.com/verse-sdk/internal/async"
	"derrclan.com/verse-sdk/internal/bible"
	"derrclan.com/verse-sdk/internal/csvsource"
	"derrclan.com/verse-sdk/internal/normalize"
	"derrclan.com/verse-sdk/internal/userinfo"
	"derrclan.com/verse-sdk/internal/votd"
)

const profileTimeout = 2 * time.Minute

type viewMode int

const (
	modeVerse viewMode = iota
	modeLogin
)

var (
	referenceStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	verseStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Width(72)
	translationStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#a6adc8"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	greetingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	cardStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#45475a")).
				Padding(1, 2)
)

// Model renders the verse card and login form.
type Model struct {
	client        *bible.Client
	translationID int

	spinner spinner.Model
	inputs  []textinput.Model
	focus   int

	mode     viewMode
	loading  bool
	verse    *votd.Display
	errText  string
	greeting string
}

type verseLoadedMsg struct{ result async.Result[*votd.Display] }
type csvLoadedMsg struct{ result async.Result[*csvsource.VerseResponse] }
type loginMsg struct{ result async.Result[*userinfo.UserProfile] }
type profileMsg struct{ profile *userinfo.UserProfile }

// NewModel returns a Model that loads translationID on start.
func NewModel(client *bible.Client, translationID int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	user := textinput.New()
	user.Placeholder = "Email"
	user.CharLimit = 254
	user.Width = 40

	pass := textinput.New()
	pass.Placeholder = "Password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128
	pass.Width = 40

	return Model{
		client:        client,
		translationID: translationID,
		spinner:       s,
		inputs:        []textinput.Model{user, pass},
		loading:       true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadVerseOfDay(m.client, m.translationID),
		checkAuthentication(m.client),
	)
}

func loadVerseOfDay(client *bible.Client, translationID int) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan async.Result[*votd.Display], 1)
		client.LoadVerseOfDay(context.Background(), translationID, func(r async.Result[*votd.Display]) { ch <- r })
		return verseLoadedMsg{<-ch}
	}
}

func loadCSVVerse(client *bible.Client) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan async.Result[*csvsource.VerseResponse], 1)
		client.LoadVerse(context.Background(), "", func(r async.Result[*csvsource.VerseResponse]) { ch <- r })
		return csvLoadedMsg{<-ch}
	}
}

func login(client *bible.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan async.Result[*userinfo.UserProfile], 1)
		client.Login(context.Background(), username, password, func(r async.Result[*userinfo.UserProfile]) { ch <- r })
		return loginMsg{<-ch}
	}
}

func checkAuthentication(client *bible.Client) tea.Cmd {
	if !client.IsAuthenticated() {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), profileTimeout)
		defer cancel()

		// The callback only runs on success; failures are logged by the client.
		ch := make(chan *userinfo.UserProfile, 1)
		client.CheckAuthenticationStatus(ctx, func(p *userinfo.UserProfile) { ch <- p })
		select {
		case p := <-ch:
			return profileMsg{p}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode == modeLogin {
			return m.updateLogin(msg)
		}
		return m.updateVerse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case verseLoadedMsg:
		m.loading = false
		if msg.result.Err != nil {
			m.showError(msg.result.Err)
			return m, nil
		}
		m.verse = msg.result.Value
		m.errText = ""
		return m, nil

	case csvLoadedMsg:
		m.loading = false
		if msg.result.Err != nil {
			m.showError(msg.result.Err)
			return m, nil
		}
		v := msg.result.Value
		m.verse = &votd.Display{Reference: v.Reference, Text: v.Text, Translation: v.TranslationName}
		m.errText = ""
		return m, nil

	case loginMsg:
		m.loading = false
		if msg.result.Err != nil {
			m.showError(msg.result.Err)
			return m, nil
		}
		m.greeting = bible.Greeting(msg.result.Value)
		m.errText = ""
		return m, nil

	case profileMsg:
		m.greeting = bible.Greeting(msg.profile)
		return m, nil
	}

	return m, nil
}

func (m Model) updateVerse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading && msg.String() != "q" {
		return m, nil
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, loadVerseOfDay(m.client, m.translationID))
	case "c":
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, loadCSVVerse(m.client))
	case "l":
		if m.client.IsAuthenticated() {
			return m, nil
		}
		m.mode = modeLogin
		m.focus = 0
		for i := range m.inputs {
			m.inputs[i].SetValue("")
			m.inputs[i].Blur()
		}
		return m, m.inputs[0].Focus()
	case "o":
		m.client.Logout()
		m.greeting = ""
		return m, nil
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeVerse
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()
	case "enter":
		if m.focus < len(m.inputs)-1 {
			m.inputs[m.focus].Blur()
			m.focus++
			return m, m.inputs[m.focus].Focus()
		}
		username := strings.TrimSpace(m.inputs[0].Value())
		password := m.inputs[1].Value()
		m.mode = modeVerse
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, login(m.client, username, password))
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) showError(err error) {
	m.errText = normalize.ErrorMessage(err)
}

func (m Model) View() string {
	var b strings.Builder

	if m.greeting != "" {
		b.WriteString(greetingStyle.Render(m.greeting))
		b.WriteString("\n\n")
	}

	switch {
	case m.mode == modeLogin:
		b.WriteString(referenceStyle.Render("Log in"))
		b.WriteString("\n\n")
		for _, in := range m.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab: next field • enter: submit • esc: cancel"))
		return b.String()
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading…")
	case m.errText != "":
		b.WriteString(errorStyle.Render(m.errText))
	case m.verse != nil:
		card := referenceStyle.Render(m.verse.Reference) + "\n\n" +
			verseStyle.Render(m.verse.Text) + "\n\n" +
			translationStyle.Render(m.verse.Translation)
		b.WriteString(cardStyle.Render(card))
	}

	b.WriteString("\n\n")
	help := "r: reload • c: sheet verse • q: quit"
	if m.client.IsAuthenticated() {
		help = "o: log out • " + help
	} else {
		help = "l: log in • " + help
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}
