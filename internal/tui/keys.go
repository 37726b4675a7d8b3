package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	JumpTab  key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		JumpTab:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "jump")),
		ScrollUp: key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDn: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.JumpTab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextTab, k.PrevTab, k.JumpTab}, {k.ScrollUp, k.ScrollDn, k.Quit}}
}

// tabForKey maps the digit keys to tabs.
func tabForKey(s string) (Tab, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '0'+byte(tabCount) {
		return 0, false
	}
	return Tab(s[0] - '1'), true
}

var (
	keyStart    = key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "start pipeline"))
	keyOpenDB   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "database schema"))
	keyOpenDash = key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "dashboard"))
	keySelect   = key.NewBinding(key.WithKeys("o", "/"), key.WithHelp("o", "choose files"))
	keySubmit   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	keyCancel   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	keyAnalyze  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run full analysis"))
	keyViewDash = key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view dashboard"))
	keySubNext  = key.NewBinding(key.WithKeys("]", "right", "l"), key.WithHelp("]", "next section"))
	keySubPrev  = key.NewBinding(key.WithKeys("[", "left", "h"), key.WithHelp("[", "prev section"))
	keyUp       = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev table"))
	keyDown     = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next table"))
	keySearch   = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find table"))
	keyExport   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv"))
	keyReload   = key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload"))
	keyIngest   = key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "start with data ingestion"))
)
