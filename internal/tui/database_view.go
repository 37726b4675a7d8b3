package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/jask/etlstudio/internal/database/repository"
	"github.com/jask/etlstudio/internal/service"
	"github.com/jask/etlstudio/internal/tui/widgets"
)

const sampleRowLimit = 3

var databaseSections = []string{"Schema Design", "Data Explorer", "Relationships"}

type schemaData struct {
	tables  []repository.Table
	rels    []repository.Relationship
	samples map[string]repository.RowSet
}

type databaseView struct {
	ctx    context.Context
	schema *repository.SchemaRepo
	export *service.ExportService

	section  int
	data     schemaData
	loaded   bool
	selected int
	search   textinput.Model
	table    table.Model
}

func newDatabaseView(ctx context.Context, schema *repository.SchemaRepo, export *service.ExportService) *databaseView {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "table name"
	ti.CharLimit = 64
	return &databaseView{ctx: ctx, schema: schema, export: export, search: ti}
}

func (v *databaseView) Init() tea.Cmd { return v.loadSchema() }

func (v *databaseView) Capturing() bool { return v.search.Focused() }

func (v *databaseView) Bindings() []key.Binding {
	if v.search.Focused() {
		return []key.Binding{keySubmit, keyCancel}
	}
	return []key.Binding{keySubPrev, keySubNext, keyUp, keyDown, keySearch, keyExport, keyReload}
}

func (v *databaseView) loadSchema() tea.Cmd {
	if v.schema == nil {
		return nil
	}
	ctx, repo := v.ctx, v.schema
	return func() tea.Msg {
		tables, err := repo.Tables(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load schema: %w", err)}
		}
		rels, err := repo.Relationships(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load relationships: %w", err)}
		}
		samples := make(map[string]repository.RowSet, len(tables))
		for _, t := range tables {
			rs, err := repo.Rows(ctx, t.Name, sampleRowLimit)
			if err != nil {
				return errMsg{fmt.Errorf("sample %s: %w", t.Name, err)}
			}
			samples[t.Name] = rs
		}
		return schemaLoadedMsg{schema: schemaData{tables: tables, rels: rels, samples: samples}}
	}
}

func (v *databaseView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case schemaLoadedMsg:
		name := v.selectedName()
		v.data = m.schema
		v.loaded = true
		v.selected = 0
		for i, t := range v.data.tables {
			if t.Name == name {
				v.selected = i
			}
		}
		v.rebuildTable()
	case pipelineFinishedMsg:
		return v.loadSchema()
	case exportDoneMsg:
		return notifyText(fmt.Sprintf("Exported %s rows of %s to %s", humanize.Comma(int64(m.result.Rows)), m.result.Table, m.result.Path), false)
	case tea.KeyMsg:
		if v.search.Focused() {
			return v.updateSearch(m)
		}
		switch {
		case key.Matches(m, keySubNext), key.Matches(m, keySubPrev):
			v.section = cycleSection(m, v.section, len(databaseSections))
		case key.Matches(m, keyUp):
			v.move(-1)
		case key.Matches(m, keyDown):
			v.move(1)
		case key.Matches(m, keySearch):
			return v.search.Focus()
		case key.Matches(m, keyExport):
			return v.exportSelected()
		case key.Matches(m, keyReload):
			return v.loadSchema()
		}
	}
	return nil
}

func (v *databaseView) updateSearch(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, keyCancel):
		v.search.Blur()
		v.search.SetValue("")
		return nil
	case m.Type == tea.KeyEnter:
		query := v.search.Value()
		v.search.Blur()
		v.search.SetValue("")
		names := make([]string, len(v.data.tables))
		for i, t := range v.data.tables {
			names[i] = t.Name
		}
		name, ok := service.ClosestTable(query, names)
		if !ok {
			return nil
		}
		for i, n := range names {
			if n == name {
				v.selected = i
			}
		}
		v.rebuildTable()
		return nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(m)
	return cmd
}

func (v *databaseView) move(delta int) {
	n := len(v.data.tables)
	if n == 0 {
		return
	}
	v.selected = (v.selected + delta + n) % n
	v.rebuildTable()
}

func (v *databaseView) selectedName() string {
	if v.selected < 0 || v.selected >= len(v.data.tables) {
		return ""
	}
	return v.data.tables[v.selected].Name
}

func (v *databaseView) exportSelected() tea.Cmd {
	name := v.selectedName()
	if name == "" || v.export == nil {
		return nil
	}
	ctx, svc := v.ctx, v.export
	return func() tea.Msg {
		res, err := svc.Export(ctx, name)
		if err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{result: res}
	}
}

// rebuildTable replaces the explorer table; bubbles/table cannot change column count in place.
func (v *databaseView) rebuildTable() {
	rs := v.data.samples[v.selectedName()]
	cols := make([]table.Column, len(rs.Columns))
	for i, c := range rs.Columns {
		w := ansi.StringWidth(c)
		for _, row := range rs.Rows {
			w = max(w, ansi.StringWidth(row[i].String()))
		}
		cols[i] = table.Column{Title: c, Width: min(w, 28)}
	}
	rows := make([]table.Row, len(rs.Rows))
	for i, r := range rs.Rows {
		row := make(table.Row, len(r))
		for j, c := range r {
			row[j] = c.String()
		}
		rows[i] = row
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(widgets.ColorLavender).BorderForeground(widgets.ColorSurface2)
	styles.Selected = lipgloss.NewStyle()
	v.table = table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithStyles(styles),
	)
}

func (v *databaseView) Render(width, _ int) string {
	header := widgets.TitleStyle.Render("Normalized Database Schema") + "\n" +
		widgets.SubtitleStyle.Render("Clean, structured data with proper relationships and constraints")
	if !v.loaded {
		return widgets.Stack(header, widgets.MutedStyle.Render("Loading schema..."))
	}
	if len(v.data.tables) == 0 {
		return widgets.Stack(header, widgets.MutedStyle.Render("No tables found."))
	}

	var search string
	if v.search.Focused() {
		search = v.search.View()
	}

	var body string
	switch v.section {
	case 0:
		body = v.renderSchema(width)
	case 1:
		body = v.renderExplorer(width)
	default:
		body = v.renderRelationships(width)
	}
	return widgets.Stack(header, renderSubTabs(databaseSections, v.section), search, body)
}

func (v *databaseView) renderTableList(width int) string {
	lines := make([]string, 0, len(v.data.tables))
	for i, t := range v.data.tables {
		marker := "  "
		nameStyle := lipgloss.NewStyle().Foreground(widgets.ColorText)
		if i == v.selected {
			marker = widgets.KeyStyle.Render("▶ ")
			nameStyle = nameStyle.Foreground(widgets.ColorBlue).Bold(true)
		}
		lines = append(lines, marker+nameStyle.Render(t.Name)+widgets.MutedStyle.Render(fmt.Sprintf("  %s records", humanize.Comma(int64(t.Records)))))
	}
	return widgets.Pane{Title: "Tables", Content: strings.Join(lines, "\n")}.Render(width, 0)
}

func (v *databaseView) renderSchema(width int) string {
	t := v.data.tables[v.selected]
	listW := min(36, width/3)
	detailW := width - listW - 1

	nameW, typeW, consW := 18, 10, 22
	for _, c := range t.Columns {
		nameW = max(nameW, ansi.StringWidth(c.Name)+2)
	}
	lines := []string{
		widgets.LabelStyle.Render(widgets.PadRight("Column", nameW) + widgets.PadRight("Type", typeW) + widgets.PadRight("Constraints", consW) + "Relationship"),
	}
	for _, c := range t.Columns {
		var cons []string
		if c.PrimaryKey {
			cons = append(cons, "PRIMARY KEY")
		}
		if !c.Nullable {
			cons = append(cons, "NOT NULL")
		}
		rel := ""
		if c.ForeignKey != "" {
			rel = "→ " + c.ForeignKey
		}
		lines = append(lines,
			widgets.PadRight(c.Name, nameW)+
				widgets.ValueStyle.Render(widgets.PadRight(c.Type, typeW))+
				widgets.PadRight(strings.Join(cons, ", "), consW)+
				widgets.MutedStyle.Render(rel))
	}
	detail := widgets.Pane{
		Title:   fmt.Sprintf("Table: %s (%s records)", t.Name, humanize.Comma(int64(t.Records))),
		Content: strings.Join(lines, "\n"),
		Active:  true,
	}.Render(detailW, 0)
	return widgets.Row(1, v.renderTableList(listW), detail)
}

func (v *databaseView) renderExplorer(width int) string {
	t := v.data.tables[v.selected]
	rs := v.data.samples[t.Name]
	content := v.table.View() + "\n\n" +
		widgets.MutedStyle.Render(fmt.Sprintf("Showing first %d rows of %s total records", len(rs.Rows), humanize.Comma(int64(t.Records)))) +
		"   " + widgets.Button("e", "Export CSV", v.export == nil)
	return widgets.Pane{Title: "Data Explorer: " + t.Name, Content: content, Active: true}.Render(width, 0)
}

func (v *databaseView) renderRelationships(width int) string {
	n := len(v.data.tables)
	cols := min(n, 4)
	if width < 80 {
		cols = min(n, 2)
	}
	widths := widgets.Split(width-4, cols, 1)
	var rows []string
	for i := 0; i < n; i += cols {
		var boxes []string
		for j := 0; j < cols && i+j < n; j++ {
			t := v.data.tables[i+j]
			lines := make([]string, 0, len(t.Columns))
			for _, c := range t.Columns {
				mark := "  "
				switch {
				case c.PrimaryKey:
					mark = widgets.ValueStyle.Render("PK")
				case c.ForeignKey != "":
					mark = widgets.KeyStyle.Render("FK")
				}
				lines = append(lines, mark+" "+c.Name)
			}
			boxes = append(boxes, widgets.Pane{Title: strings.ToUpper(t.Name), Content: strings.Join(lines, "\n"), Accent: widgets.ColorSapphire}.Render(widths[j], 0))
		}
		rows = append(rows, widgets.Row(1, boxes...))
	}

	summary := []string{widgets.LabelStyle.Render("Relationship Summary:")}
	for _, r := range v.data.rels {
		to, _, _ := strings.Cut(r.To, ".")
		summary = append(summary, fmt.Sprintf("  • %s → %s (One-to-Many, via %s.%s)", titleCase(to), titleCase(r.FromTable), r.FromTable, r.FromColumn))
	}
	summary = append(summary, "  • Foreign key constraints are enforced on every connection")

	content := strings.Join(rows, "\n") + "\n\n" + strings.Join(summary, "\n")
	return widgets.Pane{Title: "Entity Relationship Diagram", Content: content}.Render(width, 0)
}

func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
