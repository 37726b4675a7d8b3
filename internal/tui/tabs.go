package tui

// Tab identifies one top-level screen. The set is closed.
type Tab int

const (
	TabOverview Tab = iota
	TabIngestion
	TabPipeline
	TabDashboard
	TabDatabase

	tabCount
)

// All lists every tab in navigation order.
func All() []Tab {
	tabs := make([]Tab, 0, tabCount)
	for t := TabOverview; t < tabCount; t++ {
		tabs = append(tabs, t)
	}
	return tabs
}

// Valid reports whether t is one of the defined tabs.
func (t Tab) Valid() bool { return t >= TabOverview && t < tabCount }

func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Project Overview"
	case TabIngestion:
		return "Data Ingestion"
	case TabPipeline:
		return "ETL Pipeline"
	case TabDashboard:
		return "Dashboard"
	case TabDatabase:
		return "Database"
	default:
		return "unknown"
	}
}

// TabController holds the active tab.
type TabController struct {
	current Tab
}

func NewTabController(initial Tab) *TabController {
	if !initial.Valid() {
		initial = TabOverview
	}
	return &TabController{current: initial}
}

func (c *TabController) Current() Tab { return c.current }

// Select makes tab active. Invalid tabs are ignored and reported as false.
func (c *TabController) Select(tab Tab) bool {
	if !tab.Valid() {
		return false
	}
	c.current = tab
	return true
}

func (c *TabController) Next() Tab {
	c.current = (c.current + 1) % tabCount
	return c.current
}

func (c *TabController) Prev() Tab {
	c.current = (c.current + tabCount - 1) % tabCount
	return c.current
}
