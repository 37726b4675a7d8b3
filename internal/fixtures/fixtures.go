// Package fixtures holds the static content shown by the overview and
// dashboard tabs. The numbers are presentation data, not computed results.
package fixtures

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed dashboard.toml
var dashboardTOML []byte

//go:embed overview.toml
var overviewTOML []byte

type KPI struct {
	Metric string `toml:"metric" json:"metric"`
	Value  string `toml:"value" json:"value"`
	Change string `toml:"change" json:"change"`
	Status string `toml:"status" json:"status"`
}

type MonthlySales struct {
	Month  string `toml:"month" json:"month"`
	Sales  int    `toml:"sales" json:"sales"`
	Orders int    `toml:"orders" json:"orders"`
}

type Category struct {
	Name  string `toml:"name" json:"name"`
	Share int    `toml:"share" json:"share"` // percent
	Color string `toml:"color" json:"color"`
}

type ResolvedIssue struct {
	Label  string `toml:"label" json:"label"`
	Count  int    `toml:"count" json:"count"`
	Action string `toml:"action" json:"action"`
}

type Normalization struct {
	Before  string   `toml:"before" json:"before"`
	After   string   `toml:"after" json:"after"`
	Table   string   `toml:"table" json:"table"`
	Columns []string `toml:"columns" json:"columns"`
}

type Entity struct {
	Name    string `toml:"name" json:"name"`
	Records int    `toml:"records" json:"records"`
	Note    string `toml:"note" json:"note"`
}

// Dashboard is the business intelligence fixture.
type Dashboard struct {
	Title         string          `toml:"title" json:"title"`
	Subtitle      string          `toml:"subtitle" json:"subtitle"`
	KPIs          []KPI           `toml:"kpis" json:"kpis"`
	Sales         []MonthlySales  `toml:"sales" json:"sales"`
	Categories    []Category      `toml:"categories" json:"categories"`
	Resolved      []ResolvedIssue `toml:"resolved" json:"resolved"`
	Normalization Normalization   `toml:"normalization" json:"normalization"`
	Entities      []Entity        `toml:"entities" json:"entities"`
}

type Phase struct {
	Phase        string   `toml:"phase" json:"phase"`
	Title        string   `toml:"title" json:"title"`
	Description  string   `toml:"description" json:"description"`
	Status       string   `toml:"status" json:"status"` // ready | bonus
	Deliverables []string `toml:"deliverables" json:"deliverables"`
}

type Dataset struct {
	Name   string `toml:"name" json:"name"`
	Format string `toml:"format" json:"format"`
	Issues string `toml:"issues" json:"issues"`
	Status string `toml:"status" json:"status"`
}

// Overview is the landing page content.
type Overview struct {
	Brand          string    `toml:"brand" json:"brand"`
	Tagline        string    `toml:"tagline" json:"tagline"`
	Title          string    `toml:"title" json:"title"`
	Challenge      string    `toml:"challenge" json:"challenge"`
	QualityIssues  []string  `toml:"quality_issues" json:"quality_issues"`
	Goals          []string  `toml:"goals" json:"goals"`
	GettingStarted string    `toml:"getting_started" json:"getting_started"`
	Phases         []Phase   `toml:"phases" json:"phases"`
	Datasets       []Dataset `toml:"datasets" json:"datasets"`
}

// LoadDashboard decodes the embedded dashboard fixture.
func LoadDashboard() (Dashboard, error) {
	var d Dashboard
	if err := decodeStrict("dashboard.toml", dashboardTOML, &d); err != nil {
		return Dashboard{}, err
	}
	if len(d.KPIs) == 0 || len(d.Sales) == 0 {
		return Dashboard{}, fmt.Errorf("dashboard.toml: kpis and sales are required")
	}
	total := 0
	for _, c := range d.Categories {
		total += c.Share
	}
	if total != 100 {
		return Dashboard{}, fmt.Errorf("dashboard.toml: category shares sum to %d, want 100", total)
	}
	return d, nil
}

// LoadOverview decodes the embedded overview fixture.
func LoadOverview() (Overview, error) {
	var o Overview
	if err := decodeStrict("overview.toml", overviewTOML, &o); err != nil {
		return Overview{}, err
	}
	for i, p := range o.Phases {
		if p.Status != "ready" && p.Status != "bonus" {
			return Overview{}, fmt.Errorf("overview.toml: phase[%d] %q: unknown status %q", i, p.Title, p.Status)
		}
	}
	return o, nil
}

// MustDashboard panics if the embedded fixture is broken.
func MustDashboard() Dashboard {
	d, err := LoadDashboard()
	if err != nil {
		panic(err)
	}
	return d
}

// MustOverview panics if the embedded fixture is broken.
func MustOverview() Overview {
	o, err := LoadOverview()
	if err != nil {
		panic(err)
	}
	return o
}

func decodeStrict(name string, data []byte, v any) error {
	md, err := toml.Decode(string(data), v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		return fmt.Errorf("parse %s: unknown keys %v", name, extra)
	}
	return nil
}
