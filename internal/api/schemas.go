package api

import (
	"time"

	"github.com/jask/etlstudio/internal/database/repository"
	"github.com/jask/etlstudio/internal/pipeline"
)

type HealthResponse struct {
	Status  string `json:"status"`
	UptimeS int64  `json:"uptime_s"`
}

type ColumnResponse struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key"`
	Nullable   bool   `json:"nullable"`
	ForeignKey string `json:"foreign_key,omitempty"`
}

type TableResponse struct {
	Name    string           `json:"name"`
	Records int              `json:"records"`
	Columns []ColumnResponse `json:"columns"`
}

type TablesResponse struct {
	Tables []TableResponse `json:"tables"`
}

// RowsResponse carries NULL cells as JSON null.
type RowsResponse struct {
	Table   string      `json:"table"`
	Columns []string    `json:"columns"`
	Rows    [][]*string `json:"rows"`
}

type RelationshipResponse struct {
	FromTable  string `json:"from_table"`
	FromColumn string `json:"from_column"`
	To         string `json:"to"`
}

type RelationshipsResponse struct {
	Relationships []RelationshipResponse `json:"relationships"`
}

type ExportResponse struct {
	Table string `json:"table"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
}

type StepResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	DurationMS       *int64 `json:"duration_ms,omitempty"`
	RecordsProcessed *int   `json:"records_processed,omitempty"`
	IssuesFound      *int   `json:"issues_found,omitempty"`
}

type PipelineResponse struct {
	RunID    string         `json:"run_id,omitempty"`
	Running  bool           `json:"running"`
	Finished bool           `json:"finished"`
	Progress float64        `json:"progress"`
	Steps    []StepResponse `json:"steps"`
}

type RunStartedResponse struct {
	RunID string `json:"run_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func TableToResponse(t repository.Table) TableResponse {
	cols := make([]ColumnResponse, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = ColumnResponse{Name: c.Name, Type: c.Type, PrimaryKey: c.PrimaryKey, Nullable: c.Nullable, ForeignKey: c.ForeignKey}
	}
	return TableResponse{Name: t.Name, Records: t.Records, Columns: cols}
}

func RowsToResponse(table string, rs repository.RowSet) RowsResponse {
	rows := make([][]*string, len(rs.Rows))
	for i, r := range rs.Rows {
		row := make([]*string, len(r))
		for j, c := range r {
			if !c.Null {
				text := c.Text
				row[j] = &text
			}
		}
		rows[i] = row
	}
	return RowsResponse{Table: table, Columns: rs.Columns, Rows: rows}
}

func SnapshotToResponse(s pipeline.Snapshot) PipelineResponse {
	steps := make([]StepResponse, len(s.Steps))
	for i, st := range s.Steps {
		steps[i] = StepResponse{
			ID:               st.ID,
			Name:             st.Name,
			Status:           string(st.Status),
			RecordsProcessed: st.RecordsProcessed,
			IssuesFound:      st.IssuesFound,
		}
		if st.Duration != nil {
			ms := st.Duration.Milliseconds()
			steps[i].DurationMS = &ms
		}
	}
	return PipelineResponse{
		RunID:    s.RunID,
		Running:  s.Running,
		Finished: s.Finished(),
		Progress: s.Progress,
		Steps:    steps,
	}
}

func uptime(start time.Time) int64 {
	return int64(time.Since(start).Seconds())
}
