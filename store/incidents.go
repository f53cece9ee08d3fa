package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Incident struct {
	ID            string     `json:"id"`
	ErrorID       string     `json:"error_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Severity      string     `json:"severity"`
	Status        string     `json:"status"`
	Category      string     `json:"category"`
	Frequency     int        `json:"frequency"`
	AffectedUsers int        `json:"affected_users"`
	StackTrace    string     `json:"stack_trace,omitempty"`
	UserAgent     string     `json:"user_agent,omitempty"`
	IPAddress     string     `json:"ip_address,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy    string     `json:"resolved_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

const incidentSelectCols = `id, error_id, title, description, severity, status, category, frequency, affected_users, stack_trace, user_agent, ip_address, resolved_at, resolved_by, created_at, updated_at`

func scanIncident(row interface{ Scan(...any) error }) (*Incident, error) {
	var in Incident
	var resolvedAt, createdAt, updatedAt any
	err := row.Scan(&in.ID, &in.ErrorID, &in.Title, &in.Description, &in.Severity,
		&in.Status, &in.Category, &in.Frequency, &in.AffectedUsers,
		&in.StackTrace, &in.UserAgent, &in.IPAddress, &resolvedAt, &in.ResolvedBy,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	in.ResolvedAt = parseTimePtr(resolvedAt)
	in.CreatedAt = parseTime(createdAt)
	in.UpdatedAt = parseTime(updatedAt)
	return &in, nil
}

func scanIncidents(rows *sql.Rows) ([]*Incident, error) {
	var incidents []*Incident
	for rows.Next() {
		in, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, in)
	}
	return incidents, rows.Err()
}

func (db *DB) CreateIncident(in *Incident) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	_, err := db.Exec(db.Q(`INSERT INTO incidents (id, error_id, title, description, severity, status, category, frequency, affected_users, stack_trace, user_agent, ip_address) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		in.ID, in.ErrorID, in.Title, in.Description, in.Severity, in.Status, in.Category,
		in.Frequency, in.AffectedUsers, in.StackTrace, in.UserAgent, in.IPAddress)
	if err != nil {
		return fmt.Errorf("create incident: %w", err)
	}
	return nil
}

func (db *DB) GetIncident(id string) (*Incident, error) {
	row := db.QueryRow(db.Q(`SELECT `+incidentSelectCols+` FROM incidents WHERE id=?`), id)
	return scanIncident(row)
}

func (db *DB) ListIncidents() ([]*Incident, error) {
	rows, err := db.Query(`SELECT ` + incidentSelectCols + ` FROM incidents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func (db *DB) UpdateIncidentStatus(id, status string) error {
	res, err := db.Exec(db.Q(`UPDATE incidents SET status=?, updated_at=datetime('now','localtime') WHERE id=?`), status, id)
	if err != nil {
		return fmt.Errorf("update incident status: %w", err)
	}
	return requireRowAffected(res, "incident", id)
}

// ResolveIncident marks an incident resolved and records who closed it.
func (db *DB) ResolveIncident(id, resolvedBy string) error {
	res, err := db.Exec(db.Q(`UPDATE incidents SET status='resolved', resolved_by=?, resolved_at=datetime('now','localtime'), updated_at=datetime('now','localtime') WHERE id=?`), resolvedBy, id)
	if err != nil {
		return fmt.Errorf("resolve incident: %w", err)
	}
	return requireRowAffected(res, "incident", id)
}

func (db *DB) CountIncidents() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM incidents`).Scan(&n)
	return n, err
}
