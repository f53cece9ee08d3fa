package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID        string    `json:"id"`
	Customer  string    `json:"customer"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Product   string    `json:"product"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	Helpful   int       `json:"helpful"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const feedbackSelectCols = `id, customer, rating, comment, product, date, status, helpful, created_at, updated_at`

func scanFeedback(row interface{ Scan(...any) error }) (*Feedback, error) {
	var f Feedback
	var createdAt, updatedAt any
	err := row.Scan(&f.ID, &f.Customer, &f.Rating, &f.Comment, &f.Product,
		&f.Date, &f.Status, &f.Helpful, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	f.CreatedAt = parseTime(createdAt)
	f.UpdatedAt = parseTime(updatedAt)
	return &f, nil
}

func (db *DB) CreateFeedback(f *Feedback) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	_, err := db.Exec(db.Q(`INSERT INTO feedback (id, customer, rating, comment, product, date, status, helpful) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		f.ID, f.Customer, f.Rating, f.Comment, f.Product, f.Date, f.Status, f.Helpful)
	if err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (db *DB) GetFeedback(id string) (*Feedback, error) {
	row := db.QueryRow(db.Q(`SELECT `+feedbackSelectCols+` FROM feedback WHERE id=?`), id)
	return scanFeedback(row)
}

func (db *DB) ListFeedback() ([]*Feedback, error) {
	rows, err := db.Query(`SELECT ` + feedbackSelectCols + ` FROM feedback ORDER BY date DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (db *DB) UpdateFeedbackStatus(id, status string) error {
	res, err := db.Exec(db.Q(`UPDATE feedback SET status=?, updated_at=datetime('now','localtime') WHERE id=?`), status, id)
	if err != nil {
		return fmt.Errorf("update feedback status: %w", err)
	}
	return requireRowAffected(res, "feedback", id)
}

func (db *DB) CountFeedback() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM feedback`).Scan(&n)
	return n, err
}
