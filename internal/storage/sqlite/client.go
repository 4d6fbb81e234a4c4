package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/symptom-triage/backend/internal/storage/models"
	"github.com/symptom-triage/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS query_history (
		query_id TEXT PRIMARY KEY,
		user_id TEXT,
		symptoms TEXT NOT NULL,
		age INTEGER,
		pregnant INTEGER,
		chronic_conditions TEXT,
		model_response TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_user ON query_history(user_id);
	CREATE INDEX IF NOT EXISTS idx_history_created ON query_history(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertHistoryRecord(record *models.HistoryRecord) error {
	query := `
		INSERT INTO query_history (query_id, user_id, symptoms, age, pregnant, chronic_conditions, model_response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var age interface{}
	if record.Age != nil {
		age = *record.Age
	}

	var pregnant interface{}
	if record.Pregnant != nil {
		if *record.Pregnant {
			pregnant = 1
		} else {
			pregnant = 0
		}
	}

	_, err := c.db.Exec(
		query,
		record.QueryID,
		record.UserID,
		record.Symptoms,
		age,
		pregnant,
		record.ChronicConditions,
		record.ModelResponse,
		record.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}

	logger.Info("History record stored",
		zap.String("query_id", record.QueryID),
		zap.String("user_id", record.UserID),
	)

	return nil
}

// RecentHistory returns up to limit records, newest first. Records created
// within the same second keep insertion order via the rowid tiebreak.
func (c *Client) RecentHistory(limit int) ([]models.HistoryRecord, error) {
	query := `
		SELECT query_id, user_id, symptoms, age, pregnant, chronic_conditions, model_response, created_at
		FROM query_history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var r models.HistoryRecord
		var userID, chronic, response sql.NullString
		var age, pregnant sql.NullInt64
		var createdAt int64

		err := rows.Scan(&r.QueryID, &userID, &r.Symptoms, &age, &pregnant, &chronic, &response, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.UserID = userID.String
		r.ChronicConditions = chronic.String
		r.ModelResponse = response.String
		if age.Valid {
			v := int(age.Int64)
			r.Age = &v
		}
		if pregnant.Valid {
			v := pregnant.Int64 != 0
			r.Pregnant = &v
		}
		r.CreatedAt = time.Unix(createdAt, 0)

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return records, nil
}

// ClearHistory deletes every record. Clearing an empty table succeeds.
func (c *Client) ClearHistory() error {
	_, err := c.db.Exec(`DELETE FROM query_history`)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	logger.Info("Query history cleared")
	return nil
}
