// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchstore persists collapsed benchmark tables in a SQL
// database, one run at a time, so results can be recorded across
// sessions and reloaded for later reporting.
package benchstore

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/bioc/CellBench/benchtab"
)

// DB is a handle to a run store. It is safe for concurrent use by
// multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun    *sql.Stmt
	insertRecord *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		return nil, err
	}
	return d, nil
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID VARCHAR(36) PRIMARY KEY,
	Label VARCHAR(255),
	CreatedAt {{if .sqlite3}}TIMESTAMP{{else}}DATETIME(6){{end}}
);
CREATE TABLE IF NOT EXISTS Records (
	RunID VARCHAR(36),
	RowID BIGINT UNSIGNED,
	Data VARCHAR(255),
	Pipeline VARCHAR(8192),
	Result BLOB,
	PRIMARY KEY (RunID, RowID),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(RunID, Label, CreatedAt) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertRecord, err = db.sql.Prepare("INSERT INTO Records(RunID, RowID, Data, Pipeline, Result) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// A RunInfo describes one stored run.
type RunInfo struct {
	ID        string
	Label     string
	CreatedAt time.Time
	// Rows is the number of records in the run.
	Rows int
}

// SaveRun stores t under a fresh run ID and returns the ID. t is
// collapsed first if it is not already. Results are serialized with
// encoding/gob; values of user-defined types must be registered with
// gob.Register.
func (db *DB) SaveRun(label string, t *benchtab.Table) (id string, err error) {
	c := benchtab.Collapse(t)
	id = uuid.New().String()

	tx, err := db.sql.Begin()
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.Stmt(db.insertRun).Exec(id, label, time.Now().UTC()); err != nil {
		return "", err
	}

	data := c.Data()
	pipelines := c.Pipelines()
	results := c.Results()
	for i := range data {
		var buf bytes.Buffer
		if err = gob.NewEncoder(&buf).Encode(&results[i]); err != nil {
			return "", fmt.Errorf("encoding result %d: %w", i, err)
		}
		if _, err = tx.Stmt(db.insertRecord).Exec(id, i, data[i], pipelines[i], buf.Bytes()); err != nil {
			return "", err
		}
	}
	return id, nil
}

// ListRuns returns the stored runs, most recent first.
func (db *DB) ListRuns() ([]RunInfo, error) {
	rows, err := db.sql.Query(`
SELECT r.RunID, r.Label, r.CreatedAt, COUNT(rec.RowID)
FROM Runs r LEFT JOIN Records rec ON r.RunID = rec.RunID
GROUP BY r.RunID, r.Label, r.CreatedAt
ORDER BY r.CreatedAt DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.CreatedAt, &info.Rows); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// LoadRun reconstructs the collapsed table stored under id. It
// returns sql.ErrNoRows if the run does not exist.
func (db *DB) LoadRun(id string) (*benchtab.Table, error) {
	var n int
	if err := db.sql.QueryRow("SELECT COUNT(*) FROM Runs WHERE RunID = ?", id).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}

	rows, err := db.sql.Query(
		"SELECT Data, Pipeline, Result FROM Records WHERE RunID = ? ORDER BY RowID", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var data, pipelines []string
	var results []interface{}
	for rows.Next() {
		var d, p string
		var blob []byte
		if err := rows.Scan(&d, &p, &blob); err != nil {
			return nil, err
		}
		var v interface{}
		if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&v); err != nil {
			return nil, fmt.Errorf("decoding result for %s/%s: %w", d, p, err)
		}
		data = append(data, d)
		pipelines = append(pipelines, p)
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return benchtab.FromPipelines(data, pipelines, results)
}

// Close closes the database connections, releasing any open
// resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRun, db.insertRecord} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
