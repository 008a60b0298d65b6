//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package mysql provides a MySQL-backed evaluation record store.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // register the mysql driver

	"github.com/convcheck/convcheck/record"
)

var _ record.Store = (*Store)(nil)

// defaultTableName is the base table name for evaluation records.
const defaultTableName = "evaluation_records"

// sqlCreateRecordsTable creates the records table when it does not exist.
// The seq column preserves append order for List.
const sqlCreateRecordsTable = `CREATE TABLE IF NOT EXISTS %s (
	seq BIGINT NOT NULL AUTO_INCREMENT,
	record_id VARCHAR(255) NOT NULL,
	test_path VARCHAR(512) NOT NULL DEFAULT '',
	test_name VARCHAR(512) NOT NULL DEFAULT '',
	timestamp DATETIME(3) NOT NULL,
	duration_ms BIGINT NOT NULL DEFAULT 0,
	model_id VARCHAR(255) NOT NULL DEFAULT '',
	conversation JSON NOT NULL,
	criteria JSON NOT NULL,
	results JSON NOT NULL,
	token_usage JSON NOT NULL,
	passed TINYINT(1) NOT NULL,
	created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	PRIMARY KEY (seq),
	UNIQUE KEY uniq_record_id (record_id)
)`

// Store implements record.Store on top of a MySQL database.
type Store struct {
	opts  options
	db    *sql.DB
	table string
}

// New opens a MySQL-backed record store using the supplied DSN.
// The DSN must enable parseTime so DATETIME columns scan into time.Time.
func New(dsn string, opt ...Option) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("dsn is empty")
	}
	opts := newOptions(opt...)
	db := opts.db
	if db == nil {
		var err error
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
	}
	s := &Store{
		opts:  *opts,
		db:    db,
		table: opts.tablePrefix + defaultTableName,
	}
	if !opts.skipDBInit {
		ctx, cancel := context.WithTimeout(context.Background(), opts.initTimeout)
		defer cancel()
		if err := s.ensureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init database: %w", err)
		}
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ensureSchema creates the records table when missing.
func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(sqlCreateRecordsTable, s.table)); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Append inserts one record.
func (s *Store) Append(ctx context.Context, rec *record.Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	if rec.ID == "" {
		return errors.New("record id is empty")
	}
	conversationPayload, err := json.Marshal(rec.Conversation)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	criteriaPayload, err := json.Marshal(rec.Criteria)
	if err != nil {
		return fmt.Errorf("marshal criteria: %w", err)
	}
	resultsPayload, err := json.Marshal(rec.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	usagePayload, err := json.Marshal(rec.Usage)
	if err != nil {
		return fmt.Errorf("marshal usage: %w", err)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (record_id, test_path, test_name, timestamp, duration_ms, model_id,
		   conversation, criteria, results, token_usage, passed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.table,
	)
	if _, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.TestPath, rec.TestName, rec.Timestamp.UTC(), rec.DurationMS, rec.ModelID,
		conversationPayload, criteriaPayload, resultsPayload, usagePayload, rec.Passed); err != nil {
		return fmt.Errorf("store record %s: %w", rec.ID, err)
	}
	return nil
}

// List loads all records in append order.
func (s *Store) List(ctx context.Context) ([]*record.Record, error) {
	query := fmt.Sprintf(
		`SELECT record_id, test_path, test_name, timestamp, duration_ms, model_id,
		   conversation, criteria, results, token_usage, passed
		 FROM %s ORDER BY seq ASC`,
		s.table,
	)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	var records []*record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// scanRecord decodes one row into a record.
func scanRecord(rows *sql.Rows) (*record.Record, error) {
	var (
		rec                 record.Record
		timestamp           time.Time
		conversationPayload []byte
		criteriaPayload     []byte
		resultsPayload      []byte
		usagePayload        []byte
	)
	if err := rows.Scan(&rec.ID, &rec.TestPath, &rec.TestName, &timestamp, &rec.DurationMS, &rec.ModelID,
		&conversationPayload, &criteriaPayload, &resultsPayload, &usagePayload, &rec.Passed); err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}
	rec.Timestamp = timestamp
	if err := json.Unmarshal(conversationPayload, &rec.Conversation); err != nil {
		return nil, fmt.Errorf("unmarshal conversation of record %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal(criteriaPayload, &rec.Criteria); err != nil {
		return nil, fmt.Errorf("unmarshal criteria of record %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal(resultsPayload, &rec.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results of record %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal(usagePayload, &rec.Usage); err != nil {
		return nil, fmt.Errorf("unmarshal usage of record %s: %w", rec.ID, err)
	}
	return &rec, nil
}
