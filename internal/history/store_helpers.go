package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const runColumns = `id, job_id, flow, input_path, outputs_json, status, failed_stage,
        exit_code, error_message, started_at, finished_at`

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec         Record
		outputsJSON sql.NullString
		failedStage sql.NullString
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.JobID,
		&rec.Flow,
		&rec.Input,
		&outputsJSON,
		&rec.Status,
		&failedStage,
		&rec.ExitCode,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	rec.FailedStage = failedStage.String
	rec.ErrorMessage = errorMsg.String
	if outputsJSON.Valid && outputsJSON.String != "" {
		if err := json.Unmarshal([]byte(outputsJSON.String), &rec.Outputs); err != nil {
			return nil, fmt.Errorf("decode outputs for run %d: %w", rec.ID, err)
		}
	}
	started, err := parseTimeString(startedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse started_at for run %d: %w", rec.ID, err)
	}
	rec.StartedAt = started
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			rec.FinishedAt = &finished
		}
	}
	return &rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func encodeOutputs(outputs []string) (any, error) {
	if len(outputs) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(outputs)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

// timestampLayout keeps a fixed fraction width so stored values sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
