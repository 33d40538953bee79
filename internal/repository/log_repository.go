package repository

import (
	"context"
	"database/sql"
)

// AccessLog is a per-request audit record: requesting peer address, HTTP
// method and the last path segment of the route. It is a pure side-channel
// independent of the auth outcome.
type AccessLog struct {
	ID     uint64
	IP     string
	Method string
	Route  string
}

// LogRepo persists audit entries. The table is append-only.
type LogRepo struct{ DB *sql.DB }

func NewLogRepo(db *sql.DB) *LogRepo { return &LogRepo{DB: db} }

// Insert writes one audit row. Callers treat failures as operator-level
// noise; an audit write must never fail the request it describes.
func (r *LogRepo) Insert(ctx context.Context, entry AccessLog) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO logs (ip, method, route) VALUES (?,?,?)",
		entry.IP, entry.Method, entry.Route)
	return err
}
