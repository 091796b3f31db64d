package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/okian/songsim/internal/domain/model"
	"github.com/okian/songsim/pkg/logger"

	_ "modernc.org/sqlite"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource loads a catalog from one table of a SQLite database. Rows are
// returned in rowid order.
type SQLiteSource struct {
	path     string
	settings settings
}

// NewSQLiteSource returns a Source reading the database at path.
func NewSQLiteSource(path string, opts ...Option) *SQLiteSource {
	return &SQLiteSource{path: path, settings: newSettings(opts)}
}

// Load reads every row of the configured table.
func (s *SQLiteSource) Load(ctx context.Context) ([]model.Song, error) {
	if !tableName.MatchString(s.settings.table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrOpenCatalog, s.settings.table)
	}
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenCatalog, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenCatalog, err)
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf(`SELECT %s FROM %q ORDER BY rowid`, quotedColumns(), s.settings.table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		if strings.Contains(err.Error(), "no such column") {
			return nil, fmt.Errorf("%w: %w", ErrMissingColumn, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrOpenCatalog, err)
	}
	defer func() { _ = rows.Close() }()

	values := make([]sql.NullString, len(Columns))
	dest := make([]any, len(Columns))
	for i := range values {
		dest[i] = &values[i]
	}
	position := make(map[string]int, len(Columns))
	for i, col := range Columns {
		position[col] = i
	}

	var songs []model.Song
	row := 0
	for rows.Next() {
		row++
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedRecord, row, err)
		}
		song, err := decodeRecord(func(col string) string { return values[position[col]].String })
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", s.settings.table, row, err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenCatalog, err)
	}

	if l := s.settings.logger; l != nil {
		l.Debug(ctx, "catalog loaded",
			logger.String("path", s.path),
			logger.String("table", s.settings.table),
			logger.Int("songs", len(songs)))
	}
	return songs, nil
}

// WriteSQLite creates table in the database at path and inserts songs in
// order. An existing table of the same name is replaced.
func WriteSQLite(ctx context.Context, path, table string, songs []model.Song) error {
	if table == "" {
		table = defaultTable
	}
	if !tableName.MatchString(table) {
		return fmt.Errorf("%w: invalid table name %q", ErrOpenCatalog, table)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenCatalog, err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(table)); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(Columns)), ",")
	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, table, quotedColumns(), placeholders))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range songs {
		if _, err := stmt.ExecContext(ctx,
			s.ArtistName, s.TrackName, s.TrackID, s.Popularity, s.Year, s.Genre,
			s.Danceability, s.Energy, s.Key, s.Loudness, s.Mode, s.Speechiness,
			s.Acousticness, s.Instrumentalness, s.Liveness, s.Valence, s.Tempo,
			s.DurationMS, s.TimeSignature,
		); err != nil {
			return fmt.Errorf("insert %s: %w", s.TrackID, err)
		}
	}
	return tx.Commit()
}

func quotedColumns() string {
	quoted := make([]string, len(Columns))
	for i, col := range Columns {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	return strings.Join(quoted, ", ")
}

func createTableSQL(table string) string {
	types := map[string]string{
		ColArtistName: "TEXT", ColTrackName: "TEXT", ColTrackID: "TEXT", ColGenre: "TEXT",
		ColPopularity: "INTEGER", ColYear: "INTEGER", ColKey: "INTEGER", ColMode: "INTEGER",
		ColDurationMS: "INTEGER", ColTimeSignature: "INTEGER",
	}
	defs := make([]string, len(Columns))
	for i, col := range Columns {
		typ, ok := types[col]
		if !ok {
			typ = "REAL"
		}
		defs[i] = fmt.Sprintf("%q %s NOT NULL", col, typ)
	}
	return fmt.Sprintf(`CREATE TABLE %q (%s)`, table, strings.Join(defs, ", "))
}
