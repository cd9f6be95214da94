package db

import (
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"soundtrace/apperrors"
	"soundtrace/models"
)

// SQLiteClient is the offline/test FingerprintStore backend, grounded
// on original_source/db/sqlite.h's schema: a fingerprints table keyed
// by (address, anchorTimeMs, songID) and a songs table with a unique
// key column. The teacher's go.mod carries mattn/go-sqlite3 without
// wiring it into any retrieved file; this is that wiring.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens (and migrates) a SQLite database at path.
func NewSQLiteClient(path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	if err := db.Ping(); err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}

	c := &SQLiteClient{db: db}
	if err := c.migrate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SQLiteClient) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS songs (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			title  TEXT NOT NULL,
			artist TEXT NOT NULL,
			key    TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS fingerprints (
			address      INTEGER NOT NULL,
			anchorTimeMs INTEGER NOT NULL,
			songID       INTEGER NOT NULL,
			UNIQUE(address, anchorTimeMs, songID)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fingerprints_address ON fingerprints(address)`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return apperrors.ErrStoreUnavailable
		}
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

func (c *SQLiteClient) RegisterSong(title, artist string) (uint32, error) {
	key := title + "---" + artist

	res, err := c.db.Exec(`INSERT INTO songs (title, artist, key) VALUES (?, ?, ?)`, title, artist, key)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return 0, apperrors.ErrDuplicateKey
		}
		return 0, apperrors.ErrStoreUnavailable
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.ErrStoreUnavailable
	}
	return uint32(id), nil
}

func isUniqueConstraintErr(err error) bool {
	// mattn/go-sqlite3 reports UNIQUE violations with this substring;
	// avoided a hard type assertion on sqlite3.Error so the caller
	// doesn't need the driver import solely for error inspection.
	return err != nil && (containsFold(err.Error(), "UNIQUE constraint failed") ||
		containsFold(err.Error(), "constraint failed"))
}

func containsFold(s, substr string) bool {
	return len(s) >= len(substr) && indexFold(s, substr) >= 0
}

func indexFold(s, substr string) int {
	// small case-sensitive search is sufficient here: the driver's
	// error text casing is stable.
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func (c *SQLiteClient) GetSongByID(id uint32) (*models.Song, error) {
	return c.getSong(`SELECT id, title, artist, key FROM songs WHERE id = ?`, id)
}

func (c *SQLiteClient) GetSongByKey(key string) (*models.Song, error) {
	return c.getSong(`SELECT id, title, artist, key FROM songs WHERE key = ?`, key)
}

func (c *SQLiteClient) getSong(query string, arg any) (*models.Song, error) {
	row := c.db.QueryRow(query, arg)

	var s models.Song
	err := row.Scan(&s.ID, &s.Title, &s.Artist, &s.Key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	return &s, nil
}

func (c *SQLiteClient) GetAllSongs() ([]models.Song, error) {
	rows, err := c.db.Query(`SELECT id, title, artist, key FROM songs`)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		var s models.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.Key); err != nil {
			continue
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func (c *SQLiteClient) DeleteSongByID(id uint32) error {
	_, err := c.db.Exec(`DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return apperrors.ErrStoreUnavailable
	}
	return nil
}

func (c *SQLiteClient) TotalSongs() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM songs`).Scan(&n); err != nil {
		return 0, apperrors.ErrStoreUnavailable
	}
	return n, nil
}

func (c *SQLiteClient) TotalFingerprints() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM fingerprints`).Scan(&n); err != nil {
		return 0, apperrors.ErrStoreUnavailable
	}
	return n, nil
}

func (c *SQLiteClient) StoreFingerprints(fingerprints map[uint32]models.Couple) error {
	if len(fingerprints) == 0 {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return apperrors.ErrStoreUnavailable
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO fingerprints (address, anchorTimeMs, songID) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return apperrors.ErrStoreUnavailable
	}
	defer stmt.Close()

	for address, couple := range fingerprints {
		if _, err := stmt.Exec(address, couple.AnchorTimeMs, couple.SongID); err != nil {
			tx.Rollback()
			return apperrors.ErrStoreUnavailable
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.ErrStoreUnavailable
	}
	return nil
}

func (c *SQLiteClient) GetCouples(addresses []uint32) (map[uint32][]models.Couple, error) {
	if len(addresses) == 0 {
		return map[uint32][]models.Couple{}, nil
	}

	result := make(map[uint32][]models.Couple)

	stmt, err := c.db.Prepare(`SELECT anchorTimeMs, songID FROM fingerprints WHERE address = ?`)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	defer stmt.Close()

	for _, address := range addresses {
		rows, err := stmt.Query(address)
		if err != nil {
			return nil, apperrors.ErrStoreUnavailable
		}

		var couples []models.Couple
		for rows.Next() {
			var c models.Couple
			if err := rows.Scan(&c.AnchorTimeMs, &c.SongID); err != nil {
				continue
			}
			couples = append(couples, c)
		}
		rows.Close()

		if len(couples) > 0 {
			result[address] = couples
		}
	}

	return result, nil
}

func (c *SQLiteClient) DeleteCollection(name string) error {
	switch name {
	case "fingerprints":
		_, err := c.db.Exec(`DELETE FROM fingerprints`)
		if err != nil {
			return apperrors.ErrStoreUnavailable
		}
		return nil
	case "songs":
		_, err := c.db.Exec(`DELETE FROM songs`)
		if err != nil {
			return apperrors.ErrStoreUnavailable
		}
		return nil
	default:
		return apperrors.ErrInvalidParameter
	}
}
