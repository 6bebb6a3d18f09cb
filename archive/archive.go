/*
Package archive stores rendered frames in an SQLite database.

Frames are PNG encoded and keyed by the SHA-1 of the encoding so identical
frames, such as those from a static scene, are stored once and referenced
by every session frame that produced them.
*/
package archive

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/png"

	_ "github.com/mattn/go-sqlite3"
)

var errNoSession = errors.New("archive: unknown session")

// Archive is a frame store backed by SQLite. It is safe for concurrent use.
type Archive struct {
	db *sql.DB
}

// Session describes a recorded session
type Session struct {
	ID     int64
	Name   string
	Seed   uint64
	Layout string
	Frames int
}

// Open opens or creates the archive in file
func Open(file string) (*Archive, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS session (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, seed INTEGER NOT NULL, layout TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS frame (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, png BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS session_frame (session_id INTEGER NOT NULL, number INTEGER NOT NULL, frame_id INTEGER NOT NULL, UNIQUE(session_id, number), FOREIGN KEY(session_id) REFERENCES session(id), FOREIGN KEY(frame_id) REFERENCES frame(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Archive{
		db: db,
	}, nil
}

// Close closes the underlying database
func (a *Archive) Close() error {
	return a.db.Close()
}

// AddSession returns the id of the session called name, creating it if
// needed. An existing session keeps its original seed and layout.
func (a *Archive) AddSession(name string, seed uint64, layout string) (int64, error) {
	var id int64
	switch err := a.db.QueryRow("SELECT id FROM session WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		// The driver does not accept uint64 values with the high bit set
		result, err := a.db.Exec("INSERT INTO session (name, seed, layout) VALUES (?, ?, ?)", name, int64(seed), layout)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func (a *Archive) addFrame(m image.Image) (int64, error) {
	b := new(bytes.Buffer)
	if err := png.Encode(b, m); err != nil {
		return 0, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b.Bytes()))

	var id int64
	switch err := a.db.QueryRow("SELECT id FROM frame WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		r := m.Bounds()
		result, err := a.db.Exec("INSERT OR IGNORE INTO frame (sha1, width, height, png) VALUES (?, ?, ?, ?)", sha, r.Dx(), r.Dy(), b.Bytes())
		if err != nil {
			return 0, err
		}
		// Another writer may have inserted the same frame first
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			if err := a.db.QueryRow("SELECT id FROM frame WHERE sha1 = ?", sha).Scan(&id); err != nil {
				return 0, err
			}
			return id, nil
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// AddFrame stores m as frame number of session
func (a *Archive) AddFrame(session int64, number int, m image.Image) error {
	frame, err := a.addFrame(m)
	if err != nil {
		return err
	}

	if _, err := a.db.Exec("INSERT OR REPLACE INTO session_frame (session_id, number, frame_id) VALUES (?, ?, ?)", session, number, frame); err != nil {
		return err
	}

	return nil
}

// FindFrame returns frame number of session, or nil if it was never stored
func (a *Archive) FindFrame(session int64, number int) (image.Image, error) {
	var b []byte
	switch err := a.db.QueryRow("SELECT f.png FROM session_frame AS sf JOIN frame AS f ON sf.frame_id = f.id WHERE sf.session_id = ? AND sf.number = ?", session, number).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return png.Decode(bytes.NewReader(b))
	default:
		return nil, err
	}
}

// FindSession returns the session called name
func (a *Archive) FindSession(name string) (*Session, error) {
	s := &Session{Name: name}
	var seed int64
	switch err := a.db.QueryRow("SELECT s.id, s.seed, s.layout, COUNT(sf.number) FROM session AS s LEFT JOIN session_frame AS sf ON sf.session_id = s.id WHERE s.name = ? GROUP BY s.id", name).Scan(&s.ID, &seed, &s.Layout, &s.Frames); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %q", errNoSession, name)
	case nil:
		s.Seed = uint64(seed)
		return s, nil
	default:
		return nil, err
	}
}

// Frames returns the number of distinct frames stored
func (a *Archive) Frames() (int, error) {
	var n int
	if err := a.db.QueryRow("SELECT COUNT(*) FROM frame").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
