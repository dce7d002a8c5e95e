package cafe

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Sentinel errors surfaced by Store lookups and writes.
var (
	ErrNotFound      = sql.ErrNoRows
	ErrDuplicateName = errors.New("cafe name already exists")
)

// Store wraps a SQLite database and provides CRUD operations for cafes.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and bootstraps the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS cafes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    map_url TEXT NOT NULL,
    img_url TEXT NOT NULL,
    location TEXT NOT NULL,
    seats TEXT NOT NULL,
    has_toilet INTEGER NOT NULL,
    has_wifi INTEGER NOT NULL,
    has_sockets INTEGER NOT NULL,
    can_take_calls INTEGER NOT NULL,
    coffee_price TEXT
);
`)
	return err
}

const cafeColumns = `id, name, map_url, img_url, location, seats, has_toilet, has_wifi, has_sockets, can_take_calls, coffee_price`

func scanCafe(row interface{ Scan(...any) error }) (Cafe, error) {
	var c Cafe
	var toilet, wifi, sockets, calls int
	var price sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.MapURL, &c.ImgURL, &c.Location, &c.Seats,
		&toilet, &wifi, &sockets, &calls, &price)
	if err != nil {
		return Cafe{}, err
	}
	c.HasToilet = toilet == 1
	c.HasWifi = wifi == 1
	c.HasSockets = sockets == 1
	c.CanTakeCalls = calls == 1
	if price.Valid {
		c.CoffeePrice = &price.String
	}
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetCafe returns a cafe by primary key.
func (s *Store) GetCafe(id int64) (Cafe, error) {
	return scanCafe(s.db.QueryRow(`SELECT `+cafeColumns+` FROM cafes WHERE id = ?`, id))
}

// ListCafes returns every cafe in storage order.
func (s *Store) ListCafes() ([]Cafe, error) {
	rows, err := s.db.Query(`SELECT ` + cafeColumns + ` FROM cafes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cafes []Cafe
	for rows.Next() {
		c, err := scanCafe(rows)
		if err != nil {
			return nil, err
		}
		cafes = append(cafes, c)
	}
	return cafes, rows.Err()
}

// SearchByLocation returns all cafes whose location matches loc exactly
// (case-sensitive).
func (s *Store) SearchByLocation(loc string) ([]Cafe, error) {
	rows, err := s.db.Query(`SELECT `+cafeColumns+` FROM cafes WHERE location = ?`, loc)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cafes []Cafe
	for rows.Next() {
		c, err := scanCafe(rows)
		if err != nil {
			return nil, err
		}
		cafes = append(cafes, c)
	}
	return cafes, rows.Err()
}

// CreateCafe inserts a new cafe and returns the assigned id.
func (s *Store) CreateCafe(c Cafe) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO cafes (name, map_url, img_url, location, seats, has_toilet, has_wifi, has_sockets, can_take_calls, coffee_price) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.MapURL, c.ImgURL, c.Location, c.Seats,
		boolToInt(c.HasToilet), boolToInt(c.HasWifi), boolToInt(c.HasSockets), boolToInt(c.CanTakeCalls),
		c.CoffeePrice)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			return 0, ErrDuplicateName
		}
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePrice overwrites the coffee_price field of the given cafe.
func (s *Store) UpdatePrice(id int64, price string) error {
	_, err := s.db.Exec(`UPDATE cafes SET coffee_price = ? WHERE id = ?`, price, id)
	return err
}

// DeleteCafe removes a cafe by id.
func (s *Store) DeleteCafe(id int64) error {
	_, err := s.db.Exec(`DELETE FROM cafes WHERE id = ?`, id)
	return err
}

// Exists reports whether a cafe with the given id is present, by scanning
// the full table the same way the update and delete endpoints always have.
func (s *Store) Exists(id int64) bool {
	cafes, err := s.ListCafes()
	if err != nil {
		return false
	}
	for _, c := range cafes {
		if c.ID == id {
			return true
		}
	}
	return false
}
