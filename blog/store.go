package blog

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
	ErrNotFound       = sql.ErrNoRows
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateTitle = errors.New("post title already exists")
)

// Store wraps a SQLite database and provides CRUD operations for users,
// posts, comments, and uploaded images.
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
	// WAL for concurrent read/write access; busy_timeout so writers wait
	// instead of returning SQLITE_BUSY immediately.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
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
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS blog_posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    author_id INTEGER NOT NULL REFERENCES users(id),
    title TEXT NOT NULL UNIQUE,
    subtitle TEXT NOT NULL,
    date TEXT NOT NULL,
    body TEXT NOT NULL,
    img_url TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS comments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    author_id INTEGER NOT NULL REFERENCES users(id),
    post_id INTEGER NOT NULL,
    text TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure on the given column.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") && strings.Contains(msg, column)
}

// --- Users ---

// CreateUser inserts a new user and returns it with the assigned id.
// The password argument must already be an encoded digest.
func (s *Store) CreateUser(name, email, passwordDigest string) (User, error) {
	res, err := s.db.Exec(`INSERT INTO users (email, password, name) VALUES (?, ?, ?)`,
		email, passwordDigest, name)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return User{}, ErrDuplicateEmail
		}
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return User{ID: id, Email: email, Password: passwordDigest, Name: name}, nil
}

// GetUser returns a user by id.
func (s *Store) GetUser(id int64) (User, error) {
	var u User
	err := s.db.QueryRow(`SELECT id, email, password, name FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Password, &u.Name)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUserByEmail returns a user by exact email match.
func (s *Store) GetUserByEmail(email string) (User, error) {
	var u User
	err := s.db.QueryRow(`SELECT id, email, password, name FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.Name)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// --- Posts ---

const postColumns = `p.id, p.author_id, COALESCE(u.name, ''), p.title, p.subtitle, p.date, p.body, p.img_url`

func scanPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var p BlogPost
	err := row.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL)
	return p, err
}

// ListPosts returns every post in storage order, with author names joined in.
func (s *Store) ListPosts() ([]BlogPost, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM blog_posts p LEFT JOIN users u ON u.id = p.author_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a single post by id.
func (s *Store) GetPost(id int64) (BlogPost, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM blog_posts p LEFT JOIN users u ON u.id = p.author_id WHERE p.id = ?`, id))
}

// CreatePost inserts a new post and returns the assigned id.
func (s *Store) CreatePost(p BlogPost) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO blog_posts (author_id, title, subtitle, date, body, img_url) VALUES (?, ?, ?, ?, ?, ?)`,
		p.AuthorID, p.Title, p.Subtitle, p.Date, p.Body, p.ImgURL)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return 0, ErrDuplicateTitle
		}
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePost overwrites the editable fields of an existing post. The id,
// publish date, and comments are untouched.
func (s *Store) UpdatePost(p BlogPost) error {
	_, err := s.db.Exec(`UPDATE blog_posts SET author_id = ?, title = ?, subtitle = ?, body = ?, img_url = ? WHERE id = ?`,
		p.AuthorID, p.Title, p.Subtitle, p.Body, p.ImgURL, p.ID)
	if err != nil && isUniqueViolation(err, "blog_posts.title") {
		return ErrDuplicateTitle
	}
	return err
}

// DeletePost removes a post by id. Comments referencing it are left in
// place; the schema defines no cascade.
func (s *Store) DeletePost(id int64) error {
	_, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = ?`, id)
	return err
}

// --- Comments ---

// CreateComment inserts a comment tying a user to a post.
func (s *Store) CreateComment(c Comment) error {
	_, err := s.db.Exec(`INSERT INTO comments (author_id, post_id, text) VALUES (?, ?, ?)`,
		c.AuthorID, c.PostID, c.Text)
	return err
}

// ListComments returns every comment in the system with author names joined
// in. The post page deliberately shows the full set, matching the site's
// historical behavior.
func (s *Store) ListComments() ([]Comment, error) {
	rows, err := s.db.Query(`SELECT c.id, c.author_id, COALESCE(u.name, ''), c.post_id, c.text FROM comments c LEFT JOIN users u ON u.id = c.author_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.AuthorID, &cm.AuthorName, &cm.PostID, &cm.Text); err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// --- Images ---

// SaveImage records an uploaded image's metadata.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns all uploaded images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes an image record by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}
