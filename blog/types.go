package blog

// User is a registered account. Password holds the encoded pbkdf2 digest,
// never the plaintext.
type User struct {
	ID       int64
	Email    string
	Password string
	Name     string
}

// BlogPost is one published entry. Date is the human-readable publish date
// ("January 02, 2006"); Author is the owning user's display name, joined in
// on read.
type BlogPost struct {
	ID       int64
	AuthorID int64
	Author   string
	Title    string
	Subtitle string
	Date     string
	Body     string
	ImgURL   string
}

// Comment belongs to one user and one post. AuthorName is joined in on read
// for display.
type Comment struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	PostID     int64
	Text       string
}

// Image describes an uploaded post header image stored under the static dir.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}
