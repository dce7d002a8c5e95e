package blog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo-contrib/session"
)

// stub returns a component that writes a short marker, so handler tests can
// run without real templates.
func stub(name string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, name)
		return err
	})
}

func stubViews() ViewFuncs {
	return ViewFuncs{
		Home: func(*User, []BlogPost, []string) templ.Component { return stub("home") },
		Post: func(_ *User, post *BlogPost, comments []Comment, _ []string, _ string) templ.Component {
			if post == nil {
				return stub("post:nil")
			}
			return stub("post:" + post.Title)
		},
		About:    func(*User) templ.Component { return stub("about") },
		Contact:  func(*User) templ.Component { return stub("contact") },
		Login:    func(*User, []string, string) templ.Component { return stub("login") },
		Register: func(*User, []string, string) templ.Component { return stub("register") },
		MakePost: func(_ *User, _ BlogPost, isEdit bool, _ []string, _ string) templ.Component {
			if isEdit {
				return stub("edit-post")
			}
			return stub("make-post")
		},
		Images:      func(*User, []Image, string) templ.Component { return stub("images") },
		Forbidden:   func() templ.Component { return stub("forbidden") },
		NotFound:    func() templ.Component { return stub("not-found") },
		ServerError: func() templ.Component { return stub("server-error") },
	}
}

// setupTestApp wires an App with a temp database and the session and
// user-loading middleware, but without CSRF so tests can post forms.
func setupTestApp(t *testing.T) *App {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	a := New(Config{SessionSecret: "test-secret", HashIterations: 1000}, stubViews())
	a.Store = store
	a.loginLimiter = NewLoginLimiter(100, time.Minute)
	a.Echo.HTTPErrorHandler = a.httpErrorHandler
	a.Echo.Use(session.Middleware(newSessionStore("test-secret", false)))
	a.Echo.Use(a.loadUser)
	a.setupRoutes()
	return a
}

func get(a *App, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func postForm(a *App, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

// register signs a user up and returns the authenticated session cookies.
func register(t *testing.T, a *App, name, email, password string) []*http.Cookie {
	t.Helper()
	rec := postForm(a, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("register redirect = %q, want /", loc)
	}
	return rec.Result().Cookies()
}

func TestRegisterLogsUserIn(t *testing.T) {
	a := setupTestApp(t)

	cookies := register(t, a, "Ada", "ada@example.com", "hunter22")

	// First registered user has id 1 and passes the admin gate.
	rec := get(a, "/create_post", cookies)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /create_post as first user = %d, want 200", rec.Code)
	}

	u, err := a.Store.GetUserByEmail("ada@example.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if !VerifyPassword(u.Password, "hunter22") {
		t.Error("stored digest should verify against the password")
	}
	if u.Password == "hunter22" {
		t.Error("password must not be stored in plaintext")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := setupTestApp(t)

	register(t, a, "Ada", "ada@example.com", "hunter22")

	rec := postForm(a, "/register", url.Values{
		"name":     {"Impostor"},
		"email":    {"ada@example.com"},
		"password": {"different"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}

	var count int
	if err := a.Store.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d, want 1 (no second user created)", count)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	a := setupTestApp(t)

	rec := postForm(a, "/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/register" {
		t.Errorf("redirect = %q, want /register", loc)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	a := setupTestApp(t)
	register(t, a, "Ada", "ada@example.com", "hunter22")

	rec := postForm(a, "/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"not-it"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
}

func TestLoginSuccess(t *testing.T) {
	a := setupTestApp(t)
	register(t, a, "Ada", "ada@example.com", "hunter22")

	rec := postForm(a, "/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"hunter22"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}

	// The returned session must pass the admin gate for user 1.
	rec2 := get(a, "/create_post", rec.Result().Cookies())
	if rec2.Code != http.StatusOK {
		t.Errorf("GET /create_post after login = %d, want 200", rec2.Code)
	}
}

func TestAdminGate(t *testing.T) {
	a := setupTestApp(t)

	adminCookies := register(t, a, "Ada", "ada@example.com", "hunter22")   // id 1
	otherCookies := register(t, a, "Bob", "bob@example.com", "password1")  // id 2

	adminPaths := []string{"/create_post", "/edit/1", "/delete/1", "/images"}
	for _, path := range adminPaths {
		if rec := get(a, path, nil); rec.Code != http.StatusForbidden {
			t.Errorf("anonymous GET %s = %d, want 403", path, rec.Code)
		}
		if rec := get(a, path, otherCookies); rec.Code != http.StatusForbidden {
			t.Errorf("non-admin GET %s = %d, want 403", path, rec.Code)
		}
	}

	if rec := get(a, "/create_post", adminCookies); rec.Code != http.StatusOK {
		t.Errorf("admin GET /create_post = %d, want 200", rec.Code)
	}
}

func TestCreatePost(t *testing.T) {
	a := setupTestApp(t)
	adminCookies := register(t, a, "Ada", "ada@example.com", "hunter22")

	rec := postForm(a, "/create_post", url.Values{
		"title":    {"Morning Brew"},
		"subtitle": {"Notes on coffee"},
		"img_url":  {"https://example.com/brew.jpg"},
		"body":     {"<p>Grind fresh.</p>"},
	}, adminCookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	posts, err := a.Store.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("post count = %d, want 1", len(posts))
	}
	p := posts[0]
	if p.Title != "Morning Brew" || p.AuthorID != 1 {
		t.Errorf("post = %+v", p)
	}
	if p.Date != time.Now().Format(postDateLayout) {
		t.Errorf("Date = %q, want today's %q", p.Date, time.Now().Format(postDateLayout))
	}
}

func TestEditPost(t *testing.T) {
	a := setupTestApp(t)
	adminCookies := register(t, a, "Ada", "ada@example.com", "hunter22")

	id, err := a.Store.CreatePost(BlogPost{AuthorID: 1, Title: "Old", Subtitle: "s", Date: "January 02, 2006", Body: "b", ImgURL: "i"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	rec := postForm(a, "/edit/1", url.Values{
		"title":    {"New Title"},
		"subtitle": {"New Subtitle"},
		"img_url":  {"https://example.com/new.jpg"},
		"body":     {"<p>rewritten</p>"},
	}, adminCookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/post/1" {
		t.Errorf("redirect = %q, want /post/1", loc)
	}

	got, err := a.Store.GetPost(id)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "New Title" || got.Body != "<p>rewritten</p>" {
		t.Errorf("post not updated: %+v", got)
	}
	if got.Date != "January 02, 2006" {
		t.Errorf("edit must not change the publish date, got %q", got.Date)
	}
}

func TestDeletePost(t *testing.T) {
	a := setupTestApp(t)
	adminCookies := register(t, a, "Ada", "ada@example.com", "hunter22")

	id, _ := a.Store.CreatePost(BlogPost{AuthorID: 1, Title: "Doomed", Subtitle: "s", Date: "d", Body: "b", ImgURL: "i"})

	rec := get(a, "/delete/1", adminCookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if _, err := a.Store.GetPost(id); err == nil {
		t.Error("post should be gone after delete")
	}
}

func TestCommentRequiresLogin(t *testing.T) {
	a := setupTestApp(t)
	register(t, a, "Ada", "ada@example.com", "hunter22")
	a.Store.CreatePost(BlogPost{AuthorID: 1, Title: "T", Subtitle: "s", Date: "d", Body: "b", ImgURL: "i"})

	rec := postForm(a, "/post/1", url.Values{"comment": {"anonymous thoughts"}}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}

	comments, _ := a.Store.ListComments()
	if len(comments) != 0 {
		t.Errorf("comment count = %d, want 0", len(comments))
	}
}

func TestCommentAsLoggedInUser(t *testing.T) {
	a := setupTestApp(t)
	register(t, a, "Ada", "ada@example.com", "hunter22")
	cookies := register(t, a, "Bob", "bob@example.com", "password1")
	a.Store.CreatePost(BlogPost{AuthorID: 1, Title: "T", Subtitle: "s", Date: "d", Body: "b", ImgURL: "i"})

	rec := postForm(a, "/post/1", url.Values{"comment": {"great read"}}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	comments, err := a.Store.ListComments()
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("comment count = %d, want 1", len(comments))
	}
	cm := comments[0]
	if cm.AuthorID != 2 || cm.PostID != 1 || cm.Text != "great read" {
		t.Errorf("comment = %+v", cm)
	}
	if cm.AuthorName != "Bob" {
		t.Errorf("AuthorName = %q, want Bob", cm.AuthorName)
	}
}

func TestShowMissingPostRendersNullPost(t *testing.T) {
	a := setupTestApp(t)

	rec := get(a, "/post/99", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "post:nil" {
		t.Errorf("body = %q, want the null-post rendering", body)
	}
}

func TestLogout(t *testing.T) {
	a := setupTestApp(t)
	cookies := register(t, a, "Ada", "ada@example.com", "hunter22")

	rec := get(a, "/logout", cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	// The expired session no longer passes the admin gate.
	rec2 := get(a, "/create_post", rec.Result().Cookies())
	if rec2.Code != http.StatusForbidden {
		t.Errorf("GET /create_post after logout = %d, want 403", rec2.Code)
	}
}

func TestFeedContainsPosts(t *testing.T) {
	a := setupTestApp(t)
	register(t, a, "Ada", "ada@example.com", "hunter22")
	a.Store.CreatePost(BlogPost{AuthorID: 1, Title: "Feed Me", Subtitle: "s", Date: "January 02, 2006", Body: "b", ImgURL: "i"})

	rec := get(a, "/feed.xml", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Feed Me</title>") {
		t.Errorf("feed missing post title: %s", body)
	}
	if !strings.Contains(body, "/post/1") {
		t.Errorf("feed missing post link: %s", body)
	}
}
