package blog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// postDateLayout is the human-readable publish date stamped on new posts.
const postDateLayout = "January 02, 2006"

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Store.ListPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(CurrentUser(c), posts, takeFlashes(c)))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(CurrentUser(c)))
}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact(CurrentUser(c)))
}

// handleShowPost renders a single post with the comment form. An absent post
// renders the page with a nil post rather than a 404. A POST with comment
// text requires a logged-in user and creates the comment before rendering.
func (a *App) handleShowPost(c echo.Context) error {
	var post *BlogPost
	if id, err := strconv.ParseInt(c.Param("id"), 10, 64); err == nil {
		p, err := a.Store.GetPost(id)
		switch {
		case err == nil:
			post = &p
		case !errors.Is(err, ErrNotFound):
			return err
		}
	}

	if c.Request().Method == http.MethodPost {
		text := strings.TrimSpace(c.FormValue("comment"))
		if text != "" {
			user := CurrentUser(c)
			if user == nil {
				addFlash(c, "You need to login or register to comment.")
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			if post != nil {
				if err := a.Store.CreateComment(Comment{
					AuthorID: user.ID,
					PostID:   post.ID,
					Text:     text,
				}); err != nil {
					return err
				}
			}
		}
	}

	// The page lists every comment in the system, not just this post's.
	comments, err := a.Store.ListComments()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(CurrentUser(c), post, comments, takeFlashes(c), CsrfToken(c)))
}

// --- Authentication ---

func (a *App) handleRegister(c echo.Context) error {
	if c.Request().Method == http.MethodGet {
		return Render(c, a.Views.Register(CurrentUser(c), takeFlashes(c), CsrfToken(c)))
	}

	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if _, err := a.Store.GetUserByEmail(email); err == nil {
		addFlash(c, "You've already signed up with that email, log in instead!")
		return c.Redirect(http.StatusSeeOther, "/login")
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	digest, err := HashPassword(password, a.Config.HashIterations)
	if err != nil {
		addFlash(c, "Invalid password.")
		return c.Redirect(http.StatusSeeOther, "/register")
	}
	user, err := a.Store.CreateUser(name, email, digest)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			addFlash(c, "You've already signed up with that email, log in instead!")
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return err
	}

	// Registration logs the new user in immediately.
	if err := setUserSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleLogin(c echo.Context) error {
	if c.Request().Method == http.MethodGet {
		return Render(c, a.Views.Login(CurrentUser(c), takeFlashes(c), CsrfToken(c)))
	}

	if a.loginLimiter != nil && !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}

	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	user, err := a.Store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Policy choice: unknown emails are pointed at registration.
			addFlash(c, "That email does not exist, please try again.")
			return c.Redirect(http.StatusSeeOther, "/register")
		}
		return err
	}

	if !VerifyPassword(user.Password, password) {
		if a.loginLimiter != nil {
			a.loginLimiter.Record(c.RealIP())
		}
		addFlash(c, "Password incorrect, please try again.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if err := setUserSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// handleLogout ends the session unconditionally, regardless of prior state.
func (a *App) handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// --- Admin content management ---

func (a *App) handleCreatePost(c echo.Context) error {
	user := CurrentUser(c)
	if c.Request().Method == http.MethodGet {
		return Render(c, a.Views.MakePost(user, BlogPost{}, false, takeFlashes(c), CsrfToken(c)))
	}

	post := BlogPost{
		AuthorID: user.ID,
		Title:    strings.TrimSpace(c.FormValue("title")),
		Subtitle: strings.TrimSpace(c.FormValue("subtitle")),
		Body:     c.FormValue("body"),
		ImgURL:   strings.TrimSpace(c.FormValue("img_url")),
		Date:     time.Now().Format(postDateLayout),
	}
	if _, err := a.Store.CreatePost(post); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			addFlash(c, "A post with that title already exists.")
			return c.Redirect(http.StatusSeeOther, "/create_post")
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleEditPost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	post, err := a.Store.GetPost(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}

	if c.Request().Method == http.MethodGet {
		return Render(c, a.Views.MakePost(CurrentUser(c), post, true, takeFlashes(c), CsrfToken(c)))
	}

	post.Title = strings.TrimSpace(c.FormValue("title"))
	post.Subtitle = strings.TrimSpace(c.FormValue("subtitle"))
	post.ImgURL = strings.TrimSpace(c.FormValue("img_url"))
	post.Body = c.FormValue("body")
	// Editing re-stamps authorship with the acting admin.
	post.AuthorID = CurrentUser(c).ID
	if err := a.Store.UpdatePost(post); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			addFlash(c, "A post with that title already exists.")
			return c.Redirect(http.StatusSeeOther, "/edit/"+c.Param("id"))
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/post/"+c.Param("id"))
}

func (a *App) handleDeletePost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	if err := a.Store.DeletePost(id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
