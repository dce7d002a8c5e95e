// Package views provides the HTML components for the blog site and the
// cafe API landing page, built as templ components. Handlers never build
// markup themselves; they call into this package.
package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/abarak/dailygrind/blog"
)

// Blog returns the component set the blog App renders with.
func Blog(siteName string) blog.ViewFuncs {
	v := &blogViews{siteName: siteName}
	return blog.ViewFuncs{
		Home:        v.home,
		Post:        v.post,
		About:       v.about,
		Contact:     v.contact,
		Login:       v.login,
		Register:    v.register,
		MakePost:    v.makePost,
		Images:      v.images,
		Forbidden:   v.statusPage("403 - Forbidden", "You don't have permission to do that."),
		NotFound:    v.statusPage("404 - Not Found", "That page doesn't exist."),
		ServerError: v.statusPage("500 - Server Error", "Something went wrong on our end."),
	}
}

type blogViews struct {
	siteName string
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// page wraps body in the shared layout: head, nav (varying with the current
// user), flash messages, footer.
func (v *blogViews) page(title string, user *blog.User, flashes []string, body func(w io.Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s - %s</title>
<link rel="stylesheet" href="/public/styles.css">
</head>
<body>
<nav>
<a href="/">%s</a>
<a href="/about">About</a>
<a href="/contact">Contact</a>
`, esc(title), esc(v.siteName), esc(v.siteName))
		if user == nil {
			io.WriteString(w, `<a href="/login">Log In</a>
<a href="/register">Register</a>
`)
		} else {
			fmt.Fprintf(w, `<span>Hi, %s</span>
<a href="/logout">Log Out</a>
`, esc(user.Name))
			if user.ID == 1 {
				io.WriteString(w, `<a href="/create_post">New Post</a>
<a href="/images">Images</a>
`)
			}
		}
		io.WriteString(w, "</nav>\n")
		for _, msg := range flashes {
			fmt.Fprintf(w, `<p class="flash">%s</p>
`, esc(msg))
		}
		io.WriteString(w, "<main>\n")
		body(w)
		io.WriteString(w, "</main>\n</body>\n</html>\n")
		return nil
	})
}

func (v *blogViews) home(user *blog.User, posts []blog.BlogPost, flashes []string) templ.Component {
	return v.page(v.siteName, user, flashes, func(w io.Writer) {
		io.WriteString(w, "<h1>"+esc(v.siteName)+"</h1>\n<ul class=\"posts\">\n")
		for _, p := range posts {
			id := strconv.FormatInt(p.ID, 10)
			fmt.Fprintf(w, `<li>
<a href="/post/%s"><h2>%s</h2></a>
<h3>%s</h3>
<p>Posted by %s on %s</p>
`, id, esc(p.Title), esc(p.Subtitle), esc(p.Author), esc(p.Date))
			if user != nil && user.ID == 1 {
				fmt.Fprintf(w, `<a href="/edit/%s">Edit</a> <a href="/delete/%s">Delete</a>
`, id, id)
			}
			io.WriteString(w, "</li>\n")
		}
		io.WriteString(w, "</ul>\n")
	})
}

func (v *blogViews) post(user *blog.User, post *blog.BlogPost, comments []blog.Comment, flashes []string, csrfToken string) templ.Component {
	title := "Post"
	if post != nil {
		title = post.Title
	}
	return v.page(title, user, flashes, func(w io.Writer) {
		if post == nil {
			io.WriteString(w, "<p>This post could not be found.</p>\n")
		} else {
			fmt.Fprintf(w, `<article>
<img src="%s" alt="">
<h1>%s</h1>
<h2>%s</h2>
<p>Posted by %s on %s</p>
%s
</article>
`, esc(post.ImgURL), esc(post.Title), esc(post.Subtitle), esc(post.Author), esc(post.Date), post.Body)
		}
		io.WriteString(w, "<section class=\"comments\">\n<h3>Comments</h3>\n<ul>\n")
		for _, cm := range comments {
			fmt.Fprintf(w, `<li><strong>%s</strong>: %s</li>
`, esc(cm.AuthorName), esc(cm.Text))
		}
		io.WriteString(w, "</ul>\n")
		fmt.Fprintf(w, `<form method="post">
<input type="hidden" name="_csrf" value="%s">
<textarea name="comment" placeholder="Write a comment"></textarea>
<button type="submit">Submit Comment</button>
</form>
</section>
`, esc(csrfToken))
	})
}

func (v *blogViews) about(user *blog.User) templ.Component {
	return v.page("About", user, nil, func(w io.Writer) {
		io.WriteString(w, "<h1>About Us</h1>\n<p>A little corner of the internet for coffee and writing.</p>\n")
	})
}

func (v *blogViews) contact(user *blog.User) templ.Component {
	return v.page("Contact", user, nil, func(w io.Writer) {
		io.WriteString(w, "<h1>Contact</h1>\n<p>Drop us a line at hello@dailygrind.example.</p>\n")
	})
}

func (v *blogViews) login(user *blog.User, flashes []string, csrfToken string) templ.Component {
	return v.page("Log In", user, flashes, func(w io.Writer) {
		fmt.Fprintf(w, `<h1>Log In</h1>
<form method="post" action="/login">
<input type="hidden" name="_csrf" value="%s">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Log In</button>
</form>
`, esc(csrfToken))
	})
}

func (v *blogViews) register(user *blog.User, flashes []string, csrfToken string) templ.Component {
	return v.page("Register", user, flashes, func(w io.Writer) {
		fmt.Fprintf(w, `<h1>Register</h1>
<form method="post" action="/register">
<input type="hidden" name="_csrf" value="%s">
<label>Name <input type="text" name="name" required></label>
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign Up</button>
</form>
`, esc(csrfToken))
	})
}

func (v *blogViews) makePost(user *blog.User, post blog.BlogPost, isEdit bool, flashes []string, csrfToken string) templ.Component {
	heading := "New Post"
	action := "/create_post"
	if isEdit {
		heading = "Edit Post"
		action = "/edit/" + strconv.FormatInt(post.ID, 10)
	}
	return v.page(heading, user, flashes, func(w io.Writer) {
		fmt.Fprintf(w, `<h1>%s</h1>
<form method="post" action="%s">
<input type="hidden" name="_csrf" value="%s">
<label>Title <input type="text" name="title" value="%s" required></label>
<label>Subtitle <input type="text" name="subtitle" value="%s" required></label>
<label>Image URL <input type="url" name="img_url" value="%s" required></label>
<label>Body <textarea name="body">%s</textarea></label>
<button type="submit">Submit Post</button>
</form>
`, esc(heading), action, esc(csrfToken), esc(post.Title), esc(post.Subtitle), esc(post.ImgURL), esc(post.Body))
	})
}

func (v *blogViews) images(user *blog.User, images []blog.Image, csrfToken string) templ.Component {
	return v.page("Images", user, nil, func(w io.Writer) {
		io.WriteString(w, "<h1>Uploaded Images</h1>\n<ul class=\"images\">\n")
		for _, img := range images {
			fmt.Fprintf(w, `<li>
<img src="/public/uploads/%s" alt="%s" width="160">
<code>/public/uploads/%s</code> (%dx%d, %d bytes)
<form method="post" action="/images/delete/%s">
<input type="hidden" name="_csrf" value="%s">
<button type="submit">Delete</button>
</form>
</li>
`, esc(img.Filename), esc(img.OriginalName), esc(img.Filename), img.Width, img.Height, img.Size, esc(img.Filename), esc(csrfToken))
		}
		io.WriteString(w, "</ul>\n")
		fmt.Fprintf(w, `<form method="post" action="/images/upload" enctype="multipart/form-data">
<input type="hidden" name="_csrf" value="%s">
<input type="file" name="image" accept="image/*" required>
<button type="submit">Upload</button>
</form>
`, esc(csrfToken))
	})
}

func (v *blogViews) statusPage(heading, detail string) func() templ.Component {
	return func() templ.Component {
		return v.page(heading, nil, nil, func(w io.Writer) {
			fmt.Fprintf(w, "<h1>%s</h1>\n<p>%s</p>\n<a href=\"/\">Back home</a>\n", esc(heading), esc(detail))
		})
	}
}
