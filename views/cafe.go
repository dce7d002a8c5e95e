package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/abarak/dailygrind/cafe"
)

// Cafe returns the component set the cafe API renders with.
func Cafe() cafe.ViewFuncs {
	return cafe.ViewFuncs{Home: cafeHome}
}

func cafeHome() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Cafe &amp; Wifi API</title>
</head>
<body>
<h1>Cafe &amp; Wifi API</h1>
<p>A JSON directory of laptop-friendly cafes.</p>
<ul>
<li><code>GET /random</code> — a random cafe</li>
<li><code>GET /all</code> — every cafe</li>
<li><code>GET /search?loc=&lt;location&gt;</code> — cafes at a location</li>
<li><code>POST /add</code> — add a cafe</li>
<li><code>PATCH /update-price/&lt;id&gt;?new_price=&lt;value&gt;</code> — update a price</li>
<li><code>DELETE /report_closed/&lt;id&gt;?api_key=&lt;key&gt;</code> — report a closure</li>
</ul>
</body>
</html>
`)
		return err
	})
}
