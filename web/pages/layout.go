package pages

import "github.com/rohanthewiz/element"

// pageStyles is the shared minimal dark styling for server-rendered pages.
const pageStyles = `
body { background: #000; color: #e2e8f0; font-family: system-ui, sans-serif;
       display: flex; justify-content: center; padding: 3rem 1rem; }
.card { max-width: 42rem; width: 100%; border: 1px solid #1e293b;
        border-radius: 1rem; padding: 1.5rem; background: rgba(0,0,0,0.8); }
.card h1 { font-size: 1rem; margin: 0 0 0.25rem; }
.card .meta { font-size: 0.75rem; color: #64748b; margin-bottom: 1rem; }
.card pre { white-space: pre-wrap; font: inherit; font-size: 0.9rem;
            color: #cbd5e1; margin: 0; }
`

// layout wraps body content in the base HTML document.
func layout(title string, body func(b *element.Builder)) string {
	b := element.NewBuilder()

	b.Html().R(
		b.Head().R(
			b.Meta("charset", "UTF-8"),
			b.Meta("viewport", "width=device-width, initial-scale=1.0"),
			b.Title().T(title),
			b.Style().T(pageStyles),
		),
		b.Body().R(
			b.Wrap(func() { body(b) }),
		),
	)

	return b.String()
}
