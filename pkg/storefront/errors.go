package storefront

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-storetheme/pkg/helpers"
	"github.com/goliatone/go-storetheme/pkg/markup"
	"github.com/goliatone/go-storetheme/pkg/render/template/gotemplate"
	"github.com/goliatone/go-storetheme/pkg/source"
)

// MissingSectionError reports an order key with no matching section.
type MissingSectionError struct {
	Key      string
	Document string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("storefront: section %q not found in %s", e.Key, e.Document)
}

type (
	// PartialNotFoundError reports a partial or settings file that could
	// not be read.
	PartialNotFoundError = source.PartialNotFoundError
	// HelperArgumentError reports a helper invoked with unusable arguments.
	HelperArgumentError = helpers.HelperArgumentError
	// ExecutionError locates a failure inside a compiled template.
	ExecutionError = gotemplate.ExecutionError
)

// ErrorPage renders a standalone HTML page for err. Development pages show
// the error chain; production pages show a generic notice.
func ErrorPage(err error, development bool) string {
	if development {
		body := markup.El("body")
		if err != nil {
			body.Append(markup.El("div").Append(markup.El("p").Append(markup.Text(err.Error()))))
			if chain := errorChain(err); len(chain) > 1 {
				list := markup.El("ol")
				for _, link := range chain {
					list.Append(markup.El("li").Append(markup.Text(link)))
				}
				body.Append(markup.El("div").Append(list))
			}
		}
		return page("Template Error", nil, body)
	}

	style := markup.El("style").Append(markup.Raw(productionStyle))
	body := markup.El("body").Append(
		markup.El("div", markup.A("class", "warning-content")).Append(
			markup.El("h1").Append(markup.Text("Internal Server Error")),
			markup.El("p").Append(
				markup.Text("Please forgive the inconvenience."),
				markup.El("br"),
				markup.Text("We are currently trying to fix the problem."),
			),
			markup.El("p").Append(markup.Text("We'll be back up soon!")),
		),
	)
	return page("Server Error", style, body)
}

func page(title string, style markup.Node, body *markup.Element) string {
	head := markup.El("head").Append(
		markup.El("meta", markup.A("charset", "UTF-8")),
		markup.El("meta", markup.A("name", "viewport"), markup.A("content", "width=device-width, initial-scale=1.0")),
		markup.El("title").Append(markup.Text(title)),
	)
	if style != nil {
		head.Append(style)
	}
	return "<!DOCTYPE html>" + markup.El("html", markup.A("lang", "en")).Append(head, body).String()
}

func errorChain(err error) []string {
	var out []string
	for err != nil {
		out = append(out, fmt.Sprintf("%T: %v", err, err))
		err = errors.Unwrap(err)
	}
	return out
}

const productionStyle = `
body { background: #eeeef4; color: #000000; font-family: Roboto, sans-serif; width: 100%; overflow-x: hidden; }
h1 { font-size: 27pt; color: #8a50fc; font-weight: 500; }
p { font-weight: 400; font-size: 15px; }
.warning-content { position: absolute; top: 25%; width: 100%; height: 300px; text-align: center; margin: 0; }
`
