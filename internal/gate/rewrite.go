package gate

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
)

// jwtSegmentRe matches the 3-dot-separated shape of a signed token. Links that
// already carry such a segment are left alone so rewriting stays idempotent.
var jwtSegmentRe = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)

const minTokenLength = 20

// LinkRewriter re-inserts the admin token into outgoing responses: redirect
// targets, navigational and form attributes, and admin paths embedded in
// inline script. The whole transform is heuristic and best-effort; the
// session-cache fallback in the middleware covers anything it misses.
type LinkRewriter struct {
	prefix      string
	attrDouble  *regexp.Regexp
	attrSingle  *regexp.Regexp
	bareDouble  *regexp.Regexp
	bareSingle  *regexp.Regexp
	emptyAction *regexp.Regexp
}

// NewLinkRewriter builds rewrite rules for the given admin prefix.
func NewLinkRewriter(prefix string) *LinkRewriter {
	p := regexp.QuoteMeta(prefix)
	return &LinkRewriter{
		prefix:      prefix,
		attrDouble:  regexp.MustCompile(`(href|action|data-[a-zA-Z0-9-]+)="(` + p + `(?:/[^"]*)?)"`),
		attrSingle:  regexp.MustCompile(`(href|action|data-[a-zA-Z0-9-]+)='(` + p + `(?:/[^']*)?)'`),
		bareDouble:  regexp.MustCompile(`"(` + p + `(?:/[^"]*)?)"`),
		bareSingle:  regexp.MustCompile(`'(` + p + `(?:/[^']*)?)'`),
		emptyAction: regexp.MustCompile(`action=(""|'')`),
	}
}

// RewritePath inserts the token as the second path segment. Paths that
// already carry a token-shaped segment are returned unchanged.
func (r *LinkRewriter) RewritePath(path, token string) string {
	if path != r.prefix && !strings.HasPrefix(path, r.prefix+"/") {
		return path
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(path, r.prefix), "/")
	if first := strings.SplitN(rest, "/", 2)[0]; looksLikeToken(first) {
		return path
	}
	if rest == "" {
		return r.prefix + "/" + token + "/"
	}
	return r.prefix + "/" + token + "/" + rest
}

// RewriteLocation rewrites a redirect target, preserving the query string and
// recursively rewriting a next= redirect-target parameter when present.
func (r *LinkRewriter) RewriteLocation(location, token string) string {
	pathPart := location
	queryPart := ""
	if idx := strings.IndexByte(location, '?'); idx >= 0 {
		pathPart = location[:idx]
		queryPart = location[idx+1:]
	}

	rewritten := r.RewritePath(pathPart, token)

	if queryPart == "" {
		return rewritten
	}
	values, err := url.ParseQuery(queryPart)
	if err != nil {
		return rewritten + "?" + queryPart
	}
	if next := values.Get("next"); next != "" {
		values.Set("next", r.RewriteLocation(next, token))
	}
	return rewritten + "?" + values.Encode()
}

// RewriteHTML applies the ordered substitution rules to a decoded HTML body.
// currentPath is the canonical admin path of the page being served; empty
// form actions are pointed back at its gated equivalent so browser-default
// form submission stays behind the gate.
func (r *LinkRewriter) RewriteHTML(body, token, currentPath string) string {
	replaceAttr := func(re *regexp.Regexp, quote string) {
		body = re.ReplaceAllStringFunc(body, func(match string) string {
			groups := re.FindStringSubmatch(match)
			return groups[1] + "=" + quote + r.RewritePath(groups[2], token) + quote
		})
	}
	replaceBare := func(re *regexp.Regexp, quote string) {
		body = re.ReplaceAllStringFunc(body, func(match string) string {
			groups := re.FindStringSubmatch(match)
			return quote + r.RewritePath(groups[1], token) + quote
		})
	}

	replaceAttr(r.attrDouble, `"`)
	replaceAttr(r.attrSingle, `'`)
	replaceBare(r.bareDouble, `"`)
	replaceBare(r.bareSingle, `'`)

	gatedCurrent := r.RewritePath(currentPath, token)
	body = r.emptyAction.ReplaceAllString(body, `action="`+gatedCurrent+`"`)

	return body
}

// RewriteResponse applies the rules to an outgoing fiber response. Bodies
// that cannot be decoded as text are passed through untouched.
func (r *LinkRewriter) RewriteResponse(c *fiber.Ctx, token string) {
	if token == "" {
		return
	}

	status := c.Response().StatusCode()
	if status >= 300 && status < 400 {
		location := string(c.Response().Header.Peek(fiber.HeaderLocation))
		if location != "" {
			c.Response().Header.Set(fiber.HeaderLocation, r.RewriteLocation(location, token))
		}
		return
	}

	contentType := string(c.Response().Header.ContentType())
	if !strings.HasPrefix(contentType, fiber.MIMETextHTML) {
		return
	}
	body := c.Response().Body()
	if !utf8.Valid(body) {
		return
	}
	c.Response().SetBodyString(r.RewriteHTML(string(body), token, c.Path()))
}

func looksLikeToken(segment string) bool {
	return len(segment) >= minTokenLength && jwtSegmentRe.MatchString(segment)
}
