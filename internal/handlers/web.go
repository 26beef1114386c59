package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"quote_server/internal/models"
	"quote_server/internal/service"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/style.css
var styleCSS []byte

//go:embed static/favicon.ico
var faviconICO []byte

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const stylesheetPath = "/style.css"

// fallbackQuote is shown when the store has nothing to offer.
var fallbackQuote = models.Quote{
	ID:        "error",
	WhosThere: "Oh no!",
	AnswerWho: "The quote you were looking for decided to take a day off. Try another!",
	Source:    "The Server",
}

type indexPage struct {
	Quote      models.Quote
	Tags       string
	Stylesheet string
}

func serveStylesheet(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", styleCSS)
}

func serveFavicon(c *gin.Context) {
	c.Data(http.StatusOK, "image/vnd.microsoft.icon", faviconICO)
}

// indexPage resolves ?tags= to a redirect, renders ?id=, and otherwise
// redirects to a random quote. Failures fall through to the next strategy.
func (h *Handler) indexPage(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("tags"); strings.TrimSpace(raw) != "" {
		id, err := h.services.MatchIDByTags(ctx, service.SplitTagList(raw))
		switch {
		case err == nil:
			redirectToQuote(c, id)
			return
		case errors.Is(err, service.ErrNoCriteria), errors.Is(err, service.ErrNoMatch), errors.Is(err, service.ErrValidation):
			if h.log != nil {
				h.log.Debugw("web_tags_unmatched", "tags", raw)
			}
		default:
			if h.log != nil {
				h.log.Errorw("web_tagged_quote_failed", "err", err, "tags", raw)
			}
		}
	}

	if id := c.Query("id"); id != "" {
		q, err := h.services.Lookup(ctx, id)
		if err == nil {
			renderQuote(c, q.Quote(), strings.Join(q.Tags, ", "))
			return
		}
		if h.log != nil {
			h.log.Warnw("web_quote_lookup_failed", "err", err, "quote_id", id)
		}
	}

	id, err := h.services.RandomID(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("web_random_quote_failed", "err", err)
		}
		renderQuote(c, fallbackQuote, "error")
		return
	}
	redirectToQuote(c, id)
}

func redirectToQuote(c *gin.Context, id string) {
	c.Redirect(http.StatusSeeOther, "/?id="+url.QueryEscape(id))
}

func renderQuote(c *gin.Context, q models.Quote, tags string) {
	c.HTML(http.StatusOK, "index.html", indexPage{
		Quote:      q,
		Tags:       tags,
		Stylesheet: stylesheetPath,
	})
}
