package handlers

import (
	"errors"
	"net/http"

	"quote_server/internal/models"
	"quote_server/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errQuoteNotFound   = "no matching quote found"
	errNoQuotes        = "no quotes available"
	errInternal        = "internal server error"
	errInvalidBodyPref = "invalid body: "
	errInvalidRegKey   = "invalid registration key provided"
	errTokenCreation   = "internal error creating token"

	statusCreated = "created"
	tokenType     = "Bearer"
)

// logAndJSONError maps a service error onto an HTTP status and writes it.
// Store failures are logged with the given key and context.
func (h *Handler) logAndJSONError(c *gin.Context, err error, notFoundMsg, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoMatch):
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrValidation):
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.log != nil {
			h.log.Errorw(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
	}
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled, true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any, logKey string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow(logKey, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Get a quote by id
// @Tags         quotes
// @Produce      json
// @Param        quote_id  path  string  true  "ID of the quote to retrieve"
// @Success      200  {object}  models.TaggedQuote
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/quote/{quote_id} [get]
func (h *Handler) getQuote(c *gin.Context) {
	id := c.Param("quote_id")
	q, err := h.services.Lookup(c.Request.Context(), id)
	if err != nil {
		h.logAndJSONError(c, err, errQuoteNotFound, "quote_lookup_failed", "quote_id", id)
		return
	}
	c.JSON(http.StatusOK, q)
}

// @Summary      Get a quote matching every given tag
// @Description  Tags are trimmed and lower-cased. A quote matches when it carries all requested tags. With no usable tags a random quote is returned.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        tags  body  []string  true  "Tags to match"
// @Success      200  {object}  models.TaggedQuote
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/tagged-quote [post]
func (h *Handler) getTaggedQuote(c *gin.Context) {
	var tags []string
	if ok := h.bindJSONOrBadRequest(c, &tags, "tagged_quote_bad_request_body"); !ok {
		return
	}

	ctx := c.Request.Context()
	q, err := h.services.MatchByTags(ctx, tags)
	if errors.Is(err, service.ErrNoCriteria) {
		if h.log != nil {
			h.log.Debugw("tagged_quote_no_criteria", "tags", tags)
		}
		q, err = h.services.PickRandom(ctx)
		if err != nil {
			h.logAndJSONError(c, err, errNoQuotes, "random_quote_failed")
			return
		}
		c.JSON(http.StatusOK, q)
		return
	}
	if err != nil {
		h.logAndJSONError(c, err, errQuoteNotFound, "tagged_quote_failed", "tags", tags)
		return
	}
	c.JSON(http.StatusOK, q)
}

// @Summary      Get a random quote
// @Tags         quotes
// @Produce      json
// @Success      200  {object}  models.TaggedQuote
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/random-quote [get]
func (h *Handler) getRandomQuote(c *gin.Context) {
	q, err := h.services.PickRandom(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, err, errNoQuotes, "random_quote_failed")
		return
	}
	c.JSON(http.StatusOK, q)
}

// @Summary      Register and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  models.Registration  true  "Registration"
// @Success      200  {object}  models.AuthBody
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/register [post]
func (h *Handler) register(c *gin.Context) {
	var reg models.Registration
	if ok := h.bindJSONOrBadRequest(c, &reg, "register_bad_request_body"); !ok {
		return
	}

	token, err := h.services.Issue(reg)
	if err != nil {
		if errors.Is(err, service.ErrInvalidKey) {
			if h.log != nil {
				h.log.Infow("register_rejected", "email", reg.Email)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidRegKey})
			return
		}
		if h.log != nil {
			h.log.Errorw("register_token_failed", "err", err, "email", reg.Email)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errTokenCreation})
		return
	}

	if h.log != nil {
		h.log.Infow("register_token_issued", "subject", reg.Subject())
	}
	c.JSON(http.StatusOK, models.AuthBody{AccessToken: token, TokenType: tokenType})
}

// @Summary      Add a quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body  models.TaggedQuote  true  "Quote with tags"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/add-quote [post]
// @Security     BearerAuth
func (h *Handler) addQuote(c *gin.Context) {
	var q models.TaggedQuote
	if ok := h.bindJSONOrBadRequest(c, &q, "add_quote_bad_request_body"); !ok {
		return
	}

	if err := h.services.AddQuote(c.Request.Context(), q); err != nil {
		h.logAndJSONError(c, err, errQuoteNotFound, "add_quote_failed", "quote_id", q.ID, "tags", q.Tags)
		return
	}

	if h.log != nil {
		if claims, ok := c.Get(ctxClaimsKey); ok {
			if cl, ok := claims.(*service.Claims); ok {
				h.log.Infow("quote_added", "quote_id", q.ID, "subject", cl.Subject)
			}
		}
	}
	c.JSON(http.StatusCreated, gin.H{"status": statusCreated, "id": q.ID})
}
