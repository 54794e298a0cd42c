package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"cse_motors/internal/metrics"
	"cse_motors/internal/validation"

	"github.com/gin-gonic/gin"
)

// FailFunc re-renders the originating view for a rejected submission.
type FailFunc func(c *gin.Context, errs validation.Errors, form url.Values)

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(defaultFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// Validate runs rules over the request body. On success the sanitized form
// is stored for ValidatedForm; otherwise onFail renders and the chain stops.
// Store errors raised by the rules go to the error handler. name labels the
// failure metric.
func Validate(name string, rules validation.RuleSet, onFail FailFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := parseForm(c.Request); err != nil {
			metrics.ValidationFailuresTotal.WithLabelValues(name).Inc()
			onFail(c, validation.Errors{{Msg: "The submitted form could not be read."}}, url.Values{})
			c.Abort()
			return
		}

		form, errs, err := rules.Run(c.Request.Context(), c.Request.PostForm)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !errs.Empty() {
			metrics.ValidationFailuresTotal.WithLabelValues(name).Inc()
			onFail(c, errs, form)
			c.Abort()
			return
		}

		c.Set(FormKey, form)
		c.Next()
	}
}
