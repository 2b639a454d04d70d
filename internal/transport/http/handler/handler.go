// Package handler wires each request through the same pipeline:
// policy check, payload validation, repository call, render. Policies
// run before the handler body and deny with their own status.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"personal-apis/internal/access"
	"personal-apis/internal/errs"
	mdw "personal-apis/internal/transport/http/middleware"
	resp "personal-apis/internal/transport/http/response"
)

// Require turns an access policy into route middleware.
func Require(p access.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := p(mdw.PrincipalFrom(c))
		if !d.Allow {
			resp.Error(c, d.Status, d.Message)
			return
		}
		c.Next()
	}
}

// bindJSON decodes the body into in. Type mismatches become per-field
// validation errors, an oversized body becomes 413, anything else is a
// generic 400.
func bindJSON(c *gin.Context, in any) bool {
	if err := c.ShouldBindJSON(in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			resp.Error(c, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			resp.ValidationError(c, map[string][]string{
				typeErr.Field: {"Invalid value."},
			})
			return false
		}
		resp.Error(c, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

// fail maps the error taxonomy onto responses. Validation -> 400 with
// the field map, not found -> 404, everything else is an upstream
// failure: logged and surfaced as 500, never retried or masked.
func fail(c *gin.Context, log *zap.Logger, err error) {
	var v *errs.ValidationError
	if errors.As(err, &v) {
		resp.ValidationError(c, v.Fields)
		return
	}
	if errors.Is(err, errs.ErrNotFound) {
		resp.Error(c, http.StatusNotFound, "not found")
		return
	}
	log.Error("request failed",
		zap.String("rid", mdw.RequestIDFrom(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	resp.Error(c, http.StatusInternalServerError, "internal error")
}
