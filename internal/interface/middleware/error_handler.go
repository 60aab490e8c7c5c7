package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/pkg/response"
)

// Postgres SQLSTATE codes that are the client's fault.
const (
	pgUniqueViolation           = "23505"
	pgCheckViolation            = "23514"
	pgInvalidTextRepresentation = "22P02"
)

// ErrorHandler is the single place where errors become HTTP responses.
// Handlers and middleware record failures with c.Error and abort; the last
// recorded error is rendered here. In development the underlying cause is
// included in the body.
func ErrorHandler(logger *logrus.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		ae := Classify(err)
		status := ae.Status()

		fields := logrus.Fields{
			"request_id": c.GetString(response.CtxRequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
		}
		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(fields).Error("request failed")
		} else {
			logger.WithError(err).WithFields(fields).Debug("request rejected")
		}

		message := ae.Message
		var detail any = ae.Details
		if ae.Kind == apperror.KindInternal && !development {
			message = apperror.Internal(nil).Message
			detail = nil
		}
		if development && detail == nil {
			detail = err.Error()
		}
		response.Error[any](c, status, message, detail)
	}
}

// Classify maps err onto the client-facing error taxonomy. Storage errors
// that describe bad input become Validation; anything unrecognised is
// Internal.
func Classify(err error) *apperror.Error {
	if ae, ok := apperror.As(err); ok {
		return ae
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Validation(duplicateMessage(pgErr.Detail)).WithCause(err)
		case pgCheckViolation:
			return apperror.Validation("Invalid input data.").WithCause(err)
		case pgInvalidTextRepresentation:
			return apperror.Validation("Invalid input data. " + pgErr.Message).WithCause(err)
		}
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Validation(duplicateMessage("")).WithCause(err)
	}
	return apperror.Internal(err)
}

// duplicateMessage pulls the offending value out of a Postgres detail such
// as `Key (name)=(The Forest Hiker) already exists.`
func duplicateMessage(detail string) string {
	if i := strings.Index(detail, ")=("); i >= 0 {
		rest := detail[i+3:]
		if j := strings.LastIndex(rest, ")"); j >= 0 {
			return fmt.Sprintf("Duplicate field value: %s. Please use another value!", rest[:j])
		}
	}
	return "Duplicate field value. Please use another value!"
}

// NoRoute reports unmatched paths through ErrorHandler.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NotFound(fmt.Sprintf("Can't find %s on this server!", c.Request.URL.RequestURI())))
	}
}
