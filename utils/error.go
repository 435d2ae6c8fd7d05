package utils

import (
	"errors"
	"fmt"
	"net/http"

	"healthcart/database"
	"healthcart/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies failures so handlers can pick a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindCapacity
	KindConflict
	KindState
	KindUnavailable
)

var kindStatus = map[ErrorKind]int{
	KindInternal:     http.StatusInternalServerError,
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindCapacity:     http.StatusConflict,
	KindConflict:     http.StatusConflict,
	KindState:        http.StatusUnprocessableEntity,
	KindUnavailable:  http.StatusServiceUnavailable,
}

// AppError is a classified error carrying a client-safe message and optional payload.
type AppError struct {
	Kind    ErrorKind
	Message string
	Data    interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status.
func (e *AppError) Status() int { return kindStatus[e.Kind] }

// Retryable is true only for transient infrastructure failures.
func (e *AppError) Retryable() bool { return e.Kind == KindUnavailable }

func ValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ForbiddenError(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func StateError(msg string) *AppError {
	return &AppError{Kind: KindState, Message: msg}
}

func ConflictError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// CapacityError is a "slot full" failure; data carries remediation for the client.
func CapacityError(msg string, data interface{}) *AppError {
	return &AppError{Kind: KindCapacity, Message: msg, Data: data}
}

func InternalError(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

func UnavailableError(msg string, err error) *AppError {
	return &AppError{Kind: KindUnavailable, Message: msg, Err: err}
}

// RepoError classifies an unexpected repository failure as transient or internal.
func RepoError(msg string, err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if database.IsTransient(err) {
		return UnavailableError(msg, err)
	}
	return InternalError(msg, err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.FullPath()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.APIResponse{
					Success: false,
					Error:   "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}

// RespondError writes err in the standard envelope. Unclassified errors become 500s and
// their details stay in the log.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError("Internal Server Error", err)
	}

	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		GetLogger().Error(appErr.Message, zap.Error(err), zap.String("path", c.FullPath()))
	} else {
		GetLogger().Debug(appErr.Message, zap.Error(err), zap.String("path", c.FullPath()))
	}

	c.JSON(status, models.APIResponse{
		Success:   false,
		Error:     appErr.Message,
		Data:      appErr.Data,
		Retryable: appErr.Retryable(),
	})
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, models.APIResponse{Success: false, Error: message})
}

// RespondOK writes a success envelope.
func RespondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, models.APIResponse{Success: true, Data: data, Message: message})
}

// RespondList writes a success envelope with a count.
func RespondList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: data, Count: &count})
}
