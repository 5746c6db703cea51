package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/state"
	"github.com/lifequest/backend/internal/store"
	"github.com/lifequest/backend/pkg/errors"
	"github.com/lifequest/backend/pkg/logger"
)

// ToAppError maps domain errors onto HTTP errors. Unknown errors map to nil.
func ToAppError(err error) *errors.AppError {
	var (
		appErr   *errors.AppError
		valErr   *state.ValidationError
		storeErr *store.Error
	)
	switch {
	case stderrors.As(err, &appErr):
		return appErr
	case stderrors.As(err, &valErr):
		return errors.BadRequest(valErr.Error())
	case stderrors.Is(err, store.ErrNotFound):
		return errors.ErrNotFound
	case stderrors.Is(err, state.ErrAlreadyTerminal):
		return errors.Conflict("Mission is already completed or failed")
	case stderrors.Is(err, state.ErrNothingToDo):
		return errors.Conflict("Nothing to do")
	case stderrors.As(err, &storeErr):
		return errors.ErrStoreFailure
	}
	return nil
}

// ErrorHandlerMiddleware renders errors attached with c.Error and recovers panics.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal Server Error",
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		if appErr := ToAppError(err); appErr != nil {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
			}
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}

		logger.Error().Err(err).Msg("Unhandled request error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
