package server

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"strings"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const genericErrorMessage = "Something went wrong, try again later."

// classify maps any error returned by a handler onto the AppError taxonomy.
func classify(err error) *models.AppError {
	var (
		appErr   *models.AppError
		fiberErr *fiber.Error
		valErrs  validation.Errors
		pgErr    *pgconn.PgError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &valErrs):
		return models.NewValidationError(valErrs...)
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.NewUnauthorizedError("Token has expired")
	case errors.Is(err, auth.ErrInvalidToken):
		return models.NewUnauthorizedError("Invalid token, Please login.")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError("Resource", nil)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewConflictError("Resource with this " + duplicateField(err) + " already exist")
	case errors.As(err, &pgErr) && pgErr.Code == "23505",
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "duplicate key value"):
		return models.NewConflictError("Resource with this " + duplicateField(err) + " already exist")
	case errors.As(err, &fiberErr):
		return &models.AppError{
			Code:        "HTTP_ERROR",
			Message:     fiberErr.Message,
			Status:      fiberErr.Code,
			Operational: true,
		}
	}
	return models.NewInternalError(err)
}

// duplicateField guesses the offending column from the driver error.
func duplicateField(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		name := pgErr.ConstraintName
		if i := strings.LastIndex(name, "_"); i >= 0 {
			return name[i+1:]
		}
		return name
	}
	msg := err.Error()
	if i := strings.Index(msg, "UNIQUE constraint failed: "); i >= 0 {
		col := msg[i+len("UNIQUE constraint failed: "):]
		if j := strings.LastIndex(col, "."); j >= 0 {
			col = col[j+1:]
		}
		return strings.TrimSpace(col)
	}
	return "value"
}

// errorHandler is the single place where failed requests become responses.
// Production hides the detail of non-operational errors.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	appErr := classify(err)
	ctx := c.UserContext()

	if appErr.Status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(ctx, "request failed",
			slog.String("path", c.Path()),
			slog.String("method", c.Method()),
			slog.String("error", err.Error()),
		)
	} else {
		middleware.Logger.DebugContext(ctx, "request rejected",
			slog.String("path", c.Path()),
			slog.Int("status", appErr.Status),
			slog.String("message", appErr.Message),
		)
	}

	resp := models.ErrorResponse{
		StatusCode: appErr.Status,
		Message:    appErr.Message,
	}
	if s.config.IsProduction() {
		if !appErr.Operational {
			resp.StatusCode = fiber.StatusInternalServerError
			resp.Message = genericErrorMessage
		}
		return c.Status(resp.StatusCode).JSON(resp)
	}

	resp.Code = appErr.Code
	resp.Error = err.Error()
	if appErr.Status >= fiber.StatusInternalServerError {
		resp.StackTrace = string(debug.Stack())
	}
	return c.Status(resp.StatusCode).JSON(resp)
}
