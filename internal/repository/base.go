// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// lockForUpdate adds FOR UPDATE where the dialect supports it. SQLite
// serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// updateIDList rewrites one IDList column of the row with the given id under
// a row lock. It reports whether a row matched; a missing row is not an error.
func updateIDList[T any, PT interface {
	*T
	models.ListOwner
}](ctx context.Context, db *gorm.DB, id, column string, fn func(models.IDList) models.IDList) (bool, error) {
	matched := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row T
		res := lockForUpdate(tx).Select("id", column).Where("id = ?", id).Limit(1).Find(PT(&row))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		list, ok := PT(&row).IDListColumn(column)
		if !ok {
			return fmt.Errorf("unknown id list column %q", column)
		}
		matched = true
		return tx.Model(PT(&row)).Update(column, fn(*list)).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if !matched {
		middleware.Logger.DebugContext(ctx, "id list update matched no row",
			slog.String("id", id), slog.String("column", column))
	}
	return matched, nil
}

func pushID[T any, PT interface {
	*T
	models.ListOwner
}](ctx context.Context, db *gorm.DB, id, column, value string) (bool, error) {
	return updateIDList[T, PT](ctx, db, id, column, func(l models.IDList) models.IDList {
		return l.Add(value)
	})
}

func pullID[T any, PT interface {
	*T
	models.ListOwner
}](ctx context.Context, db *gorm.DB, id, column, value string) (bool, error) {
	return updateIDList[T, PT](ctx, db, id, column, func(l models.IDList) models.IDList {
		return l.Remove(value)
	})
}

// pullFromAll removes value from column on every row of T whose list holds it.
func pullFromAll[T any, PT interface {
	*T
	models.ListOwner
}](tx *gorm.DB, ids []string, column, value string) error {
	if len(ids) == 0 {
		return nil
	}
	var rows []T
	if err := lockForUpdate(tx).Select("id", column).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		list, ok := PT(&rows[i]).IDListColumn(column)
		if !ok {
			return fmt.Errorf("unknown id list column %q", column)
		}
		if !list.Contains(value) {
			continue
		}
		if err := tx.Model(PT(&rows[i])).Update(column, list.Remove(value)).Error; err != nil {
			return err
		}
	}
	return nil
}

func notFoundOr(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
