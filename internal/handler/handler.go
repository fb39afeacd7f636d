// Package handler contains the gin HTTP handlers. Handlers bind and
// validate input, call one service, map sentinel errors to statuses and
// keep everything else a logged 500.
package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nahashon-source/globalship-backend/internal/authz"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/pkg/logger"
	"github.com/nahashon-source/globalship-backend/pkg/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pageFrom(number, size int) repository.Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return repository.Page{Number: number, Size: size}
}

// forbid writes the 403 matching a denial reason
func forbid(c *gin.Context, reason authz.Reason) {
	switch reason {
	case authz.ReasonInsufficientRole:
		response.Forbidden(c, "The user doesn't have enough privileges")
	default:
		response.Forbidden(c, "Not authorized to access this resource")
	}
}

// fail logs the error and writes a generic 500
func fail(c *gin.Context, err error) {
	logger.Get().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	response.InternalError(c)
}
