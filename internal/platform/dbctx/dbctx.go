package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries the request context and, inside an aggregate write, the
// open transaction. Tx is nil for plain reads.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func (c Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}
