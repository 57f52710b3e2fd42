package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is the authenticated identity attached by the auth middleware.
type RequestData struct {
	UserID  int64
	IsStaff bool
	TokenID int64
}

func (rd *RequestData) Authenticated() bool {
	return rd != nil && rd.UserID > 0
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// ViewerID returns the authenticated user id, or 0 for anonymous requests.
func ViewerID(ctx context.Context) int64 {
	rd := GetRequestData(ctx)
	if rd == nil {
		return 0
	}
	return rd.UserID
}
