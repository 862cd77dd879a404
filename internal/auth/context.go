package auth

import "context"

type accountContextKey struct{}
type tokenContextKey struct{}

// ContextWithAccount attaches the authenticated account to the context.
func ContextWithAccount(ctx context.Context, account *Account) context.Context {
	if account == nil {
		return ctx
	}
	return context.WithValue(ctx, accountContextKey{}, account)
}

// AccountFromContext extracts the authenticated account, if any.
func AccountFromContext(ctx context.Context) (*Account, bool) {
	if ctx == nil {
		return nil, false
	}
	account, ok := ctx.Value(accountContextKey{}).(*Account)
	if !ok || account == nil {
		return nil, false
	}
	return account, true
}

// ContextWithToken stores the raw bearer token inside the context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token if it was previously attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	token, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
