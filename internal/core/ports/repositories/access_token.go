package repositories

import "context"

type accessTokenKey struct{}

// WithAccessToken attaches the signed-in user's identity token to ctx so
// adapters talking to the hosted data service can act on the user's behalf.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFrom returns the token attached by WithAccessToken.
func AccessTokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey{}).(string)
	return token, ok && token != ""
}
