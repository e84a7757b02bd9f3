package audit

import "context"

type operatorKey struct{}

// WithOperator tags ctx with the user that audit entries are attributed to.
func WithOperator(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, operatorKey{}, username)
}

func OperatorFrom(ctx context.Context) string {
	username, _ := ctx.Value(operatorKey{}).(string)
	return username
}
