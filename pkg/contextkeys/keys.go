package contextkeys

type contextKey string

const (
	// PrincipalKey — *authz.Principal текущего пользователя, кладётся
	// auth-middleware после проверки токена.
	PrincipalKey contextKey = "Principal"

	// RequestIDKey — корреляционный идентификатор HTTP-запроса.
	RequestIDKey contextKey = "RequestID"
)
