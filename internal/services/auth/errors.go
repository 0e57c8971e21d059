package auth

import "strings"

// Code is the closed vocabulary of sign-in failures shown to the user. Raw
// provider error shapes never cross this boundary.
type Code string

const (
	CodeUserNotFound      Code = "user-not-found"
	CodeWrongPassword     Code = "wrong-password"
	CodeEmailInUse        Code = "email-in-use"
	CodeWeakPassword      Code = "weak-password"
	CodeInvalidEmail      Code = "invalid-email"
	CodeDisabledAccount   Code = "disabled-account"
	CodeRateLimited       Code = "rate-limited"
	CodeInvalidCredential Code = "invalid-credential"
	CodeRecentLoginNeeded Code = "requires-recent-login"
	CodeUnknown           Code = "unknown"
)

// Message returns the user-readable text for a code.
func (c Code) Message() string {
	switch c {
	case CodeUserNotFound:
		return "No account exists for this email address."
	case CodeWrongPassword:
		return "The password is incorrect."
	case CodeEmailInUse:
		return "An account with this email address already exists."
	case CodeWeakPassword:
		return "The password is too weak; use at least 8 characters with letters and digits."
	case CodeInvalidEmail:
		return "The email address is not valid."
	case CodeDisabledAccount:
		return "This account has been disabled."
	case CodeRateLimited:
		return "Too many attempts; try again later."
	case CodeInvalidCredential:
		return "The sign-in credential is invalid or has expired."
	case CodeRecentLoginNeeded:
		return "This action requires a recent sign-in; sign in again."
	default:
		return "Something went wrong; try again."
	}
}

// ProviderError carries the authentication provider's native error code
// across the SignIn boundary so it can be mapped, never shown.
type ProviderError struct {
	ProviderCode string
}

func (e *ProviderError) Error() string {
	return "auth provider error: " + e.ProviderCode
}

// MapProviderError translates a provider-specific code into the closed
// vocabulary. Unrecognized codes collapse to the catch-all.
func MapProviderError(code string) Code {
	switch strings.TrimSpace(code) {
	case "auth/user-not-found", "USER_NOT_FOUND":
		return CodeUserNotFound
	case "auth/wrong-password", "WRONG_PASSWORD":
		return CodeWrongPassword
	case "auth/email-already-in-use", "EMAIL_EXISTS":
		return CodeEmailInUse
	case "auth/weak-password", "WEAK_PASSWORD":
		return CodeWeakPassword
	case "auth/invalid-email", "INVALID_EMAIL":
		return CodeInvalidEmail
	case "auth/user-disabled", "USER_DISABLED":
		return CodeDisabledAccount
	case "auth/too-many-requests", "TOO_MANY_ATTEMPTS_TRY_LATER":
		return CodeRateLimited
	case "auth/invalid-credential", "INVALID_LOGIN_CREDENTIALS", "INVALID_CREDENTIAL":
		return CodeInvalidCredential
	case "auth/requires-recent-login", "CREDENTIAL_TOO_OLD_LOGIN_AGAIN":
		return CodeRecentLoginNeeded
	default:
		return CodeUnknown
	}
}
