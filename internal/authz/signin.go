package authz

import "strings"

type Decision int

const (
	Deny Decision = iota
	Allow
)

// campus domains admitted without an explicit allow-list entry
var allowedSuffixes = []string{".edu.tr", ".edu"}

// SignInDecision decides whether an external-identity account may create or
// resume a session. Existing accounts always pass, so admins can provision
// club accounts on non-campus addresses. Ban status is deliberately not
// checked here; the session middleware enforces it on every request.
func SignInDecision(email string, exists func(email string) (bool, error), testEmails []string) (Decision, error) {
	ok, err := exists(email)
	if err != nil {
		return Deny, err
	}
	if ok {
		return Allow, nil
	}

	for _, suffix := range allowedSuffixes {
		if strings.HasSuffix(email, suffix) {
			return Allow, nil
		}
	}

	for _, allowed := range testEmails {
		if email == allowed {
			return Allow, nil
		}
	}

	return Deny, nil
}
