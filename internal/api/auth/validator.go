package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/libreton/libreton-api/internal/types"
)

// AuthValidator returns human-readable error strings; an empty slice means
// the request is valid. Uniqueness pre-checks go through the repository,
// but they are advisory only: concurrent registrations can both pass, and
// the database constraint is what actually rejects the loser.
type AuthValidator struct {
	repo AuthRepo
}

func NewAuthValidator(repo AuthRepo) *AuthValidator {
	return &AuthValidator{repo: repo}
}

func (v *AuthValidator) ValidateRegister(ctx context.Context, req types.RegisterRequest) ([]string, error) {
	var errs []string

	// Length rules count characters, not bytes.
	switch username := strings.TrimSpace(req.Username); {
	case username == "":
		errs = append(errs, "Username is required.")
	case utf8.RuneCountInString(username) < 3:
		errs = append(errs, "Username must be at least 3 characters.")
	case utf8.RuneCountInString(username) > 50:
		errs = append(errs, "Username must not exceed 50 characters.")
	default:
		taken, err := v.repo.UsernameTaken(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("validate register: username check: %w", err)
		}
		if taken {
			errs = append(errs, "Username is already taken.")
		}
	}

	switch email := strings.TrimSpace(req.Email); {
	case email == "":
		errs = append(errs, "Email is required.")
	case !validEmail(email):
		errs = append(errs, "Invalid email format.")
	default:
		taken, err := v.repo.EmailTaken(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("validate register: email check: %w", err)
		}
		if taken {
			errs = append(errs, "Email is already registered.")
		}
	}

	switch {
	case strings.TrimSpace(req.Password) == "":
		errs = append(errs, "Password is required.")
	case utf8.RuneCountInString(req.Password) < 6:
		errs = append(errs, "Password must be at least 6 characters.")
	}

	return errs, nil
}

func (v *AuthValidator) ValidateLogin(req types.LoginRequest) []string {
	var errs []string
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, "Username is required.")
	}
	if strings.TrimSpace(req.Password) == "" {
		errs = append(errs, "Password is required.")
	}
	return errs
}

// validEmail is a plain format predicate; no error-driven control flow.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
