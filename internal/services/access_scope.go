package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/macrolens/macrolens/internal/models"
)

var (
	ErrScopeForbidden  = errors.New("subject access forbidden")
	ErrSubjectNotFound = errors.New("subject not found")
)

type ScopeUserReader interface {
	FindByID(userID uint) (models.User, error)
}

// AccessScope is the allow-set of subjects a caller may see. An empty set
// with IncludeAll=true means no restriction at all. PhoneNumbers carries the
// normalized contact identifiers of the allowed subjects so that log entries
// linked only by phone can still be correlated.
type AccessScope struct {
	IncludeAll   bool
	UserIDs      []uint
	PhoneNumbers []string
}

func (scope AccessScope) AllowsUser(userID uint) bool {
	if scope.IncludeAll {
		return true
	}
	for _, allowed := range scope.UserIDs {
		if allowed == userID {
			return true
		}
	}
	return false
}

// AllowsEntry admits an entry either through its direct owner id or, for
// entries with no owner at all, through the normalized phone linkage. An
// entry owned by another subject is never admitted via phone.
func (scope AccessScope) AllowsEntry(entry models.NutritionLog) bool {
	if scope.IncludeAll {
		return true
	}
	if entry.UserID != 0 {
		return scope.AllowsUser(entry.UserID)
	}
	phone := NormalizePhoneNumber(entry.PhoneNumber)
	if phone == "" {
		return false
	}
	for _, allowed := range scope.PhoneNumbers {
		if allowed == phone {
			return true
		}
	}
	return false
}

func NormalizePhoneNumber(raw string) string {
	var builder strings.Builder
	for _, char := range strings.TrimSpace(raw) {
		if char >= '0' && char <= '9' {
			builder.WriteRune(char)
		}
	}
	return builder.String()
}

func scopeForUser(user models.User) AccessScope {
	scope := AccessScope{UserIDs: []uint{user.ID}}
	if phone := NormalizePhoneNumber(user.PhoneNumber); phone != "" {
		scope.PhoneNumbers = []string{phone}
	}
	return scope
}

// ResolveAccessScope decides which subjects the caller may see. Clients are
// always pinned to themselves and fail fast with ErrScopeForbidden when they
// ask for anyone else; admins get either a single verified subject or an
// unrestricted scope.
func ResolveAccessScope(caller *models.User, requestedUserID string, users ScopeUserReader) (AccessScope, error) {
	requested := strings.TrimSpace(requestedUserID)

	if caller == nil {
		return AccessScope{}, ErrScopeForbidden
	}

	if caller.Role != models.RoleAdmin {
		if requested == "" {
			return scopeForUser(*caller), nil
		}
		parsed, err := strconv.ParseUint(requested, 10, 64)
		if err != nil || uint(parsed) != caller.ID {
			return AccessScope{}, ErrScopeForbidden
		}
		return scopeForUser(*caller), nil
	}

	if requested == "" {
		return AccessScope{IncludeAll: true}, nil
	}

	parsed, err := strconv.ParseUint(requested, 10, 64)
	if err != nil {
		return AccessScope{}, ErrSubjectNotFound
	}
	subject, err := users.FindByID(uint(parsed))
	if err != nil {
		return AccessScope{}, ErrSubjectNotFound
	}
	return scopeForUser(subject), nil
}
