package auth

import "strings"

// AdminSet classifies accounts as administrators by email. It is built once
// at startup and only read afterwards.
type AdminSet struct {
	emails map[string]struct{}
}

// NewAdminSet lower-cases, trims and de-duplicates the configured emails.
func NewAdminSet(emails []string) *AdminSet {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		normalized := strings.ToLower(strings.TrimSpace(email))
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return &AdminSet{emails: set}
}

// IsAdmin reports whether email belongs to the allow-set, ignoring case.
// An empty set grants nobody admin rights.
func (s *AdminSet) IsAdmin(email string) bool {
	if s == nil || email == "" || len(s.emails) == 0 {
		return false
	}
	_, ok := s.emails[strings.ToLower(email)]
	return ok
}

// Len returns the number of distinct admin emails.
func (s *AdminSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.emails)
}
