package config

import (
	"net/url"
	"slices"
	"strings"

	"github.com/apibuilder/apibuilder-cli/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnknownProfile indicates default_profile names a missing profile.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrInvalidAPIURI indicates api_uri is not an absolute http(s) URL.
	ErrInvalidAPIURI = errors.New("invalid api_uri")

	// ErrInvalidToken indicates a token with surrounding whitespace.
	ErrInvalidToken = errors.New("token must not contain whitespace")

	// ErrInvalidRetention indicates a negative backup_retention.
	ErrInvalidRetention = errors.New("backup_retention must not be negative")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors in profile order.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.BackupRetention < 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidRetention, "got %d", cfg.BackupRetention))
	}

	if len(cfg.Profiles) > 0 && cfg.DefaultProfile != "" {
		if _, ok := cfg.Profiles[cfg.DefaultProfile]; !ok {
			errs = append(errs, &ProfileError{
				Profile: cfg.DefaultProfile,
				Field:   keyDefaultProfile,
				Err:     ErrUnknownProfile,
			})
		}
	}

	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		p := cfg.Profiles[name]
		if p.APIURI != "" && !validAPIURI(p.APIURI) {
			errs = append(errs, &ProfileError{Profile: name, Field: keyAPIURI, Err: ErrInvalidAPIURI})
		}
		if p.Token != "" && strings.TrimSpace(p.Token) != p.Token {
			errs = append(errs, &ProfileError{Profile: name, Field: keyToken, Err: ErrInvalidToken})
		}
	}

	return errs
}

func validAPIURI(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ProfileError represents an error for one field of a profile.
type ProfileError struct {
	Profile string
	Field   string
	Err     error
}

func (e *ProfileError) Error() string {
	return "profile " + e.Profile + ": " + e.Field + ": " + e.Err.Error()
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}
