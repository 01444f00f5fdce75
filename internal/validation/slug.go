package validation

import (
	"errors"
	"regexp"
)

const maxSlugLength = 200

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

var (
	ErrSlugRequired = errors.New("slug is required")
	ErrSlugTooLong  = errors.New("slug is too long (max 200 characters)")
	ErrSlugInvalid  = errors.New("slug may only contain lowercase letters, digits, hyphens and underscores")
)

// ValidateSlug accepts URL-safe content slugs such as "my-first-post".
func ValidateSlug(slug string) error {
	if slug == "" {
		return ErrSlugRequired
	}

	if len(slug) > maxSlugLength {
		return ErrSlugTooLong
	}

	if !slugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}

	return nil
}
