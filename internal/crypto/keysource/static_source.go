package keysource

import (
	"context"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// StaticSource serves key versions parsed once from configuration.
//
// It answers for a single key family and is immutable after construction, so
// FetchCurrent always returns a consistent value and version pair. Values are kept
// base64 encoded; decoding and length validation happen in the key provider.
type StaticSource struct {
	family        string
	activeVersion string
	values        map[string]string
}

// NewStaticSource parses raw in the form "v1:<base64>,v2:<base64>" and marks
// activeVersion as current.
//
// Returns:
//   - ErrKeyVersionsNotSet if raw is empty
//   - ErrActiveKeyVersionNotSet if activeVersion is empty
//   - ErrInvalidKeyVersionsFormat if an entry has no version or no value
//   - ErrDuplicateKeyVersion if a version appears more than once
//   - ErrActiveKeyVersionNotFound if activeVersion is not among the entries
func NewStaticSource(family, raw, activeVersion string) (*StaticSource, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrKeyVersionsNotSet
	}
	if activeVersion == "" {
		return nil, ErrActiveKeyVersionNotSet
	}

	values := make(map[string]string)
	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 || p[0] == "" || p[1] == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrInvalidKeyVersionsFormat, len(values)+1)
		}
		if _, exists := values[p[0]]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKeyVersion, p[0])
		}
		values[p[0]] = p[1]
	}

	if _, ok := values[activeVersion]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrActiveKeyVersionNotFound, activeVersion)
	}

	return &StaticSource{
		family:        family,
		activeVersion: activeVersion,
		values:        values,
	}, nil
}

// FetchCurrent returns the active version and its value.
func (s *StaticSource) FetchCurrent(ctx context.Context, family string) (string, string, error) {
	if family != s.family {
		return "", "", fmt.Errorf("%w: unknown key family %s", cryptoDomain.ErrKeyNotFound, family)
	}
	return s.values[s.activeVersion], s.activeVersion, nil
}

// FetchVersion returns the value stored under versionID.
func (s *StaticSource) FetchVersion(ctx context.Context, family, versionID string) (string, error) {
	if family != s.family {
		return "", fmt.Errorf("%w: unknown key family %s", cryptoDomain.ErrKeyNotFound, family)
	}
	value, ok := s.values[versionID]
	if !ok {
		return "", fmt.Errorf("%w: version %s", cryptoDomain.ErrKeyNotFound, versionID)
	}
	return value, nil
}
