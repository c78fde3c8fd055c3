package usecase_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// memoryKeySource is a mutable in-memory KeySource.
type memoryKeySource struct {
	mu          sync.Mutex
	values      map[string]string
	current     string
	failCurrent error
	failVersion map[string]error
}

func newMemoryKeySource() *memoryKeySource {
	return &memoryKeySource{
		values:      make(map[string]string),
		failVersion: make(map[string]error),
	}
}

// addVersion stores a new random key under version and optionally makes it current.
func (s *memoryKeySource) addVersion(t *testing.T, version string, makeCurrent bool) {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	s.putKey(version, key, makeCurrent)
}

// putKey stores key under version and optionally makes it current.
func (s *memoryKeySource) putKey(version string, key []byte, makeCurrent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[version] = base64.StdEncoding.EncodeToString(key)
	if makeCurrent {
		s.current = version
	}
}

func (s *memoryKeySource) setCurrent(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = version
}

func (s *memoryKeySource) FetchCurrent(ctx context.Context, family string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCurrent != nil {
		return "", "", s.failCurrent
	}
	return s.values[s.current], s.current, nil
}

func (s *memoryKeySource) FetchVersion(ctx context.Context, family, versionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failVersion[versionID]; err != nil {
		return "", err
	}
	value, ok := s.values[versionID]
	if !ok {
		return "", cryptoDomain.ErrKeyNotFound
	}
	return value, nil
}

func (s *memoryKeySource) provider() cryptoService.KeyProvider {
	return cryptoService.NewKeyProvider(s, "encryption-key", nil)
}

// memoryStore is an in-memory RecordStore that counts writes.
type memoryStore struct {
	mu       sync.Mutex
	records  map[string]string
	puts     map[string]int
	failPut  map[string]bool
	listErr  error
	listCall int
	afterPut func(identity string)
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: make(map[string]string),
		puts:    make(map[string]int),
		failPut: make(map[string]bool),
	}
}

func (s *memoryStore) seed(identity, envelope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[identity] = envelope
}

func (s *memoryStore) get(identity string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[identity]
}

func (s *memoryStore) totalPuts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.puts {
		total += n
	}
	return total
}

func (s *memoryStore) Put(ctx context.Context, identity, envelope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut[identity] {
		return errors.New("write rejected")
	}
	s.records[identity] = envelope
	s.puts[identity]++
	if s.afterPut != nil {
		s.afterPut(identity)
	}
	return nil
}

func (s *memoryStore) ListAfter(
	ctx context.Context,
	afterIdentity string,
	limit int,
) ([]*recordDomain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCall++
	if s.listErr != nil {
		return nil, s.listErr
	}

	identities := make([]string, 0, len(s.records))
	for identity := range s.records {
		if identity > afterIdentity {
			identities = append(identities, identity)
		}
	}
	sort.Strings(identities)
	if len(identities) > limit {
		identities = identities[:limit]
	}

	records := make([]*recordDomain.Record, 0, len(identities))
	for _, identity := range identities {
		records = append(records, &recordDomain.Record{Identity: identity, Envelope: s.records[identity]})
	}
	return records, nil
}
