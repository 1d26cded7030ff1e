// Package testhelpers provides shared test doubles.
package testhelpers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/imobsite/listing-manager/internal/models"
)

// FakeStore is an in-memory document store. It mimics the remote store's
// contract: whole-document reads and writes, keyed by collection name.
type FakeStore struct {
	mu          sync.Mutex
	collections map[string]json.RawMessage

	// FailPut makes every PutCollection fail, leaving the stored
	// document untouched.
	FailPut bool

	Reads  int
	Writes int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		collections: make(map[string]json.RawMessage),
	}
}

func (s *FakeStore) GetCollection(_ context.Context, name string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++

	doc, ok := s.collections[name]
	if !ok {
		return json.RawMessage("[]"), nil
	}
	return doc, nil
}

func (s *FakeStore) PutCollection(_ context.Context, name string, doc json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailPut {
		return fmt.Errorf("%w: store unavailable", models.ErrWriteFailed)
	}

	s.Writes++
	s.collections[name] = append(json.RawMessage(nil), doc...)
	return nil
}

// Seed writes listings into a collection bypassing the client path.
func (s *FakeStore) Seed(name string, listings []models.Listing) error {
	doc, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name] = doc
	return nil
}

// SeedRaw writes a raw document, for exercising legacy encodings.
func (s *FakeStore) SeedRaw(name string, doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name] = json.RawMessage(doc)
}
