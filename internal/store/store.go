// Package store holds the read-only nonprofit record collection.
package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

// Store is an immutable in-memory record store ordered by EIN.
// It is safe for concurrent use because nothing mutates it after New.
type Store struct {
	records []domain.Nonprofit
	byEIN   map[string]int
	byName  map[string]int
}

// New builds a store from loaded records. EINs must be present and unique.
func New(records []domain.Nonprofit) (*Store, error) {
	sorted := make([]domain.Nonprofit, len(records))
	copy(sorted, records)
	for i := range sorted {
		sorted[i].EIN = strings.TrimSpace(sorted[i].EIN)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].EIN < sorted[j].EIN })

	s := &Store{
		records: sorted,
		byEIN:   make(map[string]int, len(sorted)),
		byName:  make(map[string]int, len(sorted)),
	}
	for i, r := range sorted {
		if r.EIN == "" {
			return nil, apperr.NewValidationError("record without ein", fmt.Sprintf("name: %q", r.Name))
		}
		if _, dup := s.byEIN[r.EIN]; dup {
			return nil, apperr.NewValidationError("duplicate ein in dataset", r.EIN)
		}
		s.byEIN[r.EIN] = i
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if _, seen := s.byName[key]; !seen {
			s.byName[key] = i
		}
	}
	return s, nil
}

// LoadAll returns every record in EIN order.
func (s *Store) LoadAll() []domain.Nonprofit {
	out := make([]domain.Nonprofit, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// FindByEIN returns the record with the given EIN.
func (s *Store) FindByEIN(ein string) (domain.Nonprofit, error) {
	i, ok := s.byEIN[strings.TrimSpace(ein)]
	if !ok {
		return domain.Nonprofit{}, apperr.NewNotFoundError("nonprofit", ein)
	}
	return s.records[i], nil
}

// FindByName matches a display name case-insensitively.
func (s *Store) FindByName(name string) (domain.Nonprofit, error) {
	i, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.Nonprofit{}, apperr.NewNotFoundError("organization", name)
	}
	return s.records[i], nil
}

// ListPage returns one page of the filtered records and the filtered total.
func (s *Store) ListPage(offset, limit int, filter domain.ListFilter) ([]domain.Nonprofit, int, error) {
	if offset < 0 {
		return nil, 0, apperr.NewInvalidArgumentError("offset must not be negative", fmt.Sprintf("offset=%d", offset))
	}
	if limit <= 0 {
		return nil, 0, apperr.NewInvalidArgumentError("limit must be positive", fmt.Sprintf("limit=%d", limit))
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	code := strings.ToUpper(strings.TrimSpace(filter.NTEECode))

	matched := make([]domain.Nonprofit, 0, len(s.records))
	for _, r := range s.records {
		if code != "" && !strings.HasPrefix(strings.ToUpper(r.NTEECode), code) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Name), search) &&
			!strings.Contains(strings.ToLower(r.MissionDescription), search) {
			continue
		}
		matched = append(matched, r)
	}

	total := len(matched)
	if offset >= total {
		return []domain.Nonprofit{}, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}
