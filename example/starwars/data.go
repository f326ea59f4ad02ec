package starwars

import (
	"strconv"
	"sync"
)

// Human is a character of the films who is not a machine.
type Human struct {
	ID         string `graphql:"id"`
	Name       string
	Friends    []string
	AppearsIn  []string
	HomePlanet string
}

// Droid is a mechanical character.
type Droid struct {
	ID              string `graphql:"id"`
	Name            string
	Friends         []string
	AppearsIn       []string
	PrimaryFunction string
}

// Store holds the characters served by the schema.
type Store struct {
	mu      sync.RWMutex
	humans  map[string]*Human
	droids  map[string]*Droid
	nextID  int
}

// NewStore returns a store seeded with the original trilogy cast.
func NewStore() *Store {
	s := &Store{
		humans: map[string]*Human{},
		droids: map[string]*Droid{},
		nextID: 3000,
	}
	for _, h := range []*Human{
		{ID: "1000", Name: "Luke Skywalker", Friends: []string{"1002", "1003", "2000", "2001"}, AppearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}, HomePlanet: "Tatooine"},
		{ID: "1001", Name: "Darth Vader", Friends: []string{"1004"}, AppearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}, HomePlanet: "Tatooine"},
		{ID: "1002", Name: "Han Solo", Friends: []string{"1000", "1003", "2001"}, AppearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}},
		{ID: "1003", Name: "Leia Organa", Friends: []string{"1000", "1002", "2000", "2001"}, AppearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}, HomePlanet: "Alderaan"},
		{ID: "1004", Name: "Wilhuff Tarkin", Friends: []string{"1001"}, AppearsIn: []string{"NEWHOPE"}},
	} {
		s.humans[h.ID] = h
	}
	for _, d := range []*Droid{
		{ID: "2000", Name: "C-3PO", Friends: []string{"1000", "1002", "1003", "2001"}, AppearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}, PrimaryFunction: "Protocol"},
		{ID: "2001", Name: "R2-D2", Friends: []string{"1000", "1002", "1003"}, AppearsIn: []string{"NEWHOPE", "EMPIRE", "JEDI"}, PrimaryFunction: "Astromech"},
	} {
		s.droids[d.ID] = d
	}
	return s
}

// Hero returns the hero of episode: Luke for EMPIRE and R2-D2 otherwise.
func (s *Store) Hero(episode string) any {
	if episode == "EMPIRE" {
		return s.Human("1000")
	}
	return s.Droid("2001")
}

func (s *Store) Human(id string) *Human {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.humans[id]
}

func (s *Store) Droid(id string) *Droid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.droids[id]
}

// Character returns the human or droid with id, or nil.
func (s *Store) Character(id string) any {
	if h := s.Human(id); h != nil {
		return h
	}
	if d := s.Droid(id); d != nil {
		return d
	}
	return nil
}

// Friends resolves ids to characters, skipping unknown ones.
func (s *Store) Friends(ids []string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		if c := s.Character(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// AddDroid stores a new droid and returns it.
func (s *Store) AddDroid(name, primaryFunction string) *Droid {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	d := &Droid{
		ID:              strconv.Itoa(s.nextID),
		Name:            name,
		PrimaryFunction: primaryFunction,
	}
	s.droids[d.ID] = d
	return d
}
