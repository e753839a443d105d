package models

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Key is a natural key that can be ordered and printed.
type Key[K any] interface {
	comparable
	Compare(other K) int
	Fields() []string
	String() string
}

// SongKey identifies a song (or single) by artist and title.
type SongKey struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

func (k SongKey) Compare(o SongKey) int {
	return cmp.Or(cmp.Compare(k.Artist, o.Artist), cmp.Compare(k.Title, o.Title))
}

func (k SongKey) Fields() []string { return []string{k.Artist, k.Title} }

func (k SongKey) String() string { return tuple(k.Fields()...) }

// AlbumKey identifies an album by artist and album title.
type AlbumKey struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

func (k AlbumKey) Compare(o AlbumKey) int {
	return cmp.Or(cmp.Compare(k.Artist, o.Artist), cmp.Compare(k.Title, o.Title))
}

func (k AlbumKey) Fields() []string { return []string{k.Artist, k.Title} }

func (k AlbumKey) String() string { return tuple(k.Fields()...) }

// Username identifies a user.
type Username string

func (u Username) Compare(o Username) int { return cmp.Compare(u, o) }

func (u Username) Fields() []string { return []string{string(u)} }

func (u Username) String() string { return string(u) }

// RatingKey identifies a rating by username, song title and artist name.
type RatingKey struct {
	Username string `json:"username"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
}

func (k RatingKey) Compare(o RatingKey) int {
	return cmp.Or(
		cmp.Compare(k.Username, o.Username),
		cmp.Compare(k.Title, o.Title),
		cmp.Compare(k.Artist, o.Artist),
	)
}

func (k RatingKey) Fields() []string { return []string{k.Username, k.Title, k.Artist} }

func (k RatingKey) String() string { return tuple(k.Fields()...) }

func tuple(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// Set is a rejection set: the natural keys of records a load declined to persist.
type Set[K Key[K]] map[K]struct{}

// SetOf builds a set from keys.
func SetOf[K Key[K]](keys ...K) Set[K] {
	s := make(Set[K], len(keys))
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts k.
func (s Set[K]) Add(k K) { s[k] = struct{}{} }

// Has reports whether k is present.
func (s Set[K]) Has(k K) bool {
	_, ok := s[k]
	return ok
}

// Len returns the number of keys.
func (s Set[K]) Len() int { return len(s) }

// Sorted returns the keys in ascending order.
func (s Set[K]) Sorted() []K {
	keys := make([]K, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int { return a.Compare(b) })
	return keys
}

// Equal reports whether both sets hold the same keys.
func (s Set[K]) Equal(o Set[K]) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// Strings renders the sorted keys.
func (s Set[K]) Strings() []string {
	keys := s.Sorted()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

// MarshalJSON encodes the set as a sorted array of keys.
func (s Set[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s Set[K]) String() string {
	return "{" + strings.Join(s.Strings(), ", ") + "}"
}

// Rejection set types returned by the loaders.
type (
	SongKeySet   = Set[SongKey]
	AlbumKeySet  = Set[AlbumKey]
	UsernameSet  = Set[Username]
	RatingKeySet = Set[RatingKey]
)
