package set

import "encoding/json"

// Ordered is a set that remembers insertion order. It encodes to JSON as
// a list in that order.
type Ordered[T comparable] struct {
	index  map[T]struct{}
	values []T
}

func NewOrdered[T comparable](values ...T) *Ordered[T] {
	s := &Ordered[T]{index: make(map[T]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was absent.
func (s *Ordered[T]) Add(v T) bool {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

func (s *Ordered[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *Ordered[T]) Len() int {
	return len(s.values)
}

// Values returns a copy of the members in insertion order.
func (s *Ordered[T]) Values() []T {
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}

func (s *Ordered[T]) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.values)
}

func (s *Ordered[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = Ordered[T]{index: make(map[T]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return nil
}
