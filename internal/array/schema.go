package array

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName     = errors.New("column name required")
	ErrDuplicateName = errors.New("duplicate column")
)

// Schema is an ordered set of unique column names.
type Schema struct {
	names []string
	index map[string]int
}

func NewSchema(names []string) (Schema, error) {
	s := Schema{names: make([]string, 0, len(names)), index: make(map[string]int, len(names))}
	for _, n := range names {
		if err := s.check(n); err != nil {
			return Schema{}, err
		}
		s.index[n] = len(s.names)
		s.names = append(s.names, n)
	}
	return s, nil
}

func (s Schema) check(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := s.index[name]; ok {
		return fmt.Errorf("%w %s", ErrDuplicateName, name)
	}
	return nil
}

func (s Schema) Len() int { return len(s.names) }

// Names returns a copy of the column names in order.
func (s Schema) Names() []string { return append([]string(nil), s.names...) }

func (s Schema) Name(i int) string { return s.names[i] }

func (s Schema) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

func (s Schema) Clone() Schema {
	idx := make(map[string]int, len(s.index))
	for k, v := range s.index {
		idx[k] = v
	}
	return Schema{names: s.Names(), index: idx}
}

// Insert places name at pos. The caller bounds-checks pos.
func (s *Schema) Insert(pos int, name string) error {
	if err := s.check(name); err != nil {
		return err
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.names = append(s.names, "")
	copy(s.names[pos+1:], s.names[pos:])
	s.names[pos] = name
	s.reindex(pos)
	return nil
}

func (s *Schema) Remove(pos int) {
	delete(s.index, s.names[pos])
	s.names = append(s.names[:pos], s.names[pos+1:]...)
	s.reindex(pos)
}

func (s *Schema) Rename(oldName, newName string) error {
	pos, ok := s.index[oldName]
	if !ok {
		return fmt.Errorf("unknown column %s", oldName)
	}
	if oldName == newName {
		return nil
	}
	if err := s.check(newName); err != nil {
		return err
	}
	delete(s.index, oldName)
	s.names[pos] = newName
	s.index[newName] = pos
	return nil
}

func (s *Schema) reindex(from int) {
	for i := from; i < len(s.names); i++ {
		s.index[s.names[i]] = i
	}
}
