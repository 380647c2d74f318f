package session

// Entry — одно собранное значение.
type Entry struct {
	Name  string
	Value any
}

// Scratch — собранные значения потока в порядке ввода. Нулевое значение готово к работе.
type Scratch struct {
	entries []Entry
	index   map[string]int
}

// Set записывает значение; повторная запись того же поля сохраняет его позицию.
func (s *Scratch) Set(name string, v any) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		s.entries[i].Value = v
		return
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, Entry{Name: name, Value: v})
}

func (s *Scratch) Get(name string) (any, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.entries[i].Value, true
}

func (s *Scratch) Len() int { return len(s.entries) }

// Entries возвращает копию значений в порядке ввода.
func (s *Scratch) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

func (s *Scratch) Reset() {
	s.entries = nil
	s.index = nil
}
