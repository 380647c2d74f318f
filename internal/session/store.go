package session

import "sync"

// Store — таблица сессий процесса (in-memory). Сессия создаётся при первом
// обращении и не удаляется. Чтение-изменение-запись одной сессии сериализуется
// её собственным мьютексом, разные сессии не мешают друг другу.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*slot
}

type slot struct {
	mu   sync.Mutex
	sess *Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*slot)}
}

// Acquire блокирует сессию id и возвращает её вместе с функцией освобождения.
// release нужно вызвать ровно один раз.
func (st *Store) Acquire(id int64) (*Session, func()) {
	sl := st.slot(id)
	sl.mu.Lock()
	return sl.sess, sl.mu.Unlock
}

// Len — количество известных сессий.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) slot(id int64) *slot {
	st.mu.RLock()
	sl, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return sl
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if sl, ok := st.sessions[id]; ok {
		return sl
	}
	sl = &slot{sess: New(id)}
	st.sessions[id] = sl
	return sl
}
