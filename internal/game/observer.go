package game

// Observer receives change notifications after each committed mutation of a GameState.
// Callbacks run synchronously on the mutating goroutine and must not mutate the state.
type Observer interface {
	BoardChanged()
	StatusChanged(status GameStatus)
	MoveMade(move Move, player Player)
}

// ObserverFuncs adapts plain functions to Observer; nil fields are skipped.
type ObserverFuncs struct {
	OnBoardChanged  func()
	OnStatusChanged func(GameStatus)
	OnMoveMade      func(Move, Player)
}

func (f ObserverFuncs) BoardChanged() {
	if f.OnBoardChanged != nil {
		f.OnBoardChanged()
	}
}

func (f ObserverFuncs) StatusChanged(status GameStatus) {
	if f.OnStatusChanged != nil {
		f.OnStatusChanged(status)
	}
}

func (f ObserverFuncs) MoveMade(move Move, player Player) {
	if f.OnMoveMade != nil {
		f.OnMoveMade(move, player)
	}
}

type observerEntry struct {
	id       int
	observer Observer
}

type observerList struct {
	nextID  int
	entries []observerEntry
}

// Subscribe registers o and returns a function that removes it again.
func (s *GameState) Subscribe(o Observer) func() {
	s.observers.nextID++
	id := s.observers.nextID
	s.observers.entries = append(s.observers.entries, observerEntry{id: id, observer: o})
	return func() {
		entries := s.observers.entries
		for i, entry := range entries {
			if entry.id == id {
				s.observers.entries = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (s *GameState) notifyBoardChanged() {
	if s.muted {
		return
	}
	for _, entry := range s.observers.entries {
		entry.observer.BoardChanged()
	}
}

func (s *GameState) notifyStatusChanged() {
	if s.muted {
		return
	}
	for _, entry := range s.observers.entries {
		entry.observer.StatusChanged(s.status)
	}
}

func (s *GameState) notifyMoveMade(move Move, player Player) {
	if s.muted {
		return
	}
	for _, entry := range s.observers.entries {
		entry.observer.MoveMade(move, player)
	}
}
