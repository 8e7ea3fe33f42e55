package chat

import (
	"sync"

	"github.com/google/uuid"

	"chat-backend/internal/inference"
	"chat-backend/pkg/api"
)

// Store is the observable client state: the chat list, the messages of the
// selected chat, the chosen model, and the in-flight flag. Listeners are
// notified after every mutation, which is how the UI layer re-renders.
type Store struct {
	mu sync.RWMutex

	currentChatID uuid.UUID
	chats         []api.Chat
	messages      []api.Message
	messageIDs    map[uuid.UUID]struct{}
	model         string
	busy          bool

	listeners []func()
}

func NewStore() *Store {
	return &Store{
		messageIDs: make(map[uuid.UUID]struct{}),
		model:      inference.ModelAnum,
	}
}

// Subscribe registers a listener called after every state change.
func (s *Store) Subscribe(listener func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener()
	}
}

func (s *Store) CurrentChatID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentChatID
}

func (s *Store) Chats() []api.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chats := make([]api.Chat, len(s.chats))
	copy(chats, s.chats)
	return chats
}

func (s *Store) Messages() []api.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	messages := make([]api.Message, len(s.messages))
	copy(messages, s.messages)
	return messages
}

func (s *Store) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// HasMessage reports whether a message ID is already in the store. The feed
// subscriber uses it to drop echoes of messages this client inserted itself.
func (s *Store) HasMessage(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.messageIDs[id]
	return ok
}

func (s *Store) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// SetModel switches the selected backend. Unknown ids are dropped so the
// selection always stays within the fixed model set.
func (s *Store) SetModel(model string) {
	if !inference.ValidModel(model) {
		return
	}
	s.mu.Lock()
	s.model = model
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// setBusy flips the in-flight flag; it returns false if the flag already had
// the requested value, which the composer uses as its single-flight check.
func (s *Store) setBusy(busy bool) bool {
	s.mu.Lock()
	if s.busy == busy {
		s.mu.Unlock()
		return false
	}
	s.busy = busy
	s.mu.Unlock()
	s.notify()
	return true
}

func (s *Store) SetChats(chats []api.Chat) {
	s.mu.Lock()
	s.chats = chats
	s.mu.Unlock()
	s.notify()
}

// PrependChat puts a freshly created chat at the top of the directory.
func (s *Store) PrependChat(chat api.Chat) {
	s.mu.Lock()
	s.chats = append([]api.Chat{chat}, s.chats...)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) RemoveChat(chatID uuid.UUID) {
	s.mu.Lock()
	for i, chat := range s.chats {
		if chat.ID == chatID {
			s.chats = append(s.chats[:i], s.chats[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetChatTitle(chatID uuid.UUID, title string) {
	s.mu.Lock()
	for i := range s.chats {
		if s.chats[i].ID == chatID {
			s.chats[i].Title = title
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// SelectChat switches the current chat and replaces the loaded messages.
func (s *Store) SelectChat(chatID uuid.UUID, messages []api.Message) {
	s.mu.Lock()
	s.currentChatID = chatID
	s.messages = messages
	s.messageIDs = make(map[uuid.UUID]struct{}, len(messages))
	for _, message := range messages {
		s.messageIDs[message.ID] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// AddMessage appends a message to the current chat. Duplicates (feed echoes
// of locally inserted rows) are dropped; the return value reports whether the
// message was added.
func (s *Store) AddMessage(message api.Message) bool {
	s.mu.Lock()
	if message.ChatID != s.currentChatID {
		s.mu.Unlock()
		return false
	}
	if _, ok := s.messageIDs[message.ID]; ok {
		s.mu.Unlock()
		return false
	}
	s.messages = append(s.messages, message)
	s.messageIDs[message.ID] = struct{}{}
	s.mu.Unlock()
	s.notify()
	return true
}

// Reset clears the selection and messages but keeps the chat directory, the
// state after deleting the current chat or signing in fresh.
func (s *Store) Reset() {
	s.mu.Lock()
	s.currentChatID = uuid.Nil
	s.messages = nil
	s.messageIDs = make(map[uuid.UUID]struct{})
	s.busy = false
	s.mu.Unlock()
	s.notify()
}
