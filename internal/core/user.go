package core

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultUserName is assigned to users registered without a name.
// It is shared by every anonymous user, so it can be neither chosen nor
// signed into.
const DefaultUserName = "Anonymous"

// nameSeparators may not appear in user names; they delimit list replies.
const nameSeparators = ";|"

// UserID identifies a user across the whole system.
type UserID = uuid.UUID

// User is a registered chat participant profile.
type User struct {
	ID       UserID
	Name     string
	LoggedIn bool
}

// Registry owns all users. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	users map[UserID]*User
	order []UserID
}

// NewRegistry creates an empty user registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[UserID]*User),
	}
}

// Register creates a new user that is not logged in and returns its id.
func (r *Registry) Register(name string) UserID {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.register(name, false)
}

func (r *Registry) register(name string, loggedIn bool) UserID {
	if strings.TrimSpace(name) == "" {
		name = DefaultUserName
	}
	id := uuid.New()
	r.users[id] = &User{ID: id, Name: name, LoggedIn: loggedIn}
	r.order = append(r.order, id)
	return id
}

// Rename changes the name of an existing user.
// Names are unique among users; renaming to one's own name is a no-op.
func (r *Registry) Rename(id UserID, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if owner, taken := r.findByName(name); taken && owner != id {
		return ErrNameTaken
	}
	user.Name = name
	return nil
}

// User returns a copy of the user profile.
func (r *Registry) User(id UserID) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return User{}, false
	}
	return *user, true
}

// Exists reports whether a user with the given id is registered.
func (r *Registry) Exists(id UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok
}

// Users returns all users in registration order.
func (r *Registry) Users() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.users[id])
	}
	return out
}

// FindByName returns the id of the earliest registered user with that name.
func (r *Registry) FindByName(name string) (UserID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.findByName(name)
}

// NameExists reports whether any user currently holds the name.
func (r *Registry) NameExists(name string) bool {
	_, ok := r.FindByName(name)
	return ok
}

func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return ErrInvalidName
	case name == DefaultUserName:
		return ErrInvalidName
	case strings.ContainsAny(name, nameSeparators):
		return ErrInvalidName
	}
	return nil
}

func (r *Registry) findByName(name string) (UserID, bool) {
	for _, id := range r.order {
		if r.users[id].Name == name {
			return id, true
		}
	}
	return uuid.Nil, false
}

// SignUp registers a new named user and marks it logged in.
// The name must not be held by any other user.
func (r *Registry) SignUp(name string) (UserID, error) {
	if err := checkName(name); err != nil {
		return uuid.Nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.findByName(name); taken {
		return uuid.Nil, ErrNameTaken
	}
	return r.register(name, true), nil
}

// SignIn binds to an existing user by name and marks it logged in.
// A user can hold only one login at a time. Anonymous users cannot be
// signed into.
func (r *Registry) SignIn(name string) (UserID, error) {
	if name == DefaultUserName {
		return uuid.Nil, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.findByName(name)
	if !ok {
		return uuid.Nil, ErrUserNotFound
	}
	user := r.users[id]
	if user.LoggedIn {
		return uuid.Nil, ErrAlreadyLoggedIn
	}
	user.LoggedIn = true
	return id, nil
}

// SetLoggedIn updates the login flag. Unknown ids are ignored.
func (r *Registry) SetLoggedIn(id UserID, loggedIn bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		user.LoggedIn = loggedIn
	}
}

// IsLoggedIn reports the login flag of a user.
func (r *Registry) IsLoggedIn(id UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	return ok && user.LoggedIn
}

// Count returns the number of registered users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}
