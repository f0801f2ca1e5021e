package auth

import "strings"

// User is the public profile returned by /users/me.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Disabled bool   `json:"disabled"`

	HashedPassword string `json:"-"`
}

// Directory is a fixed, in-memory user list built from config.
type Directory struct {
	users map[string]User
}

func NewDirectory(users ...User) *Directory {
	d := &Directory{users: make(map[string]User, len(users))}
	for _, u := range users {
		if strings.TrimSpace(u.Username) == "" {
			continue
		}
		d.users[u.Username] = u
	}
	return d
}

func (d *Directory) Lookup(username string) (User, bool) {
	if d == nil {
		return User{}, false
	}
	u, ok := d.users[username]
	return u, ok
}

// Authenticate checks the password for username. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (d *Directory) Authenticate(username, password string) (User, error) {
	u, ok := d.Lookup(username)
	if !ok || u.HashedPassword == "" {
		return User{}, ErrInvalidCredentials
	}
	if err := CheckPassword(u.HashedPassword, password); err != nil {
		return User{}, err
	}
	return u, nil
}
