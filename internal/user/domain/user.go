package domain

import "time"

type ID string

// User is an identity record. Logins are unique and users are never deleted.
type User struct {
	ID           ID        `bson:"_id"`
	Login        string    `bson:"login"`
	PasswordHash string    `bson:"password"`
	Sex          string    `bson:"sex"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	Email        string    `bson:"email"`
	Bio          string    `bson:"bio"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// Profile holds the fields a user may edit after registration.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Bio       string
}

// Summary is the display information shown next to project members.
type Summary struct {
	ID        ID
	Login     string
	FirstName string
	LastName  string
}

func (u User) Summary() Summary {
	return Summary{
		ID:        u.ID,
		Login:     u.Login,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
