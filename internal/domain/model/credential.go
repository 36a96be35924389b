package model

import "fmt"

// Credential is one stored service/login/password record. ID is assigned by
// the store on insert and is never reused. Password is kept verbatim.
type Credential struct {
	ID       int64  `db:"id"`
	Service  string `db:"service"`
	Login    string `db:"login"`
	Password string `db:"password"`
}

// String renders the credential the way the print command lists it.
func (c Credential) String() string {
	return fmt.Sprintf("ID: %d, Service: %s, Login: %s, Password: %s", c.ID, c.Service, c.Login, c.Password)
}
