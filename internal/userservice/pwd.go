package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// set hashes the plaintext password. The plaintext itself is discarded; only
// the hash is ever held or stored.
func (p *Password) set(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcryptCost)
	if err != nil {
		return err
	}

	p.hash = hash

	return nil
}

func (p *Password) compare(pwd string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(pwd))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}
