package services

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier abstracts credential verification so the hashing scheme
// stays pluggable.
type PasswordVerifier interface {
	Verify(hash, password string) error
	Hash(password string) (string, error)
}

type bcryptVerifier struct{}

func NewBcryptVerifier() PasswordVerifier {
	return &bcryptVerifier{}
}

func (v *bcryptVerifier) Verify(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (v *bcryptVerifier) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
