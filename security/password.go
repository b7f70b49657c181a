package security

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used by Hash.
var Cost = bcrypt.DefaultCost

func Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), Cost)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
