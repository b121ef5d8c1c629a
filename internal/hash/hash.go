package hash

import (
	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Strength scores a password from 0 (guessable) to 4, penalising
// passwords built from the supplied user inputs such as username or email.
func Strength(password string, userInputs ...string) int {
	return zxcvbn.PasswordStrength(password, userInputs).Score
}
