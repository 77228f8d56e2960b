package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// GenerateID generates a unique ID with the given prefix
func GenerateID(prefix string) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 10

	result := make([]byte, length)
	for i := range result {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[num.Int64()]
	}

	return fmt.Sprintf("%s-%s", prefix, string(result))
}

// GenerateVerificationCode returns a random 6-digit numeric code.
func GenerateVerificationCode() string {
	num, _ := rand.Int(rand.Reader, big.NewInt(900000))
	return fmt.Sprintf("%06d", num.Int64()+100000)
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

var usernameRe = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// ValidateUsername checks the handle format: lowercase letters, digits,
// underscore and dot, 3-30 characters.
func ValidateUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// ValidateUserID validates the user ID format
func ValidateUserID(userID string) bool {
	return len(userID) > 4 && userID[:4] == "usr-"
}
