package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPin hashes a shop's plaintext PIN using bcrypt.
func HashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPinHash compares a plaintext PIN with a stored bcrypt hash.
func CheckPinHash(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
