package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes
)

func GenerateRandomString(length int) (string, error) {
	return generateRandom(length, alphanumeric)
}

func generateRandom(length int, charset string) (string, error) {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, err := rand.Int(rand.Reader, charsetLength)
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}

	return string(result), nil
}

// GenerateSessionID returns an unguessable public chat session identifier.
func GenerateSessionID() (string, error) {
	suffix, err := GenerateRandomString(SessionIDRandomLength)
	if err != nil {
		return "", err
	}
	return SessionIDPrefix + suffix, nil
}
