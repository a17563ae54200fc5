package security

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Werkzeug's iteration count when the method string carries none.
const defaultPBKDF2Iterations = 600000

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPasswordHash verifies password against a stored hash. bcrypt hashes
// and werkzeug "pbkdf2:<digest>[:<iterations>]$<salt>$<hex>" hashes are
// accepted; anything else never matches.
func CheckPasswordHash(password, stored string) bool {
	if strings.HasPrefix(stored, "pbkdf2:") {
		return checkPBKDF2(password, stored)
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func checkPBKDF2(password, stored string) bool {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, want := parts[0], parts[1], parts[2]

	fields := strings.Split(method, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return false
	}
	newHash := digestFor(fields[1])
	if newHash == nil {
		return false
	}
	iterations := defaultPBKDF2Iterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return false
		}
		iterations = n
	}

	wantBytes, err := hex.DecodeString(want)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, newHash().Size(), newHash)
	return subtle.ConstantTimeCompare(got, wantBytes) == 1
}

func digestFor(name string) func() hash.Hash {
	switch name {
	case "sha1":
		return sha1.New
	case "sha256":
		return sha256.New
	case "sha512":
		return sha512.New
	}
	return nil
}
