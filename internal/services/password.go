package services

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// PasswordCost is the bcrypt cost of newly stored hashes.
const PasswordCost = bcrypt.DefaultCost

// Iteration count werkzeug assumes when a pbkdf2 method omits it.
const werkzeugDefaultIterations = 600000

var errUnsupportedHash = errors.New("unsupported password hash format")

// dummyHash is compared against when the username does not exist.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), PasswordCost)

// CheckPassword verifies password against a stored hash. Accounts created here
// carry bcrypt hashes; accounts from the legacy dashboard carry werkzeug
// "method$salt$hex" hashes (pbkdf2 or scrypt).
func CheckPassword(stored, password string) error {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	}

	method, salt, want, err := splitWerkzeugHash(stored)
	if err != nil {
		return err
	}

	var got []byte
	parts := strings.Split(method, ":")
	switch parts[0] {
	case "pbkdf2":
		got, err = werkzeugPBKDF2(parts[1:], salt, password, len(want))
	case "scrypt":
		got, err = werkzeugScrypt(parts[1:], salt, password)
	default:
		return errUnsupportedHash
	}
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return nil
}

func splitWerkzeugHash(stored string) (method, salt string, sum []byte, err error) {
	fields := strings.Split(stored, "$")
	if len(fields) != 3 || fields[1] == "" {
		return "", "", nil, errUnsupportedHash
	}
	sum, err = hex.DecodeString(fields[2])
	if err != nil || len(sum) == 0 {
		return "", "", nil, errUnsupportedHash
	}
	return fields[0], fields[1], sum, nil
}

// pbkdf2:<alg>[:<iterations>]
func werkzeugPBKDF2(args []string, salt, password string, keyLen int) ([]byte, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, errUnsupportedHash
	}

	var h func() hash.Hash
	switch args[0] {
	case "sha256":
		h = sha256.New
	case "sha512":
		h = sha512.New
	case "sha1":
		h = sha1.New
	default:
		return nil, errUnsupportedHash
	}

	iterations := werkzeugDefaultIterations
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return nil, errUnsupportedHash
		}
		iterations = n
	}

	return pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLen, h), nil
}

// scrypt:<n>:<r>:<p>
func werkzeugScrypt(args []string, salt, password string) ([]byte, error) {
	n, r, p := 32768, 8, 1
	if len(args) == 3 {
		var vals [3]int
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil || v <= 0 {
				return nil, errUnsupportedHash
			}
			vals[i] = v
		}
		n, r, p = vals[0], vals[1], vals[2]
	} else if len(args) != 0 {
		return nil, errUnsupportedHash
	}
	return scrypt.Key([]byte(password), []byte(salt), n, r, p, 64)
}
