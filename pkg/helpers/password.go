package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for stored passwords.
var PasswordCost = 12

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// dummyHash is compared against when there is no stored hash so that a
// missing account costs as much time as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("natours-dummy-password"), bcrypt.DefaultCost)

// CheckPassword reports whether plain matches hash. An empty hash never
// matches.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
