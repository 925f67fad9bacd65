package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const projectIDPrefix = "proj"

// NewProjectID generates a human-readable public project id, e.g. "proj-12345-6789".
func NewProjectID() (string, error) {
	a, err := randInt(10000, 99999)
	if err != nil {
		return "", err
	}
	b, err := randInt(1000, 9999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d-%04d", projectIDPrefix, a, b), nil
}

// NewID generates an id for a record owned by a project, e.g. "mb_0b8f...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func randInt(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}
