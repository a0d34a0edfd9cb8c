package media

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const filenameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateFilename returns {unixMillis}-{6 base36 chars}.{ext}.
func GenerateFilename(now time.Time, ext string) (string, error) {
	b := make([]byte, 6)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(filenameAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = filenameAlphabet[num.Int64()]
	}

	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), string(b), ext), nil
}
