package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"time"

	"tbs/src/types"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// GenerateOrderID builds the category- and channel-coded order identifier:
// subtype code, channel code, second-resolution timestamp, then an 8-char
// random suffix. Collisions are vanishingly unlikely but persistence still
// treats a duplicate key as a handled condition.
func GenerateOrderID(category string, channel string, now time.Time) string {
	entropy := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("%s%s%s%s", category, channel, now.Format("20060102150405"), entropy[:8])
}

// GenerateInvoiceNumber derives the human-readable invoice number from the
// buyer id, the first item's name initials, and the order type/subtype. It
// carries no uniqueness guarantee and must never be used as a lookup key.
func GenerateInvoiceNumber(userID uint, itemName string, orderType types.OrderType, category string, now time.Time) string {
	initials := "X"
	if parts := strings.Split(slug.Make(itemName), "-"); len(parts) > 0 && parts[0] != "" {
		b := strings.Builder{}
		for i, p := range parts {
			if i == 3 {
				break
			}
			b.WriteByte(p[0])
		}
		initials = strings.ToUpper(b.String())
	}
	typeInitial := "T"
	if len(orderType) > 0 {
		typeInitial = string(orderType[0])
	}
	return fmt.Sprintf("INV/%04d/%s/%s%s/%s", userID, initials, typeInitial, category, now.Format("060102150405"))
}

// RoundHalfUp rounds to the nearest integer amount, halves away from zero.
// All intermediate monetary rounding in the pricing engine goes through
// here so totals stay reproducible.
func RoundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// PercentOf computes round(amount * pct / 100).
func PercentOf(amount int64, pct float64) int64 {
	return RoundHalfUp(float64(amount) * pct / 100)
}

var sqlMetaPattern = regexp.MustCompile(`(?i)(['";\\]|--|/\*|\*/|\b(select|insert|update|delete|drop|union|exec|sleep)\b)`)

// ContainsSQLMeta rejects free-text input carrying SQL metacharacters or
// keywords. Queries are parameterized everywhere; this is defense in depth
// for fields that end up in stored records.
func ContainsSQLMeta(s string) bool {
	return sqlMetaPattern.MatchString(s)
}

// EndOfDay returns the last instant of t's calendar day, used when a
// validity window should tolerate same-day use.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(cipherText) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
