package password

import (
	"encoding/hex"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams снижают стоимость scrypt, чтобы тесты шли быстро.
var testParams = Params{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16}

func TestHasher_Hash(t *testing.T) {
	h := NewHasher(testParams)

	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "password123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "password with delimiter", password: "a:b:c"},
		{name: "unicode password", password: "пароль-密码"},
		{name: "empty password", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := h.Hash(tt.password)
			require.NoError(t, err)

			parts := strings.Split(record, ":")
			require.Len(t, parts, 2)
			assert.Len(t, parts[0], testParams.SaltLen*2)
			assert.Len(t, parts[1], testParams.KeyLen*2)

			assert.True(t, h.Verify(record, tt.password))
		})
	}
}

func TestHasher_Verify(t *testing.T) {
	h := NewHasher(testParams)

	correct, err := h.Hash("correct_password")
	require.NoError(t, err)
	another, err := h.Hash("another_password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		record   string
		attempt  string
		expected bool
	}{
		{name: "matching password", record: correct, attempt: "correct_password", expected: true},
		{name: "wrong password", record: correct, attempt: "wrong_password", expected: false},
		{name: "record of another password", record: another, attempt: "correct_password", expected: false},
		{name: "empty attempt", record: correct, attempt: "", expected: false},
		{name: "empty record", record: "", attempt: "correct_password", expected: false},
		{name: "no delimiter", record: strings.ReplaceAll(correct, ":", ""), attempt: "correct_password", expected: false},
		{name: "three parts", record: correct + ":ff", attempt: "correct_password", expected: false},
		{name: "empty salt", record: ":" + strings.Split(correct, ":")[1], attempt: "correct_password", expected: false},
		{name: "non-hex key", record: strings.Split(correct, ":")[0] + ":zz", attempt: "correct_password", expected: false},
		{name: "short key", record: strings.Split(correct, ":")[0] + ":abcd", attempt: "correct_password", expected: false},
		{name: "only delimiter", record: ":", attempt: "correct_password", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.expected, h.Verify(tt.record, tt.attempt))
			})
		})
	}
}

func TestHasher_SamePasswordDifferentRecords(t *testing.T) {
	h := NewHasher(testParams)

	first, err := h.Hash("password1")
	require.NoError(t, err)
	second, err := h.Hash("password1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify(first, "password1"))
	assert.True(t, h.Verify(second, "password1"))
}

func TestHasher_VerifyKnownRecord(t *testing.T) {
	h := NewHasher(testParams)

	saltHex := "00112233445566778899aabbccddeeff"
	key, err := h.derive("secret-phrase", saltHex)
	require.NoError(t, err)
	record := saltHex + ":" + hex.EncodeToString(key)

	assert.True(t, h.Verify(record, "secret-phrase"))
	assert.False(t, h.Verify(record, "secret-phrase "))
}

func TestHasher_VerifyTimingIndependentOfMismatchPosition(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test skipped in short mode")
	}
	h := NewHasher(testParams)

	saltHex := "0f0e0d0c0b0a09080706050403020100"
	key, err := h.derive("timing", saltHex)
	require.NoError(t, err)

	mismatchAt := func(pos int) string {
		tampered := append([]byte(nil), key...)
		tampered[pos] ^= 0xff
		return saltHex + ":" + hex.EncodeToString(tampered)
	}
	early := mismatchAt(0)
	late := mismatchAt(len(key) - 1)

	const samples = 31
	measure := func(record string) time.Duration {
		durations := make([]time.Duration, 0, samples)
		for range samples {
			start := time.Now()
			ok := h.Verify(record, "timing")
			durations = append(durations, time.Since(start))
			require.False(t, ok)
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		return durations[samples/2]
	}

	earlyMedian := measure(early)
	lateMedian := measure(late)

	ratio := float64(earlyMedian) / float64(lateMedian)
	assert.InDelta(t, 1.0, ratio, 0.5, "early=%s late=%s", earlyMedian, lateMedian)
}
