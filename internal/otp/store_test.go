// internal/otp/store_test.go
package otp

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesSixDigits(t *testing.T) {
	s := NewStore(time.Minute)

	code, err := s.Generate("user1@test.com")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
}

func TestValidateConsumesCode(t *testing.T) {
	s := NewStore(time.Minute)

	code, err := s.Generate("user1@test.com")
	require.NoError(t, err)

	assert.True(t, s.Validate("user1@test.com", code))
	assert.False(t, s.Validate("user1@test.com", code), "a code is single-use")
	assert.Equal(t, 0, s.Len())
}

func TestValidateRejectsWrongCodeWithoutConsuming(t *testing.T) {
	s := NewStore(time.Minute)

	code, err := s.Generate("user1@test.com")
	require.NoError(t, err)

	assert.False(t, s.Validate("user1@test.com", "000000"))
	assert.False(t, s.Validate("other@test.com", code))
	assert.True(t, s.Validate("user1@test.com", code), "a failed attempt does not burn the code")
}

func TestValidateEvictsExpiredCode(t *testing.T) {
	s := NewStore(time.Minute)

	now := time.Now()
	s.now = func() time.Time { return now }

	code, err := s.Generate("user1@test.com")
	require.NoError(t, err)

	now = now.Add(time.Minute + time.Second)
	assert.False(t, s.Validate("user1@test.com", code))
	assert.Equal(t, 0, s.Len(), "expired code is evicted on probe")
}

func TestGenerateReplacesEarlierCode(t *testing.T) {
	s := NewStore(time.Minute)

	first, err := s.Generate("user1@test.com")
	require.NoError(t, err)
	second, err := s.Generate("user1@test.com")
	require.NoError(t, err)

	if first != second {
		assert.False(t, s.Validate("user1@test.com", first))
	}
	assert.True(t, s.Validate("user1@test.com", second))
}

func TestStoreIsSafeForConcurrentUse(t *testing.T) {
	s := NewStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := s.Generate("user1@test.com")
			assert.NoError(t, err)
			s.Validate("user1@test.com", code)
		}()
	}
	wg.Wait()
}
