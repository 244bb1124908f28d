package rooms

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

const (
	codeLetters     = "ABCDEFGHJKLMNPQRSTUVWXYZ" // no I/O, they read as digits
	codeMaxAttempts = 5
)

var errCodeSpaceExhausted = errors.New("could not allocate a free room code")

// randomRoomCode builds a short shareable code: three letters, a dash,
// three digits (e.g. "KWF-804").
func randomRoomCode() string {
	var b strings.Builder
	for i := 0; i < 3; i++ {
		b.WriteByte(codeLetters[rand.Intn(len(codeLetters))])
	}
	fmt.Fprintf(&b, "-%03d", rand.Intn(1000))
	return b.String()
}

// allocateRoomCode retries against the store's unique code space a small
// fixed number of times before giving up.
func (s *Service) allocateRoomCode() (string, error) {
	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		code := randomRoomCode()
		taken, err := s.store.RoomCodeTaken(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errCodeSpaceExhausted
}
