package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/echoline-ai/echoline/providers/ai"
)

// Fingerprint is a deterministic digest of a request, used as the cache key.
type Fingerprint string

// FingerprintRequest digests the fields that determine a provider's wire
// payload: provider name, model, temperature bits, max-token count, and the
// ordered (role, text) pairs of every message. Every field is length-prefixed
// so that adjacent fields cannot collide by concatenation.
//
// Non-text message parts are excluded from the digest: two requests that
// differ only in image parts hash identically. Callers sending image parts
// should bypass the cache (the delivery engine only caches non-streaming
// text exchanges, where this cannot produce a stale hit in practice).
func FingerprintRequest(provider string, request ai.ChatRequest) Fingerprint {
	digest := sha256.New()

	writeString := func(s string) {
		var length [8]byte
		binary.BigEndian.PutUint64(length[:], uint64(len(s)))
		digest.Write(length[:])
		digest.Write([]byte(s))
	}
	writeUint32 := func(present bool, v uint32) {
		var buf [5]byte
		if present {
			buf[0] = 1
			binary.BigEndian.PutUint32(buf[1:], v)
		}
		digest.Write(buf[:])
	}

	writeString(provider)
	writeString(request.Model)

	var temperatureBits uint32
	if request.Temperature != nil {
		temperatureBits = math.Float32bits(*request.Temperature)
	}
	writeUint32(request.Temperature != nil, temperatureBits)

	var maxTokens uint32
	if request.MaxTokens != nil {
		maxTokens = *request.MaxTokens
	}
	writeUint32(request.MaxTokens != nil, maxTokens)

	for _, message := range request.Messages {
		writeString(string(message.Role))
		writeString(message.Content.Text())
	}

	return Fingerprint(hex.EncodeToString(digest.Sum(nil)))
}
