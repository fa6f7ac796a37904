package model

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// DomainSlot prefixes slot payload hashes.
// The version suffix leaves room for a future algorithm change.
const DomainSlot = "presente/slot/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PayloadHash returns the content hash of a canonical slot payload for key.
// The key is part of the hash so identical payloads in different slots
// never share an identity. Text is hashed NFC normalized: payloads that
// differ only in Unicode normalization share a hash.
func PayloadHash(key string, canonical []byte) string {
	text := norm.NFC.Bytes(canonical)
	data := make([]byte, 0, len(key)+1+len(text))
	data = append(data, key...)
	data = append(data, 0x00)
	data = append(data, text...)
	return hashWithDomain(DomainSlot, data)
}
