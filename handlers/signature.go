package handlers

import (
	"crypto/ed25519"
	"encoding/hex"
	"log"
)

// VerifyKey checks the request signature over timestamp-bytes ++ body against
// the process-wide public key. It never panics: any decoding or verification
// failure is logged and reported as false.
func VerifyKey(body []byte, signature, timestamp string, publicKey ed25519.PublicKey) bool {
	sig, err := hex.DecodeString(signature)
	if err != nil {
		log.Printf("❌ Failed to decode request signature: %v", err)
		return false
	}
	if len(sig) != ed25519.SignatureSize || len(publicKey) != ed25519.PublicKeySize {
		log.Printf("❌ Bad signature or public key length")
		return false
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)

	return ed25519.Verify(publicKey, message, sig)
}
