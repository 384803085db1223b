package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"

	"krakenmate/internal/xerrors"
)

// Sign computes Kraken's REST request signature:
//
//	HMAC-SHA512(base64_decode(secret), path_bytes || SHA256(nonce_ascii + post_data))
//
// base64-encoded. Mirrors original_source/src/auth.rs's sign() exactly,
// including which bytes are hashed versus HMAC'd.
func Sign(secret, path, nonce, postData string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", xerrors.Wrap(xerrors.Auth, err, "sign: secret is not valid base64")
	}

	shaSum := sha256.Sum256([]byte(nonce + postData))

	message := make([]byte, 0, len(path)+len(shaSum))
	message = append(message, path...)
	message = append(message, shaSum[:]...)

	mac := hmac.New(sha512.New, key)
	mac.Write(message)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
