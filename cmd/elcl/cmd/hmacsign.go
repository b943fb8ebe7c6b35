package cmd

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/parser"
	"github.com/erbsland-dev/erbsland-conf-go/sign"
)

// hmacSigningFunc builds a sign.SigningFunc that stamps a document with
// "hmac-sha256:<hex>" over its digest, keyed by passphrase. The sign
// package itself is algorithm-agnostic (spec §4.7 only fixes the
// two-pass protocol, not a signing scheme), so the CLI supplies this one
// concrete scheme the way the teacher's hash.go computes a schema-suffix
// hash from its own chosen algorithm rather than the library dictating
// one.
func hmacSigningFunc(passphrase string) sign.SigningFunc {
	return func(_ lexer.SourceIdentifier, _ string, docDigest [32]byte) (string, error) {
		mac := hmac.New(sha256.New, []byte(passphrase))
		mac.Write(docDigest[:])
		return "hmac-sha256:" + hex.EncodeToString(mac.Sum(nil)), nil
	}
}

// hmacValidator adapts the same scheme into a parser.SignatureValidator
// for `validate`, and for `parse` whenever sign_passphrase is configured.
type hmacValidator struct {
	passphrase string
}

func (v hmacValidator) ValidateSignature(_ lexer.SourceIdentifier, signatureText string, docDigest [32]byte) parser.SignatureOutcome {
	want, err := hmacSigningFunc(v.passphrase)(lexer.SourceIdentifier{}, "", docDigest)
	if err != nil {
		return parser.Reject
	}
	if signatureText == want {
		return parser.Accept
	}
	return parser.Reject
}

var errNoPassphrase = errors.New("no sign_passphrase configured: set it in the config file")
