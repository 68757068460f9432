// Command decode_assertion dumps the structure of a WebAuthn assertion
// captured off the wire, without verifying it. Grounded on the
// teacher's cmd/decode_signature, which parsed a single hardcoded
// signature blob into its r||s||authData||clientDataJSON components;
// this version reads the same shape from a -blob flag and additionally
// runs the hand-built challenge extractor over the decoded
// clientDataJSON.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"passkey-smart-wallet/internal/webauthncore"
)

func main() {
	blobHex := flag.String("blob", "", "hex-encoded r(32)||s(32)||authDataLength(2, big-endian)||authenticatorData||clientDataJSON blob")
	flag.Parse()

	if *blobHex == "" {
		log.Fatal("-blob is required")
	}

	blob, err := hex.DecodeString(*blobHex)
	if err != nil {
		log.Fatalf("decode blob: %v", err)
	}
	if len(blob) < 66 {
		log.Fatalf("blob too short: need at least 66 bytes, got %d", len(blob))
	}

	r := blob[0:32]
	s := blob[32:64]
	authDataLength := int(blob[64])<<8 | int(blob[65])
	if len(blob) < 66+authDataLength {
		log.Fatalf("blob too short for authenticatorData: have %d, need %d", len(blob), 66+authDataLength)
	}
	authenticatorData := blob[66 : 66+authDataLength]
	clientDataJSON := blob[66+authDataLength:]

	fmt.Printf("r: %x\n", r)
	fmt.Printf("s: %x\n", s)
	fmt.Printf("authenticatorData (%d bytes): %x\n", len(authenticatorData), authenticatorData)
	fmt.Printf("clientDataJSON (%d bytes): %s\n\n", len(clientDataJSON), string(clientDataJSON))

	challenge, err := webauthncore.ExtractChallenge(clientDataJSON)
	if err != nil {
		fmt.Printf("❌ could not extract challenge: %v\n", err)
		return
	}
	fmt.Printf("challenge (base64url, no padding): %s\n", challenge)
}
