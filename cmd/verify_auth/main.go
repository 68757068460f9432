// Command verify_auth reproduces the CheckAuth pipeline step by step
// against CLI-supplied inputs, for diagnosing a rejected assertion
// without spinning up the whole service. Grounded on the teacher's
// cmd/verify_signature and cmd/verify_webauthn scratch tools, which
// hardcoded a single failed transaction's bytes inline — this version
// takes the same inputs as flags so it can be rerun against any
// assertion.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"passkey-smart-wallet/internal/walletmodel"
	"passkey-smart-wallet/internal/webauthncore"
)

func main() {
	authDataHex := flag.String("auth-data", "", "hex-encoded authenticatorData")
	clientDataJSON := flag.String("client-data", "", "raw clientDataJSON string")
	signatureHex := flag.String("signature", "", "hex-encoded compact r||s signature (64 bytes)")
	pubKeyXHex := flag.String("pubkey-x", "", "hex-encoded 32-byte P-256 public key X coordinate")
	pubKeyYHex := flag.String("pubkey-y", "", "hex-encoded 32-byte P-256 public key Y coordinate")
	challengeHex := flag.String("challenge", "", "hex-encoded 32-byte expected challenge payload")
	flag.Parse()

	if *authDataHex == "" || *clientDataJSON == "" || *signatureHex == "" || *pubKeyXHex == "" || *pubKeyYHex == "" || *challengeHex == "" {
		log.Fatal("all of -auth-data, -client-data, -signature, -pubkey-x, -pubkey-y, -challenge are required")
	}

	authData, err := hex.DecodeString(*authDataHex)
	if err != nil {
		log.Fatalf("decode auth-data: %v", err)
	}
	sigBytes, err := hex.DecodeString(*signatureHex)
	if err != nil {
		log.Fatalf("decode signature: %v", err)
	}
	if len(sigBytes) != walletmodel.SignatureLen {
		log.Fatalf("signature must be %d bytes, got %d", walletmodel.SignatureLen, len(sigBytes))
	}
	var signature [64]byte
	copy(signature[:], sigBytes)

	xBytes, err := hex.DecodeString(*pubKeyXHex)
	if err != nil {
		log.Fatalf("decode pubkey-x: %v", err)
	}
	yBytes, err := hex.DecodeString(*pubKeyYHex)
	if err != nil {
		log.Fatalf("decode pubkey-y: %v", err)
	}
	rawKey := append([]byte{0x04}, append(xBytes, yBytes...)...)
	pubKey, err := walletmodel.ParsePublicKey(rawKey)
	if err != nil {
		log.Fatalf("parse public key: %v", err)
	}

	challengeBytes, err := hex.DecodeString(*challengeHex)
	if err != nil {
		log.Fatalf("decode challenge: %v", err)
	}
	if len(challengeBytes) != walletmodel.PayloadLen {
		log.Fatalf("challenge must be %d bytes, got %d", walletmodel.PayloadLen, len(challengeBytes))
	}
	var payload walletmodel.SignaturePayload
	copy(payload[:], challengeBytes)

	fmt.Println("=== Step B: challenge binding ===")
	if err := webauthncore.VerifyChallengeBinding([]byte(*clientDataJSON), payload); err != nil {
		fmt.Printf("❌ challenge binding failed: %v\n", err)
	} else {
		fmt.Println("✅ clientDataJSON challenge matches expected payload")
	}

	fmt.Println("\n=== Step C: signed message reconstruction ===")
	messageHash := webauthncore.SignedMessage(authData, []byte(*clientDataJSON))
	fmt.Printf("messageHash: %x\n", messageHash)

	fmt.Println("\n=== Step D: secp256r1 signature verification ===")
	if webauthncore.VerifySignature(pubKey, messageHash, signature) {
		fmt.Println("✅✅✅ SIGNATURE IS VALID ✅✅✅")
	} else {
		fmt.Println("❌❌❌ SIGNATURE IS INVALID ❌❌❌")
	}
}
