package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"flag"
	"log"

	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/gothamclient"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "gotham-server base URL")
		token     = flag.String("token", "", "bearer token (omit in passthrough mode)")
		protocol  = flag.String("protocol", "ecdsa", "protocol to demo: ecdsa, eddsa, or schnorr")
		message   = flag.String("message", "Hello, Gotham!", "message to sign")
	)
	flag.Parse()

	c := gothamclient.New(*serverURL, *token)
	ctx := context.Background()

	switch *protocol {
	case "ecdsa":
		runECDSA(ctx, c, *message)
	case "eddsa":
		runEdDSA(ctx, c, *message)
	case "schnorr":
		runSchnorr(ctx, c, *message)
	default:
		log.Fatalf("unknown protocol %q (want ecdsa, eddsa, or schnorr)", *protocol)
	}
}

func runECDSA(ctx context.Context, c *gothamclient.Client, message string) {
	log.Println("ecdsa: generating key...")
	kg, err := c.ECDSAKeyGen(ctx)
	if err != nil {
		log.Fatalf("ecdsa keygen: %v", err)
	}
	log.Printf("ecdsa: session %s, public key %s", kg.SessionID, hex.EncodeToString(kg.MasterKey.Q.Bytes()))

	digest := curvemath.HashToScalar([]byte(message))
	sig, err := c.ECDSASign(ctx, kg.SessionID, kg.MasterKey, digest, nil)
	if err != nil {
		log.Fatalf("ecdsa sign: %v", err)
	}
	log.Printf("ecdsa: signature r=%s s=%s", hex.EncodeToString(sig.R.Bytes()), hex.EncodeToString(sig.S.Bytes()))

	rotated, err := c.ECDSARotate(ctx, kg.SessionID, kg.MasterKey)
	if err != nil {
		log.Fatalf("ecdsa rotate: %v", err)
	}
	log.Printf("ecdsa: rotated to session %s, public key unchanged: %v", rotated.SessionID, rotated.MasterKey.Q.Equal(kg.MasterKey.Q))
}

func runEdDSA(ctx context.Context, c *gothamclient.Client, message string) {
	log.Println("eddsa: generating key...")
	kg, err := c.EdDSAKeyGen(ctx)
	if err != nil {
		log.Fatalf("eddsa keygen: %v", err)
	}
	log.Printf("eddsa: session %s, public key %s", kg.SessionID, hex.EncodeToString(kg.Apk))

	sig, err := c.EdDSASign(ctx, kg.SessionID, kg.A2, kg.Apk, []byte(message))
	if err != nil {
		log.Fatalf("eddsa sign: %v", err)
	}
	log.Printf("eddsa: signature %s (verifies: %v)", hex.EncodeToString(sig), ed25519.Verify(kg.Apk, []byte(message), sig))
}

func runSchnorr(ctx context.Context, c *gothamclient.Client, message string) {
	log.Println("schnorr: generating key...")
	kg, err := c.SchnorrKeyGen(ctx)
	if err != nil {
		log.Fatalf("schnorr keygen: %v", err)
	}
	log.Printf("schnorr: session %s, public key %s", kg.SessionID, hex.EncodeToString(kg.Apk.Bytes()))

	digest := curvemath.HashToScalar([]byte(message))
	sig, err := c.SchnorrSign(ctx, kg.SessionID, kg.X2, kg.Apk, digest)
	if err != nil {
		log.Fatalf("schnorr sign: %v", err)
	}
	log.Printf("schnorr: signature r=%s s=%s", hex.EncodeToString(sig.R.Bytes()), hex.EncodeToString(sig.S.Bytes()))
}
