package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/google/uuid"
)

func main() {
	tokenSecret := uuid.New()
	totpMasterSecret := uuid.New()

	tenantSecretKey := make([]byte, 32)
	if _, err := rand.Read(tenantSecretKey); err != nil {
		fmt.Printf("failed to generate tenant secret key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("--- copy below to .env.local ---")
	fmt.Printf("CORE_TOKEN_SECRET=%s\n", tokenSecret.String())
	fmt.Printf("CORE_TOTP_MASTER_SECRET=%s\n", totpMasterSecret.String())
	fmt.Printf("TENANT_SECRET_KEY=%s\n", hex.EncodeToString(tenantSecretKey))
	fmt.Println("---------------------------------")
}
