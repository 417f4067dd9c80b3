package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
)

func main() {
	size := flag.Int("bytes", 32, "key length in bytes")
	flag.Parse()
	if *size < 32 {
		log.Fatalf("key must be at least 32 bytes for HS256, got %d", *size)
	}

	key := make([]byte, *size)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("Failed to generate jwt key: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)

	fmt.Println("Generated key (base64):")
	fmt.Println(encoded)
	fmt.Println()
	fmt.Println("Add this to backend/config/private.yaml:")
	fmt.Printf("jwt_key: \"%s\"\n", encoded)
	fmt.Println("or export it as JWT_KEY. Rotating the key signs out every user.")
}
