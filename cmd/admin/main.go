package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mesikahq/clinic-desk/internal/auth"
)

// admin prints the bcrypt hash to put in auth.password_hash
// (or CLINIC_AUTH_PASSWORD_HASH).
func main() {
	password := flag.String("password", "", "Operator password")
	flag.Parse()

	if *password == "" {
		log.Fatal("Password is required. Use the -password flag")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Println(hash)
}
