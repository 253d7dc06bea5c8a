// Command token prints a signed access token for the box office API.
//
//	JWT_SECRET=... token -sub Jeremy_1 -role CUSTOMER
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinema-box-office/internal/utils"
)

func main() {
	sub := flag.String("sub", "", "token subject; reservations are booked under this name by default")
	role := flag.String("role", utils.RoleCustomer, "OWNER or CUSTOMER")
	ttl := flag.Int("ttl", 60, "lifetime in minutes")
	flag.Parse()
	_ = godotenv.Load() // load .env if present, ignore error

	if *role != utils.RoleOwner && *role != utils.RoleCustomer {
		log.Fatalf("unknown role %q", *role)
	}
	tok, err := utils.NewAccessToken(os.Getenv("JWT_SECRET"), *sub, *role, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tok.Token)
}
