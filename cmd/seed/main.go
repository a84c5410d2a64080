// Command seed bootstraps a fresh deployment: the first admin account
// and a starter configuration fragment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"birlik.org/internal/auth"
	"birlik.org/internal/store/pg"
)

func main() {
	log.SetFlags(0)
	var (
		dsn      = flag.String("dsn", os.Getenv("BIRLIK_PG_DSN"), "PostgreSQL DSN")
		email    = flag.String("email", "admin@birlik.org", "Admin account email")
		password = flag.String("password", "", "Admin account password")
		name     = flag.String("name", "Yönetici", "Admin display name")
		title    = flag.String("site-title", "Birlik Sendikası", "Initial site title")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or BIRLIK_PG_DSN")
	}
	if *password == "" {
		log.Fatal("missing -password for the admin account")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := pg.Open(*dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	codec, err := auth.NewCodec("seed-only")
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}
	accounts, err := auth.NewService(store, codec)
	if err != nil {
		log.Fatalf("accounts service: %v", err)
	}

	acc, err := accounts.CreateAccount(ctx, *email, *password, *name, auth.RoleAdmin)
	switch {
	case errors.Is(err, auth.ErrConflict):
		fmt.Printf("admin account %s already exists, skipping\n", *email)
	case err != nil:
		log.Fatalf("create admin account: %v", err)
	default:
		fmt.Printf("admin account created: %s (%s)\n", acc.Email, acc.ID)
	}

	fragment, err := store.LoadFragment(ctx)
	if err != nil {
		log.Fatalf("load config fragment: %v", err)
	}
	if len(fragment) == 0 {
		fragment = map[string]any{
			"site": map[string]any{
				"title": *title,
			},
			"menu": []any{
				map[string]any{"label": "Anasayfa", "url": "/", "order": 1},
				map[string]any{"label": "Duyurular", "url": "/duyurular", "order": 2},
				map[string]any{"label": "Etkinlikler", "url": "/etkinlikler", "order": 3},
				map[string]any{"label": "İletişim", "url": "/iletisim", "order": 4},
			},
		}
		if err := store.SaveFragment(ctx, fragment); err != nil {
			log.Fatalf("save config fragment: %v", err)
		}
		fmt.Println("starter configuration written")
	} else {
		fmt.Println("configuration fragment already present, skipping")
	}
}
