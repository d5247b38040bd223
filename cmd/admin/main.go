// Command admin manages catalog curation rights from the shell.
// Admins are the only accounts allowed to create, edit, and delete books.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"bookden/internal/config"
	"bookden/internal/database"
	"bookden/internal/models"

	"gorm.io/gorm"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  admin grant <user id or username>    give an account catalog rights")
	fmt.Fprintln(os.Stderr, "  admin revoke <user id or username>   take catalog rights away")
	fmt.Fprintln(os.Stderr, "  admin list                            show every admin account")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{})
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}

	switch os.Args[1] {
	case "grant":
		if len(os.Args) < 3 {
			usage()
		}
		setAdmin(db, os.Args[2], true)
	case "revoke":
		if len(os.Args) < 3 {
			usage()
		}
		setAdmin(db, os.Args[2], false)
	case "list":
		listAdmins(db)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
	}
}

// findUser accepts either a numeric ID or a username.
func findUser(db *gorm.DB, ref string) (*models.User, error) {
	var user models.User
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return &user, db.First(&user, uint(id)).Error
	}
	return &user, db.Where("username = ?", ref).First(&user).Error
}

func setAdmin(db *gorm.DB, ref string, admin bool) {
	user, err := findUser(db, ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fmt.Fprintf(os.Stderr, "no account matches %q\n", ref)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("look up user: %v", err)
	}

	if user.IsAdmin == admin {
		if admin {
			fmt.Printf("%s (id %d) already has catalog rights\n", user.Username, user.ID)
		} else {
			fmt.Printf("%s (id %d) has no catalog rights to revoke\n", user.Username, user.ID)
		}
		return
	}

	user.IsAdmin = admin
	if err := db.Save(user).Error; err != nil {
		log.Fatalf("update user: %v", err)
	}

	if admin {
		fmt.Printf("%s (id %d) can now manage the catalog\n", user.Username, user.ID)
	} else {
		fmt.Printf("%s (id %d) is back to a regular reader account\n", user.Username, user.ID)
	}
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Order("id").Find(&admins).Error; err != nil {
		log.Fatalf("list admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("no admin accounts yet; grant one with: admin grant <username>")
		return
	}

	for _, a := range admins {
		fmt.Printf("%d\t%s\t%s\n", a.ID, a.Username, a.Email)
	}
}
