// Package seed provides database seeding for the built-in accounts and for
// development demo data. Demo helpers are intended for development and
// testing only.
package seed

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"abusebin/internal/authz"
	"abusebin/internal/models"
	"abusebin/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// builtinAdmins are the permanent staff accounts. The first entry is the
// founder; every new registration auto-follows it.
var builtinAdmins = []struct {
	UID      uint
	Username string
}{
	{1, "wounds"},
	{2, "dismayings"},
	{3, "ic3"},
	{4, "kaan"},
}

const welcomeTitle = "Welcome to abuse.bin"

// SuperAdmins ensures the built-in super admin accounts and the pinned
// welcome paste exist. Safe to run on every startup.
func SuperAdmins(db *gorm.DB, password string) error {
	if password == "" {
		return errors.New("seed: super admin password must be set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash admin password: %w", err)
	}

	var founder models.User
	for _, a := range builtinAdmins {
		user := models.User{
			UID:        a.UID,
			Username:   a.Username,
			Email:      a.Username + "@abuse.bin",
			Password:   string(hash),
			Role:       authz.RoleAdmin,
			SuperAdmin: true,
		}
		if err := db.Where("uid = ?", a.UID).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("seed: ensure admin %q: %w", a.Username, err)
		}
		if a.UID == 1 {
			founder = user
		}
	}

	welcome := models.Paste{
		ID:       service.Slugify(welcomeTitle),
		Title:    welcomeTitle,
		Content:  "Rules: don't get caught.\n\nPost your finest work and it may end up in the hall of fame.",
		AuthorID: founder.ID,
		Pinned:   true,
	}
	if err := db.Where("id = ?", welcome.ID).FirstOrCreate(&welcome).Error; err != nil {
		return fmt.Errorf("seed: ensure welcome paste: %w", err)
	}
	return nil
}

// Demo populates the database with fake users, pastes, comments, reactions
// and follow edges.
func Demo(db *gorm.DB, numUsers, numPastes int) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	if err != nil {
		return err
	}

	var maxUID uint
	row := db.Model(&models.User{}).Select("COALESCE(MAX(uid), 0)").Row()
	if err := row.Scan(&maxUID); err != nil {
		return fmt.Errorf("seed: next uid: %w", err)
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		maxUID++
		user := &models.User{
			UID:       maxUID,
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:     gofakeit.Email(),
			Password:  string(hash),
			Bio:       gofakeit.Sentence(10),
			Role:      authz.RoleUser,
			NameColor: authz.BasicNameColors[r.Intn(len(authz.BasicNameColors))],
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seed: create user: %w", err)
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil
	}

	pastes := make([]*models.Paste, 0, numPastes)
	for i := 0; i < numPastes; i++ {
		author := users[r.Intn(len(users))]
		title := fmt.Sprintf("%s %d", gofakeit.HipsterSentence(4), i)
		paste := &models.Paste{
			ID:        service.Slugify(title),
			Title:     title,
			Content:   gofakeit.Paragraph(2, 4, 8, "\n"),
			AuthorID:  author.ID,
			Views:     r.Intn(500),
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if err := db.Create(paste).Error; err != nil {
			return fmt.Errorf("seed: create paste: %w", err)
		}
		pastes = append(pastes, paste)
	}

	for _, paste := range pastes {
		for i, n := 0, r.Intn(5); i < n; i++ {
			comment := &models.Comment{
				PasteID:  paste.ID,
				AuthorID: users[r.Intn(len(users))].ID,
				Content:  gofakeit.HipsterSentence(8),
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("seed: create comment: %w", err)
			}
		}
		// One reaction per user and paste at most, matching the composite key.
		for i, n := 0, r.Intn(len(users)); i < n; i++ {
			kind := models.ReactionLike
			if r.Intn(4) == 0 {
				kind = models.ReactionDislike
			}
			reaction := &models.PasteReaction{
				PasteID: paste.ID,
				UserID:  users[i].ID,
				Type:    kind,
			}
			if err := db.Create(reaction).Error; err != nil {
				return fmt.Errorf("seed: create reaction: %w", err)
			}
		}
	}

	follows := 0
	for _, follower := range users {
		for i, n := 0, r.Intn(4); i < n; i++ {
			target := users[r.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			err := db.Create(&models.Follow{FollowerID: follower.ID, FollowingID: target.ID}).Error
			if err != nil {
				// Duplicate edges are expected with random pairing.
				continue
			}
			follows++
		}
	}

	log.Printf("seeded %d users, %d pastes, %d follow edges", len(users), len(pastes), follows)
	return nil
}
