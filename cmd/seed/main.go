// Command seed loads a small deterministic dataset for local development:
// three users, one accepted and one pending friendship, a few items, a
// feed post with a like and a comment, and a published goal.
package main

import (
	"log"

	"cartshare/backend/internal/config"
	"cartshare/backend/internal/database"
	"cartshare/backend/internal/friendship"
	"cartshare/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadConfig()
	database.Connect(config.AppConfig.DBDriver, config.AppConfig.DatabaseURL)
	db := database.DB

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	users := []models.User{
		{Name: "Alice", Email: "alice@example.com", PasswordHash: string(hash)},
		{Name: "Bob", Email: "bob@example.com", PasswordHash: string(hash)},
		{Name: "Carol", Email: "carol@example.com", PasswordHash: string(hash)},
	}
	for i := range users {
		if err := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			log.Fatalf("failed to seed user %s: %v", users[i].Email, err)
		}
	}
	alice, bob, carol := users[0], users[1], users[2]

	// Alice and Bob are friends; Carol has an open invite to Alice.
	a, b := friendship.CanonicalPair(alice.ID, bob.ID)
	db.Where("user_a_id = ? AND user_b_id = ?", a, b).FirstOrCreate(&models.Friendship{
		UserAID: a, UserBID: b, Status: models.StatusAccepted, RequestedBy: alice.ID,
	})
	a, b = friendship.CanonicalPair(carol.ID, alice.ID)
	db.Where("user_a_id = ? AND user_b_id = ?", a, b).FirstOrCreate(&models.Friendship{
		UserAID: a, UserBID: b, Status: models.StatusPending, RequestedBy: carol.ID,
	})

	items := []models.Item{
		{UserID: alice.ID, Name: "Oat milk", Quantity: 2},
		{UserID: alice.ID, Name: "Coffee beans", Quantity: 1, Checked: true},
		{UserID: bob.ID, Name: "Pasta", Quantity: 3},
	}
	for i := range items {
		db.Where("user_id = ? AND name = ?", items[i].UserID, items[i].Name).FirstOrCreate(&items[i])
	}

	post := models.Post{UserID: alice.ID, Content: "Meal prep Sunday — list is done!"}
	db.Where("user_id = ? AND content = ?", post.UserID, post.Content).FirstOrCreate(&post)
	db.FirstOrCreate(&models.Like{PostID: post.ID, UserID: bob.ID})
	comment := models.Comment{PostID: post.ID, UserID: bob.ID, Content: "Save me some!"}
	db.Where("post_id = ? AND user_id = ?", post.ID, bob.ID).FirstOrCreate(&comment)

	goal := models.Goal{UserID: alice.ID, Title: "Cook at home 5x a week", Public: true}
	db.Where("user_id = ? AND title = ?", goal.UserID, goal.Title).FirstOrCreate(&goal)

	log.Println("Seed data loaded.")
}
