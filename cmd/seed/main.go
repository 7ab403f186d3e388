package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"vidtube/internal/auth"
	"vidtube/internal/config"
	"vidtube/internal/db"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

const seedPassword = "password123"

type seedChannel struct {
	Username string
	Email    string
	FullName string
	Videos   []model.Video
}

var seedChannels = []seedChannel{
	{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Doe",
		Videos: []model.Video{
			{Title: "Getting started", Description: "First upload", Duration: 312},
			{Title: "Studio tour", Description: "Behind the scenes", Duration: 785},
		},
	},
	{
		Username: "bob",
		Email:    "bob@example.com",
		FullName: "Bob Stone",
		Videos: []model.Video{
			{Title: "Cooking pasta", Description: "A weeknight classic", Duration: 601},
		},
	},
	{
		Username: "carol",
		Email:    "carol@example.com",
		FullName: "Carol Reyes",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Subscription{},
		&model.Video{},
		&model.WatchHistory{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	subRepo := repository.NewSubscriptionRepository(gormDB)
	videoRepo := repository.NewVideoRepository(gormDB)

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	ids := make(map[string]uuid.UUID, len(seedChannels))
	for _, ch := range seedChannels {
		existing, err := userRepo.FindByUsername(ctx, ch.Username)
		if err == nil {
			log.Printf("Channel %q already exists, skipping", ch.Username)
			ids[ch.Username] = existing.ID
			continue
		}

		user := &model.User{
			ID:           uuid.New(),
			Username:     ch.Username,
			Email:        ch.Email,
			FullName:     ch.FullName,
			PasswordHash: hash,
			Avatar:       fmt.Sprintf("%s/%s/avatar/seed/%s.png", cfg.S3PublicBaseURL, cfg.S3Bucket, ch.Username),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create channel %q: %v", ch.Username, err)
		}
		ids[ch.Username] = user.ID

		for _, v := range ch.Videos {
			video := v
			video.ID = uuid.New()
			video.OwnerID = user.ID
			video.VideoFile = fmt.Sprintf("%s/%s/video/seed/%s.mp4", cfg.S3PublicBaseURL, cfg.S3Bucket, video.ID)
			video.Thumbnail = fmt.Sprintf("%s/%s/thumbnail/seed/%s.png", cfg.S3PublicBaseURL, cfg.S3Bucket, video.ID)
			video.IsPublished = true
			if err := videoRepo.Create(ctx, &video); err != nil {
				log.Fatalf("Failed to create video %q: %v", video.Title, err)
			}
		}
		log.Printf("Seeded channel %q with %d videos", ch.Username, len(ch.Videos))
	}

	// Everyone subscribes to alice; alice subscribes to bob.
	pairs := [][2]string{{"bob", "alice"}, {"carol", "alice"}, {"alice", "bob"}}
	for _, p := range pairs {
		if _, err := subRepo.Find(ctx, ids[p[0]], ids[p[1]]); err == nil {
			continue
		}
		sub := &model.Subscription{SubscriberID: ids[p[0]], ChannelID: ids[p[1]]}
		if err := subRepo.Create(ctx, sub); err != nil {
			log.Fatalf("Failed to subscribe %s to %s: %v", p[0], p[1], err)
		}
	}

	log.Printf("Seed completed: %d channels (password %q)", len(seedChannels), seedPassword)
}
