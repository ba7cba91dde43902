// Command seed fills the configured database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"inkwell/internal/bootstrap"
	"inkwell/internal/config"
	"inkwell/internal/seed"
)

func main() {
	opts := seed.DefaultOptions
	flag.IntVar(&opts.Users, "users", opts.Users, "Number of users to create")
	flag.IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "Posts per user")
	flag.IntVar(&opts.CommentsPerPost, "comments", opts.CommentsPerPost, "Comments per post")
	flag.IntVar(&opts.RepliesPerPost, "replies", opts.RepliesPerPost, "Replies per comment")
	flag.IntVar(&opts.LikesPerPost, "likes", opts.LikesPerPost, "Likes per post")
	flag.IntVar(&opts.FollowsPerUser, "follows", opts.FollowsPerUser, "Users each user follows")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	rngSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Close()

	s := seed.NewSeeder(rt.DB, rt.Cache, *rngSeed)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx, opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d comments, %d likes, %d follows",
		res.Users, res.Posts, res.Comments, res.Likes, res.Follows)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
