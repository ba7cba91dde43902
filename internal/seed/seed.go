// Package seed fills a database with demo users, posts, comments, likes and
// follows. It is meant for development and tests only.
package seed

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Options sizes a seeding run.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	RepliesPerPost  int
	LikesPerPost    int
	FollowsPerUser  int
}

// DefaultOptions is a small but fully connected graph.
var DefaultOptions = Options{
	Users:           20,
	PostsPerUser:    3,
	CommentsPerPost: 2,
	RepliesPerPost:  1,
	LikesPerPost:    3,
	FollowsPerUser:  4,
}

// Result counts what a run created.
type Result struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
	Follows  int
}

// Seeder creates entities through the services so referential arrays and
// cache invalidation behave exactly as they do for API traffic.
type Seeder struct {
	db        *gorm.DB
	users     repository.UserRepository
	posts     *service.PostService
	comments  *service.CommentService
	likes     *service.LikeService
	following *service.FollowingService
	faker     *gofakeit.Faker
}

// NewSeeder binds a Seeder to db. c may be nil.
func NewSeeder(db *gorm.DB, c *cache.Aside, seed int64) *Seeder {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	return &Seeder{
		db:        db,
		users:     userRepo,
		posts:     service.NewPostService(postRepo, userRepo, c),
		comments:  service.NewCommentService(commentRepo, postRepo, c),
		likes:     service.NewLikeService(repository.NewLikeRepository(db), postRepo, commentRepo, c),
		following: service.NewFollowingService(repository.NewFollowingRepository(db), userRepo, c),
		faker:     gofakeit.New(seed),
	}
}

// ClearAll deletes every row of every table.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Like{}, &models.Following{}, &models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
}

// Run seeds a full graph sized by opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	users, err := s.SeedUsers(ctx, opts.Users)
	if err != nil {
		return nil, err
	}
	res := &Result{Users: len(users)}

	if err := s.seedFollows(ctx, users, opts.FollowsPerUser, res); err != nil {
		return nil, err
	}
	if err := s.seedPosts(ctx, users, opts, res); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "seed completed",
		"users", res.Users, "posts", res.Posts, "comments", res.Comments,
		"likes", res.Likes, "follows", res.Follows)
	return res, nil
}

// SeedUsers creates n users sharing DefaultPassword.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, n)
	taken := make(map[string]bool, n)
	for len(users) < n {
		username := s.username()
		if taken[strings.ToLower(username)] {
			continue
		}
		taken[strings.ToLower(username)] = true

		u := &models.User{
			Username: username,
			Email:    strings.ToLower(username) + "@" + s.faker.DomainName(),
			Password: string(hash),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create user %s: %w", username, err)
		}
		users = append(users, u)
	}
	return users, nil
}

// username returns a name matching the registration rules: a letter first,
// then letters or digits, 4 to 20 characters.
func (s *Seeder) username() string {
	base := nonAlnum.ReplaceAllString(s.faker.FirstName(), "")
	if len(base) > 12 {
		base = base[:12]
	}
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s%d", base, s.faker.Number(100, 99999))
}

func (s *Seeder) seedFollows(ctx context.Context, users []*models.User, perUser int, res *Result) error {
	if len(users) < 2 {
		return nil
	}
	for i, u := range users {
		for k := 1; k <= perUser && k < len(users); k++ {
			target := users[(i+k)%len(users)]
			if _, err := s.following.Follow(ctx, service.FollowInput{Actor: u, FollowingID: target.ID}); err != nil {
				return fmt.Errorf("follow: %w", err)
			}
			res.Follows++
		}
	}
	return nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []*models.User, opts Options, res *Result) error {
	for _, author := range users {
		for p := 0; p < opts.PostsPerUser; p++ {
			post, err := s.posts.CreatePost(ctx, service.CreatePostInput{
				Author: author,
				Text:   s.faker.Paragraph(1, 3, 12, " "),
				Image:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", s.faker.UUID()),
			})
			if err != nil {
				return fmt.Errorf("create post: %w", err)
			}
			res.Posts++

			for c := 0; c < opts.CommentsPerPost; c++ {
				commenter := users[s.faker.Number(0, len(users)-1)]
				comment, err := s.comments.CreateComment(ctx, service.CreateCommentInput{
					Author:   commenter,
					ParentID: post.ID,
					Kind:     models.TargetPost,
					Text:     s.faker.Sentence(8),
				})
				if err != nil {
					return fmt.Errorf("create comment: %w", err)
				}
				res.Comments++

				for r := 0; r < opts.RepliesPerPost; r++ {
					if _, err := s.comments.CreateComment(ctx, service.CreateCommentInput{
						Author:   author,
						ParentID: comment.ID,
						Kind:     models.TargetComment,
						Text:     s.faker.Sentence(6),
					}); err != nil {
						return fmt.Errorf("create reply: %w", err)
					}
					res.Comments++
				}
			}

			// Distinct likers so the duplicate guard never trips.
			for _, liker := range s.pick(users, opts.LikesPerPost) {
				if _, err := s.likes.CreateLike(ctx, service.CreateLikeInput{
					Author:   liker,
					TargetID: post.ID,
					Kind:     models.TargetPost,
				}); err != nil {
					return fmt.Errorf("create like: %w", err)
				}
				res.Likes++
			}
		}
	}
	return nil
}

// pick returns up to n distinct users in random order.
func (s *Seeder) pick(users []*models.User, n int) []*models.User {
	shuffled := make([]*models.User, len(users))
	copy(shuffled, users)
	s.faker.ShuffleAnySlice(shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
