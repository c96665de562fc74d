// Command seed fills a development database with fake users, posts, comments,
// reactions and friendships through the service layer, so every counter is
// maintained exactly as it is for API traffic.
package main

import (
	"context"
	"flag"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/cppla/codercomm/config"
	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/services"
	"github.com/cppla/codercomm/utils"
)

func main() {
	users := flag.Int("users", 20, "number of users to create")
	posts := flag.Int("posts", 5, "posts per user")
	comments := flag.Int("comments", 3, "comments per post")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	cfg := config.Load()
	if cfg.IsProduction() {
		panic("refusing to seed a production database")
	}
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	db, err := config.InitDatabase(models.All()...)
	if err != nil {
		utils.Sugar.Fatalf("database: %v", err)
	}

	s := &seeder{
		faker:     gofakeit.New(*seed),
		rnd:       rand.New(rand.NewSource(*seed)),
		users:     services.NewUserService(db),
		posts:     services.NewPostService(db),
		comments:  services.NewCommentService(db),
		reactions: services.NewReactionService(db),
		friends:   services.NewFriendService(db),
	}
	if err := s.run(context.Background(), *users, *posts, *comments); err != nil {
		utils.Sugar.Fatalf("seed: %v", err)
	}
	utils.Sugar.Infof("seeded %d users", *users)
}

type seeder struct {
	faker     *gofakeit.Faker
	rnd       *rand.Rand
	users     *services.UserService
	posts     *services.PostService
	comments  *services.CommentService
	reactions *services.ReactionService
	friends   *services.FriendService
}

func (s *seeder) run(ctx context.Context, nUsers, nPosts, nComments int) error {
	ids := make([]string, 0, nUsers)
	for i := 0; i < nUsers; i++ {
		u, err := s.users.Register(ctx, s.faker.Name(), s.faker.Email(), "password123")
		if err != nil {
			if models.IsKind(err, models.KindConflict) {
				continue
			}
			return err
		}
		city, country := s.faker.City(), s.faker.Country()
		about := s.faker.Sentence(12)
		if _, err := s.users.UpdateProfile(ctx, u.ID, services.ProfileUpdate{AboutMe: &about, City: &city, Country: &country}); err != nil {
			return err
		}
		ids = append(ids, u.ID)
	}

	// each user asks a few others; roughly two thirds are accepted
	for _, from := range ids {
		for _, to := range s.pick(ids, 3) {
			if to == from {
				continue
			}
			if _, err := s.friends.SendRequest(ctx, from, to); err != nil {
				if models.IsKind(err, models.KindConflict) {
					continue
				}
				return err
			}
			if s.rnd.Intn(3) > 0 {
				if _, err := s.friends.Respond(ctx, to, from, models.FriendAccepted); err != nil {
					return err
				}
			}
		}
	}

	emojis := []models.Emoji{models.EmojiLike, models.EmojiDislike}
	for _, author := range ids {
		for i := 0; i < nPosts; i++ {
			post, err := s.posts.Create(ctx, author, s.faker.Paragraph(1, 3, 12, " "), s.faker.URL())
			if err != nil {
				return err
			}
			for _, commenter := range s.pick(ids, nComments) {
				c, err := s.comments.Create(ctx, commenter, post.ID, s.faker.Sentence(10))
				if err != nil {
					return err
				}
				if _, err := s.reactions.Save(ctx, author, models.TargetComment, c.ID, emojis[s.rnd.Intn(2)]); err != nil {
					return err
				}
			}
			for _, reactor := range s.pick(ids, 4) {
				if _, err := s.reactions.Save(ctx, reactor, models.TargetPost, post.ID, emojis[s.rnd.Intn(2)]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *seeder) pick(ids []string, n int) []string {
	if n > len(ids) {
		n = len(ids)
	}
	out := make([]string, 0, n)
	for _, i := range s.rnd.Perm(len(ids))[:n] {
		out = append(out, ids[i])
	}
	return out
}
