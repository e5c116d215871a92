package seed

import (
	"context"
	"fmt"
	"strings"

	"studysmarter/internal/models"
	"studysmarter/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FakePassword is the password of every user created by Factory.
const FakePassword = "password123"

// Options control the size of a fake dataset.
type Options struct {
	Users           int
	RoomsPerUser    int
	PostsPerUser    int
	CommentsPerPost int
}

// Summary counts the rows created by Factory.Dataset.
type Summary struct {
	Users    int
	Rooms    int
	Posts    int
	Comments int
	Media    int
}

// Factory builds domain entities with gofakeit and persists them through the
// repositories.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	cost  int
}

// NewFactory creates a new Factory bound to the provided Gorm DB. A non-zero
// seed makes the generated content reproducible.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	return &Factory{db: db, faker: gofakeit.New(seed), cost: bcrypt.DefaultCost}
}

// BuildUser returns an unsaved user with a unique-looking email.
func (f *Factory) BuildUser(hash string) *models.User {
	username := f.faker.Username()
	return &models.User{
		Username: username,
		Email:    strings.ToLower(fmt.Sprintf("%s.%d@%s", username, f.faker.Number(1000, 9999), f.faker.DomainName())),
		Password: hash,
	}
}

// BuildStudyRoom returns an unsaved room owned by creatorID.
func (f *Factory) BuildStudyRoom(creatorID uint) *models.StudyRoom {
	desc := f.faker.Sentence(8)
	return &models.StudyRoom{
		Name:        f.faker.AppName() + " Study Group",
		Description: &desc,
		Capacity:    f.faker.Number(2, 30),
		CreatorID:   creatorID,
	}
}

// BuildPost returns an unsaved post; roomID may be nil.
func (f *Factory) BuildPost(creatorID uint, roomID *uint) *models.Post {
	return &models.Post{
		Content:   f.faker.Paragraph(1, 3, 8, " "),
		CreatorID: creatorID,
		RoomID:    roomID,
	}
}

func (f *Factory) BuildComment(postID, creatorID uint) *models.Comment {
	return &models.Comment{
		PostID:    postID,
		CreatorID: creatorID,
		Content:   f.faker.Sentence(10),
	}
}

// BuildMedia returns an unsaved media record with a type from
// models.AllowedMediaTypes and a matching file extension.
func (f *Factory) BuildMedia(postID *uint) *models.Media {
	mediaType := models.AllowedMediaTypes[f.faker.Number(0, len(models.AllowedMediaTypes)-1)]
	ext := map[models.MediaType]string{
		models.MediaTypeImage: "png",
		models.MediaTypeVideo: "mp4",
		models.MediaTypeAudio: "mp3",
	}[mediaType]
	return &models.Media{
		Type:     mediaType,
		FilePath: fmt.Sprintf("uploads/%s/%s.%s", mediaType, f.faker.UUID(), ext),
		PostID:   postID,
	}
}

// Dataset creates opts.Users users, each with rooms, posts, comments by
// random other users, and one media item per post, in a single transaction.
func (f *Factory) Dataset(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	if opts.Users <= 0 {
		return sum, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(FakePassword), f.cost)
	if err != nil {
		return sum, fmt.Errorf("hash fake password: %w", err)
	}

	users := repository.NewUserRepository(f.db)
	rooms := repository.NewStudyRoomRepository(f.db)
	posts := repository.NewPostRepository(f.db)
	comments := repository.NewCommentRepository(f.db)
	media := repository.NewMediaRepository(f.db)

	err = repository.NewTransactor(f.db).Transaction(ctx, func(ctx context.Context) error {
		created := make([]*models.User, 0, opts.Users)
		for i := 0; i < opts.Users; i++ {
			u := f.BuildUser(string(hash))
			if err := users.Create(ctx, u); err != nil {
				return fmt.Errorf("user %d: %w", i, err)
			}
			created = append(created, u)
		}
		sum.Users = len(created)

		for _, u := range created {
			var roomIDs []uint
			for i := 0; i < opts.RoomsPerUser; i++ {
				r := f.BuildStudyRoom(u.ID)
				if err := rooms.Create(ctx, r); err != nil {
					return err
				}
				roomIDs = append(roomIDs, r.ID)
				sum.Rooms++
			}

			for i := 0; i < opts.PostsPerUser; i++ {
				var roomID *uint
				if len(roomIDs) > 0 && f.faker.Bool() {
					id := roomIDs[f.faker.Number(0, len(roomIDs)-1)]
					roomID = &id
				}
				p := f.BuildPost(u.ID, roomID)
				if err := posts.Create(ctx, p); err != nil {
					return err
				}
				sum.Posts++

				postID := p.ID
				if err := media.Create(ctx, f.BuildMedia(&postID)); err != nil {
					return err
				}
				sum.Media++

				for j := 0; j < opts.CommentsPerPost; j++ {
					author := created[f.faker.Number(0, len(created)-1)]
					if err := comments.Create(ctx, f.BuildComment(p.ID, author.ID)); err != nil {
						return err
					}
					sum.Comments++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("seed fake dataset: %w", err)
	}
	return sum, nil
}
