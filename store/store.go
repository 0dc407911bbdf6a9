package store

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"codecritical/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: record not found")

// ValidationError reports per-field problems with a record before any
// write is attempted. No row is persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, message := range e.Fields {
		parts = append(parts, field+": "+message)
	}
	return "store: invalid record (" + strings.Join(parts, "; ") + ")"
}

// Store performs all database access for posts, contact messages and
// reviews. Every method is a single gorm statement; there are no
// multi-statement transactions.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreatePost persists a new post, stamping DatePosted when unset. The
// generated id is written back into the record.
func (s *Store) CreatePost(post *models.Post) error {
	fields := map[string]string{}
	if post.Title == "" {
		fields["title"] = "This field is required"
	}
	if post.Author == "" {
		fields["author"] = "This field is required"
	}
	if post.Content == "" {
		fields["content"] = "This field is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if post.DatePosted.IsZero() {
		post.DatePosted = time.Now().UTC()
	}
	return s.db.Create(post).Error
}

func (s *Store) GetPost(id int) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPosts returns every post, newest first.
func (s *Store) ListPosts() ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Order("date_posted DESC").Find(&posts).Error
	return posts, err
}

// PostUpdate holds the mutable post fields. Nil pointers leave the
// stored value untouched; author and date_posted are never updated.
type PostUpdate struct {
	Title    *string
	Subtitle *string
	Content  *string
}

// UpdatePost applies a partial update and returns the updated post.
func (s *Store) UpdatePost(id int, update PostUpdate) (*models.Post, error) {
	changes := map[string]interface{}{}
	if update.Title != nil {
		if *update.Title == "" {
			return nil, &ValidationError{Fields: map[string]string{"title": "This field is required"}}
		}
		changes["title"] = *update.Title
	}
	if update.Subtitle != nil {
		changes["subtitle"] = *update.Subtitle
	}
	if update.Content != nil {
		if *update.Content == "" {
			return nil, &ValidationError{Fields: map[string]string{"content": "This field is required"}}
		}
		changes["content"] = *update.Content
	}

	if len(changes) > 0 {
		result := s.db.Model(&models.Post{}).Where("id = ?", id).Updates(changes)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return s.GetPost(id)
}

func (s *Store) DeletePost(id int) error {
	result := s.db.Delete(&models.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureSamplePost returns the oldest post, creating the seed post
// first when the table is empty. Safe to call on every request.
func (s *Store) EnsureSamplePost() (*models.Post, error) {
	var post models.Post
	err := s.db.Order("id").First(&post).Error
	if err == nil {
		return &post, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	post = models.Post{
		Title:    "Sample Post",
		Subtitle: "Welcome to CodeCritical!",
		Author:   "Admin",
		Content:  "This is your first sample post. Add more posts using the 'New Post' page!",
	}
	if err := s.CreatePost(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateContactMessage persists a contact form submission, stamping
// DateSent when unset. Messages are never mutated or deleted.
func (s *Store) CreateContactMessage(msg *models.ContactMessage) error {
	fields := map[string]string{}
	if msg.Name == "" {
		fields["name"] = "This field is required"
	}
	if msg.Email == "" {
		fields["email"] = "This field is required"
	}
	if msg.Subject == "" {
		fields["subject"] = "This field is required"
	}
	if msg.Message == "" {
		fields["message"] = "This field is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if msg.DateSent.IsZero() {
		msg.DateSent = time.Now().UTC()
	}
	return s.db.Create(msg).Error
}

// ListContactMessages returns every contact message, newest first.
func (s *Store) ListContactMessages() ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	err := s.db.Order("date_sent DESC").Find(&msgs).Error
	return msgs, err
}

// CreateReview persists a review after checking the rating bounds. The
// game id is an external catalog identifier and is not checked against
// anything.
func (s *Store) CreateReview(review *models.Review) error {
	fields := map[string]string{}
	if review.GameID == 0 {
		fields["game_id"] = "This field is required"
	}
	if review.UserName == "" {
		fields["user_name"] = "This field is required"
	}
	if review.Rating < 1 || review.Rating > 10 {
		fields["rating"] = "Rating must be between 1 and 10"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if review.DatePosted.IsZero() {
		review.DatePosted = time.Now().UTC()
	}
	return s.db.Create(review).Error
}

// ReviewedGameIDs returns the distinct game ids that have at least one
// review, ascending.
func (s *Store) ReviewedGameIDs() ([]int, error) {
	var ids []int
	err := s.db.Model(&models.Review{}).Distinct("game_id").Order("game_id").Pluck("game_id", &ids).Error
	return ids, err
}

// ListReviews returns the reviews for one game, newest first.
func (s *Store) ListReviews(gameID int) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("game_id = ?", gameID).Order("date_posted DESC").Find(&reviews).Error
	return reviews, err
}
