package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staffclock/attendance-service/internal/domain"
)

type profileDocument struct {
	ID                string     `bson:"_id"`
	Email             string     `bson:"email"`
	DisplayName       string     `bson:"displayName"`
	EmployeeID        string     `bson:"employeeId"`
	Position          string     `bson:"position"`
	Role              string     `bson:"role"`
	AccountEnabled    bool       `bson:"accountEnabled"`
	IsCheckedIn       bool       `bson:"isCheckedIn"`
	NotificationToken *string    `bson:"notificationToken,omitempty"`
	LastSeen          *time.Time `bson:"lastSeen"`
	CreatedAt         time.Time  `bson:"createdAt"`
}

type mongoProfileRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoProfileRepository returns a profile store backed by a MongoDB collection.
func NewMongoProfileRepository(db *mongo.Database, collection string) ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(collection),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *mongoProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var doc profileDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// SetByID replaces the document. createdAt is only written on insert.
func (r *mongoProfileRepository) SetByID(ctx context.Context, id string, profile *domain.Profile) error {
	doc := newProfileDocument(id, profile)
	fields := bson.M{
		"email":             doc.Email,
		"displayName":       doc.DisplayName,
		"employeeId":        doc.EmployeeID,
		"position":          doc.Position,
		"role":              doc.Role,
		"accountEnabled":    doc.AccountEnabled,
		"isCheckedIn":       doc.IsCheckedIn,
		"notificationToken": doc.NotificationToken,
		"lastSeen":          doc.LastSeen,
	}
	createdAt := r.now()
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"createdAt": createdAt},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	profile.ID = id
	if res.UpsertedCount > 0 {
		profile.CreatedAt = createdAt
	}
	return nil
}

func (r *mongoProfileRepository) List(ctx context.Context, filter ProfileFilter) ([]domain.Profile, error) {
	query := bson.M{}
	if filter.IsCheckedIn != nil {
		query["isCheckedIn"] = *filter.IsCheckedIn
	}
	if filter.Role != nil {
		query["role"] = string(*filter.Role)
	}
	if filter.AccountEnabled != nil {
		query["accountEnabled"] = *filter.AccountEnabled
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []profileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]domain.Profile, 0, len(docs))
	for _, doc := range docs {
		result = append(result, *doc.toDomain())
	}
	return result, nil
}

func newProfileDocument(id string, p *domain.Profile) profileDocument {
	return profileDocument{
		ID:                id,
		Email:             p.Email,
		DisplayName:       p.DisplayName,
		EmployeeID:        p.EmployeeID,
		Position:          p.Position,
		Role:              string(p.Role),
		AccountEnabled:    p.AccountEnabled,
		IsCheckedIn:       p.IsCheckedIn,
		NotificationToken: p.NotificationToken,
		LastSeen:          p.LastSeen,
		CreatedAt:         p.CreatedAt,
	}
}

func (d profileDocument) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:                d.ID,
		Email:             d.Email,
		DisplayName:       d.DisplayName,
		EmployeeID:        d.EmployeeID,
		Position:          d.Position,
		Role:              domain.Role(d.Role),
		AccountEnabled:    d.AccountEnabled,
		IsCheckedIn:       d.IsCheckedIn,
		NotificationToken: d.NotificationToken,
		LastSeen:          d.LastSeen,
		CreatedAt:         d.CreatedAt,
	}
}
