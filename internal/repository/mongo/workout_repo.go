// internal/repository/mongo/workout_repo.go
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/repository"
)

const WorkoutCollectionName = "workouts"

// newestFirst orders by scheduled date, then id, both descending.
var newestFirst = bson.D{{Key: "scheduled_date", Value: -1}, {Key: "_id", Value: -1}}

// workoutDocument is the stored shape of a workout. Weights are Decimal128 so the
// database never sees a binary float.
type workoutDocument struct {
	ID              string               `bson:"_id"`
	ScheduledDate   string               `bson:"scheduled_date"`
	WodType         string               `bson:"wod_type"`
	Exercise1Weight primitive.Decimal128 `bson:"exercise1_weight"`
	Exercise2Weight primitive.Decimal128 `bson:"exercise2_weight"`
	Exercise3Weight primitive.Decimal128 `bson:"exercise3_weight"`
	IncreaseWeight1 bool                 `bson:"increase_weight1"`
	IncreaseWeight2 bool                 `bson:"increase_weight2"`
	IncreaseWeight3 bool                 `bson:"increase_weight3"`
	Completed       bool                 `bson:"completed"`
	CompletedAt     *time.Time           `bson:"completed_at,omitempty"`
}

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(WorkoutCollectionName),
	}
}

func (r *mongoWorkoutRepository) FindByDate(ctx context.Context, date domain.Date) (*domain.Workout, error) {
	opts := options.FindOne().SetSort(newestFirst)
	return r.findOne(ctx, bson.M{"scheduled_date": date.String()}, opts)
}

func (r *mongoWorkoutRepository) FindLatestByType(ctx context.Context, wodType domain.WodType) (*domain.Workout, error) {
	opts := options.FindOne().SetSort(newestFirst)
	return r.findOne(ctx, bson.M{"wod_type": string(wodType)}, opts)
}

func (r *mongoWorkoutRepository) FindCompletedByType(ctx context.Context, wodType domain.WodType) ([]domain.Workout, error) {
	filter := bson.M{"wod_type": string(wodType), "completed": true}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

// Insert stores a new workout. The unique scheduled_date index turns a lost
// check-then-insert race into ErrDuplicateDate.
func (r *mongoWorkoutRepository) Insert(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == "" || workout.ScheduledDate == "" || !workout.WodType.IsValid() {
		return errors.New("workout requires id, scheduled date and a valid type")
	}
	doc, err := toDocument(workout)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateDate
		}
		return err
	}
	return nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// UpdateFields sets only the fields present in patch and returns the updated workout.
func (r *mongoWorkoutRepository) UpdateFields(ctx context.Context, id string, patch domain.WorkoutPatch) (*domain.Workout, error) {
	set, err := setDocument(patch)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc workoutDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return fromDocument(doc)
}

func (r *mongoWorkoutRepository) ListAll(ctx context.Context) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

func (r *mongoWorkoutRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Workout, error) {
	var doc workoutDocument
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return fromDocument(doc)
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []workoutDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	// Return empty slice if no workouts found
	workouts := make([]domain.Workout, 0, len(docs))
	for _, doc := range docs {
		w, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// latest workout of a type
			Keys:    bson.D{{Key: "wod_type", Value: 1}, {Key: "scheduled_date", Value: -1}},
			Options: options.Index().SetName("wod_type_index"),
		},
		{
			// one workout per day
			Keys:    bson.D{{Key: "scheduled_date", Value: 1}},
			Options: options.Index().SetName("workout_date_index").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "wod_type", Value: 1}, {Key: "completed", Value: 1}},
			Options: options.Index().SetName("wod_type_completed_index"),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for collection %s: %w", collection.Name(), err)
	}
	return nil
}

func toDocument(w *domain.Workout) (workoutDocument, error) {
	var weights [domain.ExerciseSlots]primitive.Decimal128
	for i, weight := range w.Weights {
		d, err := toDecimal128(weight)
		if err != nil {
			return workoutDocument{}, fmt.Errorf("%s: %w", domain.WeightFieldName(i), err)
		}
		weights[i] = d
	}
	return workoutDocument{
		ID:              w.ID,
		ScheduledDate:   w.ScheduledDate.String(),
		WodType:         string(w.WodType),
		Exercise1Weight: weights[0],
		Exercise2Weight: weights[1],
		Exercise3Weight: weights[2],
		IncreaseWeight1: w.IncreaseWeight[0],
		IncreaseWeight2: w.IncreaseWeight[1],
		IncreaseWeight3: w.IncreaseWeight[2],
		Completed:       w.Completed,
		CompletedAt:     w.CompletedAt,
	}, nil
}

func fromDocument(doc workoutDocument) (*domain.Workout, error) {
	w := &domain.Workout{
		ID:             doc.ID,
		ScheduledDate:  domain.Date(doc.ScheduledDate),
		WodType:        domain.WodType(doc.WodType),
		IncreaseWeight: [domain.ExerciseSlots]bool{doc.IncreaseWeight1, doc.IncreaseWeight2, doc.IncreaseWeight3},
		Completed:      doc.Completed,
		CompletedAt:    doc.CompletedAt,
	}
	for i, raw := range []primitive.Decimal128{doc.Exercise1Weight, doc.Exercise2Weight, doc.Exercise3Weight} {
		d, err := fromDecimal128(raw)
		if err != nil {
			return nil, fmt.Errorf("workout %s %s: %w", doc.ID, domain.WeightFieldName(i), err)
		}
		w.Weights[i] = d
	}
	return w, nil
}

// setDocument builds the $set body for the fields present in patch.
func setDocument(patch domain.WorkoutPatch) (bson.M, error) {
	set := bson.M{}
	for i := 0; i < domain.ExerciseSlots; i++ {
		if patch.Weights[i] != nil {
			d, err := toDecimal128(*patch.Weights[i])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", domain.WeightFieldName(i), err)
			}
			set[domain.WeightFieldName(i)] = d
		}
		if patch.IncreaseWeight[i] != nil {
			set[domain.IncreaseFieldName(i)] = *patch.IncreaseWeight[i]
		}
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.CompletedAt != nil {
		set["completed_at"] = *patch.CompletedAt
	}
	return set, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

// fromDecimal128 treats a missing weight (zero value Decimal128) as 0.
func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	if d == (primitive.Decimal128{}) {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(d.String())
}
