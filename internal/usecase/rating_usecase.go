package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gig-market/internal/domain/notification"
	"gig-market/internal/domain/rating"
	"gig-market/internal/repository"
)

type RatingInput struct {
	SubjectID int64
	JobID     *int64
	Value     int
	Feedback  string
}

type RatingUsecase interface {
	Create(ctx context.Context, a Actor, in RatingInput) (rating.Rating, error)
	Get(ctx context.Context, id int64) (rating.Rating, error)
	List(ctx context.Context, f rating.Filter) ([]rating.Rating, error)
	Update(ctx context.Context, a Actor, id int64, upd rating.Update) (rating.Rating, error)
	Delete(ctx context.Context, a Actor, id int64) error
	Badge(ctx context.Context, profileID int64) (rating.Badge, error)
}

type Rating struct {
	store     repository.Store
	sentiment TextClassifier
	out       *Broadcaster
	logger    *log.Logger
}

func NewRatingUsecase(store repository.Store, sentiment TextClassifier, out *Broadcaster, logger *log.Logger) *Rating {
	if logger == nil {
		logger = log.Default()
	}
	return &Rating{store: store, sentiment: sentiment, out: out, logger: logger}
}

// classify labels feedback when a sentiment service is configured. The
// rating never depends on the answer.
func (u *Rating) classify(ctx context.Context, feedback string) (*string, *float64) {
	if u.sentiment == nil || strings.TrimSpace(feedback) == "" {
		return nil, nil
	}
	res, err := u.sentiment.Classify(ctx, feedback)
	if err != nil || res.Label == "" {
		if err != nil {
			u.logger.Printf("Sentiment | skipped err=%v", err)
		}
		return nil, nil
	}
	return &res.Label, &res.Confidence
}

func (u *Rating) Create(ctx context.Context, a Actor, in RatingInput) (rating.Rating, error) {
	if !rating.ValidValue(in.Value) {
		return rating.Rating{}, invalid("value must be between %d and %d", rating.MinValue, rating.MaxValue)
	}
	feedback := strings.TrimSpace(in.Feedback)
	label, score := u.classify(ctx, feedback)

	var (
		created rating.Rating
		average float64
		note    notification.Notification
	)
	err := u.store.WithTx(ctx, func(tx repository.Store) error {
		if a.UserID <= 0 {
			return ErrUnauthorized
		}
		rater, err := tx.Profiles().GetByUserID(ctx, a.UserID)
		if err != nil {
			return fromRepo(err, "rater profile")
		}
		if rater.ID == in.SubjectID {
			return invalid("cannot rate yourself")
		}
		if _, err := tx.Profiles().GetByID(ctx, in.SubjectID); err != nil {
			return fromRepo(err, "subject profile")
		}
		if in.JobID != nil {
			if _, err := tx.Jobs().GetByID(ctx, *in.JobID); err != nil {
				return fromRepo(err, "job")
			}
		}

		key := rating.Key{RaterID: rater.ID, SubjectID: in.SubjectID, JobID: in.JobID}
		if _, err := tx.Ratings().FindByKey(ctx, key); err == nil {
			return conflict("rating already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		created, err = tx.Ratings().Create(ctx, rating.Rating{
			RaterID:        rater.ID,
			SubjectID:      in.SubjectID,
			JobID:          in.JobID,
			Value:          in.Value,
			Feedback:       feedback,
			SentimentLabel: label,
			SentimentScore: score,
		})
		if err != nil {
			return fromRepo(err, "rating")
		}

		average, err = tx.Profiles().RecomputeAverage(ctx, in.SubjectID)
		if err != nil {
			return err
		}

		note, err = tx.Notifications().Create(ctx, notification.Notification{
			ReceiverID: in.SubjectID,
			SenderID:   &rater.ID,
			Type:       notification.TypeRatingReceived,
			Message:    fmt.Sprintf("You received a %d-star rating", in.Value),
		})
		return err
	})
	if err != nil {
		return rating.Rating{}, err
	}

	u.out.Notifications(ctx, note)
	u.out.RatingChanged(ctx, created, "created", average)
	return created, nil
}

func (u *Rating) Get(ctx context.Context, id int64) (rating.Rating, error) {
	rt, err := u.store.Ratings().GetByID(ctx, id)
	return rt, fromRepo(err, "rating")
}

func (u *Rating) List(ctx context.Context, f rating.Filter) ([]rating.Rating, error) {
	return u.store.Ratings().List(ctx, f)
}

func (u *Rating) Update(ctx context.Context, a Actor, id int64, upd rating.Update) (rating.Rating, error) {
	// sentiment columns are derived, never client supplied
	upd.SentimentLabel, upd.SentimentScore = nil, nil
	if upd.IsEmpty() {
		return rating.Rating{}, invalid("no updatable fields supplied")
	}
	if upd.Value != nil && !rating.ValidValue(*upd.Value) {
		return rating.Rating{}, invalid("value must be between %d and %d", rating.MinValue, rating.MaxValue)
	}
	if upd.Feedback != nil {
		fb := strings.TrimSpace(*upd.Feedback)
		upd.Feedback = &fb
		upd.SentimentLabel, upd.SentimentScore = u.classify(ctx, fb)
	}

	var (
		updated rating.Rating
		average float64
	)
	err := u.store.WithTx(ctx, func(tx repository.Store) error {
		rt, err := tx.Ratings().GetByID(ctx, id)
		if err != nil {
			return fromRepo(err, "rating")
		}
		if err := authorize(ctx, tx, a, rt.RaterID); err != nil {
			return err
		}
		if err := tx.Ratings().Update(ctx, id, upd); err != nil {
			return fromRepo(err, "rating")
		}
		average, err = tx.Profiles().RecomputeAverage(ctx, rt.SubjectID)
		if err != nil {
			return err
		}
		updated, err = tx.Ratings().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return rating.Rating{}, err
	}

	u.out.RatingChanged(ctx, updated, "updated", average)
	return updated, nil
}

func (u *Rating) Delete(ctx context.Context, a Actor, id int64) error {
	var (
		removed rating.Rating
		average float64
	)
	err := u.store.WithTx(ctx, func(tx repository.Store) error {
		rt, err := tx.Ratings().GetByID(ctx, id)
		if err != nil {
			return fromRepo(err, "rating")
		}
		if err := authorize(ctx, tx, a, rt.RaterID); err != nil {
			return err
		}
		if err := tx.Ratings().Delete(ctx, id); err != nil {
			return fromRepo(err, "rating")
		}
		removed = rt
		average, err = tx.Profiles().RecomputeAverage(ctx, rt.SubjectID)
		return err
	})
	if err != nil {
		return err
	}

	u.out.RatingChanged(ctx, removed, "deleted", average)
	return nil
}

func (u *Rating) Badge(ctx context.Context, profileID int64) (rating.Badge, error) {
	if _, err := u.store.Profiles().GetByID(ctx, profileID); err != nil {
		return rating.Badge{}, fromRepo(err, "profile")
	}
	n, err := u.store.Ratings().CountHiredFiveStar(ctx, profileID)
	if err != nil {
		return rating.Badge{}, err
	}
	return rating.Badge{
		ProfileID:     profileID,
		FiveStarHired: n,
		Threshold:     rating.TopPerformerThreshold,
		TopPerformer:  n >= rating.TopPerformerThreshold,
	}, nil
}
