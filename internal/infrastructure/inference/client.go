// Package inference talks to the external text classification and job
// recommendation services.
package inference

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3/client"
)

const defaultTimeout = 5 * time.Second

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type recommendRequest struct {
	ProfileID int64 `json:"profile_id"`
	Limit     int   `json:"limit"`
}

type recommendResponse struct {
	JobIDs []int64 `json:"job_ids"`
}

type httpService struct {
	name     string
	endpoint string
	client   *client.Client
	logger   *log.Logger
}

func newService(name, endpoint string, timeout time.Duration, logger *log.Logger) *httpService {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cc := client.New()
	cc.SetTimeout(timeout)
	return &httpService{name: name, endpoint: endpoint, client: cc, logger: logger}
}

func (s *httpService) post(ctx context.Context, body, out any) error {
	if s == nil || s.client == nil {
		return errors.New("nil inference client")
	}

	resp, err := s.client.Post(s.endpoint, client.Config{Ctx: ctx, Body: body})
	if err != nil {
		return err
	}
	defer resp.Close()

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		b := resp.Body()
		if len(b) > 4096 {
			b = b[:4096]
		}
		bodyStr := strings.TrimSpace(string(b))
		if s.logger != nil {
			s.logger.Printf("[Inference] %s error endpoint=%s status=%d body=%q", s.name, s.endpoint, code, bodyStr)
		}
		return fmt.Errorf("%s request failed: status=%d", s.name, code)
	}
	return resp.JSON(out)
}

// Classifier calls a service that answers {"label","confidence"} for a text.
type Classifier struct {
	svc *httpService
}

// NewClassifier returns nil when endpoint is empty so callers can treat the
// service as not configured.
func NewClassifier(name, endpoint string, timeout time.Duration, logger *log.Logger) usecase.TextClassifier {
	svc := newService(name, endpoint, timeout, logger)
	if svc == nil {
		return nil
	}
	return &Classifier{svc: svc}
}

func (c *Classifier) Classify(ctx context.Context, text string) (usecase.Classification, error) {
	var out classifyResponse
	if err := c.svc.post(ctx, classifyRequest{Text: text}, &out); err != nil {
		return usecase.Classification{}, err
	}
	return usecase.Classification{
		Label:      strings.ToLower(strings.TrimSpace(out.Label)),
		Confidence: out.Confidence,
	}, nil
}

// Recommender asks the recommendation service for ranked job ids.
type Recommender struct {
	svc *httpService
}

func NewRecommender(endpoint string, timeout time.Duration, logger *log.Logger) usecase.Recommender {
	svc := newService("recommendation", endpoint, timeout, logger)
	if svc == nil {
		return nil
	}
	return &Recommender{svc: svc}
}

func (r *Recommender) Recommend(ctx context.Context, profileID int64, limit int) ([]int64, error) {
	var out recommendResponse
	if err := r.svc.post(ctx, recommendRequest{ProfileID: profileID, Limit: limit}, &out); err != nil {
		return nil, err
	}
	return out.JobIDs, nil
}

var (
	_ usecase.TextClassifier = (*Classifier)(nil)
	_ usecase.Recommender    = (*Recommender)(nil)
)
