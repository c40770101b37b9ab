package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/okian/devmatch/internal/domain/scoring"
	"github.com/okian/devmatch/pkg/logger"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPScorer posts the feature record to a model endpoint and reads
// {"prediction": <float>} from the response body.
type HTTPScorer struct {
	url    string
	client *resty.Client
	logger logger.Logger
}

// NewHTTPScorer creates a scorer for the endpoint at url.
func NewHTTPScorer(url string, opts ...HTTPOption) *HTTPScorer {
	s := &HTTPScorer{
		url: url,
		client: resty.New().
			SetTimeout(defaultHTTPTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score calls the model endpoint once.
//
// A non-2xx status or an unusable body yields an error wrapping
// scoring.ErrModelFailed. Transport failures and ctx cancellation yield a
// plain error.
func (s *HTTPScorer) Score(ctx context.Context, in scoring.Input) (float64, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(in).
		Post(s.url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("model endpoint: %w", ctxErr)
		}
		return 0, fmt.Errorf("call model endpoint: %w", err)
	}

	if resp.IsError() {
		s.logger.Warn(ctx, "model endpoint returned an error status",
			logger.String("url", s.url),
			logger.Int("status", resp.StatusCode()),
		)
		return 0, fmt.Errorf("%w: status %d", ErrBadStatus, resp.StatusCode())
	}

	return ParsePrediction(resp.Body())
}
