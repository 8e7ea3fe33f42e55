package inference

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
)

// PredictorBackend calls the local HTTP prediction server. The reply is the
// label/score pair formatted the way the chat displays assistant turns:
// "Positive (Score: 0.9)".
type PredictorBackend struct {
	client *resty.Client
	path   string
}

type predictRequest struct {
	Text     string `json:"text"`
	FileName string `json:"file_name,omitempty"`
	FileType string `json:"file_type,omitempty"`
	HasFile  bool   `json:"has_file,omitempty"`
}

type predictResponse struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

// NewPredictorBackend targets one of the prediction server's model routes,
// e.g. NewPredictorBackend("http://localhost:8000", "/predict").
func NewPredictorBackend(baseURL, path string) *PredictorBackend {
	return &PredictorBackend{
		client: resty.New().SetBaseURL(baseURL),
		path:   path,
	}
}

func (b *PredictorBackend) Reply(ctx context.Context, req Request) (Response, error) {
	var result predictResponse

	res, err := b.client.R().
		SetContext(ctx).
		SetBody(predictRequest{
			Text:     req.Text,
			FileName: req.FileName,
			FileType: req.FileType,
			HasFile:  req.HasFile,
		}).
		SetResult(&result).
		Post(b.path)
	if err != nil {
		return Response{}, fmt.Errorf("prediction request failed: %w", err)
	}
	if res.IsError() {
		return Response{}, fmt.Errorf("prediction server returned status %d", res.StatusCode())
	}

	return Response{Text: FormatPrediction(result.Sentiment, result.Score)}, nil
}

// FormatPrediction renders the assistant text for a label/score pair. The
// score keeps its shortest decimal form, so 0.9 stays "0.9", not "0.90".
func FormatPrediction(label string, score float64) string {
	return fmt.Sprintf("%s (Score: %s)", label, strconv.FormatFloat(score, 'g', -1, 64))
}
