package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/resilience"
)

// ServiceSource extracts pages through an HTTP table-extraction service.
// The service takes the raw PDF and returns page text plus the table
// cells it detected, which lets the pipeline use the table strategy.
type ServiceSource struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewServiceSource creates a ServiceSource. rps throttles requests; zero
// or negative means 1 request per second.
func NewServiceSource(baseURL, token string, rps float64) *ServiceSource {
	if rps <= 0 {
		rps = 1
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("ocr-service", "extract")
	return &ServiceSource{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		retry:   retry,
	}
}

type servicePage struct {
	Number int          `json:"page_number"`
	Text   string       `json:"text"`
	Tables [][][]string `json:"tables"`
}

type serviceResponse struct {
	Pages []servicePage `json:"pages"`
	Error string        `json:"error,omitempty"`
}

// Pages uploads the PDF and converts the service response into the
// pipeline's page sequence, sorted by page number. Transient service
// failures are retried with backoff.
func (s *ServiceSource) Pages(ctx context.Context, pdfPath string) ([]model.Page, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: read PDF %s", pdfPath)
	}

	sr, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (*serviceResponse, error) {
		return s.call(ctx, data)
	})
	if err != nil {
		return nil, err
	}

	pages := make([]model.Page, 0, len(sr.Pages))
	for _, sp := range sr.Pages {
		page := model.Page{Number: sp.Number, Text: sp.Text}
		for _, rows := range sp.Tables {
			page.Tables = append(page.Tables, model.Table{Rows: rows})
		}
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages, nil
}

func (s *ServiceSource) call(ctx context.Context, data []byte) (*serviceResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "ocr: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/extract", bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "ocr: create service request")
	}
	req.Header.Set("Content-Type", "application/pdf")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ocr: service call")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ocr: read service response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("ocr: service returned %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var sr serviceResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrap(err, "ocr: unmarshal service response")
	}
	if sr.Error != "" {
		return nil, eris.Errorf("ocr: service reported: %s", sr.Error)
	}
	return &sr, nil
}
